package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Entries.WithLabelValues("local", OutcomeInserted).Add(2)
	m.FeedFailures.WithLabelValues("national").Inc()
	m.PassesCompleted.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Entries.WithLabelValues("local", OutcomeInserted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FeedFailures.WithLabelValues("national")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewPanicsOnDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	assert.Panics(t, func() { New(reg) })
}
