package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "samsun_news"

// Article outcomes recorded per processed entry.
const (
	OutcomeInserted  = "inserted"
	OutcomeDuplicate = "duplicate"
	OutcomeFiltered  = "filtered"
	OutcomeSkipped   = "skipped"
	OutcomeError     = "error"
)

type Metrics struct {
	Entries         *prometheus.CounterVec
	FeedFailures    *prometheus.CounterVec
	FeedDuration    *prometheus.HistogramVec
	PassDuration    prometheus.Histogram
	PassesCompleted prometheus.Counter
	LastPassEnd     prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Entries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_total",
			Help:      "Feed entries processed, by category and outcome.",
		}, []string{"category", "outcome"}),
		FeedFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_failures_total",
			Help:      "Feeds that could not be fetched, parsed or committed.",
		}, []string{"category"}),
		FeedDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_duration_seconds",
			Help:      "Time spent ingesting a single feed.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"category"}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Time spent on a full pass over all sources.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		PassesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passes_total",
			Help:      "Completed passes.",
		}),
		LastPassEnd: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_pass_end_timestamp_seconds",
			Help:      "Unix time the last pass finished.",
		}),
	}

	reg.MustRegister(m.Entries, m.FeedFailures, m.FeedDuration, m.PassDuration, m.PassesCompleted, m.LastPassEnd)

	return m
}
