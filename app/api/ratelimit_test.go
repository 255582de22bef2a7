package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimit_RejectsBurstOverflow(t *testing.T) {
	r := newTestServer(newTestStore(t), ServerOptions{RateLimit: 0.001, RateBurst: 2})

	assert.Equal(t, http.StatusOK, get(t, r, "/api/articles").Code)
	assert.Equal(t, http.StatusOK, get(t, r, "/api/articles").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, r, "/api/articles").Code)

	// health checks are never limited
	assert.Equal(t, http.StatusOK, get(t, r, "/health").Code)
}

func TestRateLimit_DisabledWithZero(t *testing.T) {
	r := newTestServer(newTestStore(t), ServerOptions{RateLimit: 0, RateBurst: 1})

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get(t, r, "/api/articles").Code)
	}
}

func TestRateLimiter_PerClientAndSweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.2"))

	now = now.Add(clientIdleTTL + clientSweepEvery)
	assert.True(t, l.allow("10.0.0.3"))

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.clients, "10.0.0.1")
	assert.NotContains(t, l.clients, "10.0.0.2")
	assert.Contains(t, l.clients, "10.0.0.3")
}
