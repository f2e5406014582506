package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPRateLimiterAllow(t *testing.T) {
	limiter := newIPRateLimiter(60, 2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.allow("1.1.1.1"))
	assert.True(t, limiter.allow("1.1.1.1"))
	assert.False(t, limiter.allow("1.1.1.1"), "burst exhausted")
	assert.True(t, limiter.allow("2.2.2.2"), "buckets are per IP")

	now = now.Add(time.Second)
	assert.True(t, limiter.allow("1.1.1.1"), "one token per second refills")
	assert.False(t, limiter.allow("1.1.1.1"))
}

func TestIPRateLimiterSweepsIdleClients(t *testing.T) {
	limiter := newIPRateLimiter(60, 1)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.allow("1.1.1.1")
	now = now.Add(limiterTTL + 2*sweepInterval)
	limiter.allow("2.2.2.2")

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.NotContains(t, limiter.limiters, "1.1.1.1")
	assert.Contains(t, limiter.limiters, "2.2.2.2")
}

func TestIPRateLimiterDisabled(t *testing.T) {
	assert.Nil(t, newIPRateLimiter(0, 10))

	var limiter *ipRateLimiter
	called := false
	handler := limiter.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/vote", nil))
	assert.True(t, called)
}

func TestIPRateLimiterMiddleware(t *testing.T) {
	limiter := newIPRateLimiter(60, 1)
	handler := resolveClientIP(limiter.middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/vote", nil)
		req.Header.Set("X-Forwarded-For", "3.3.3.3")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusNoContent, send().Code)

	rec := send()
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"success":false,"message":"Too many requests, slow down."}`, rec.Body.String())
}
