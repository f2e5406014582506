package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/George1161/the-legit-website/errs"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	limiterTTL     = 10 * time.Minute
	sweepInterval  = time.Minute
	retryAfterHint = time.Second
)

// ipRateLimiter throttles requests per resolved client IP with a token bucket.
type ipRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

type clientLimiter struct {
	lim     *rate.Limiter
	lastHit time.Time
}

// newIPRateLimiter returns nil when perMinute is not positive, which disables throttling.
func newIPRateLimiter(perMinute, burst int) *ipRateLimiter {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &ipRateLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    burst,
		ttl:      limiterTTL,
		now:      time.Now,
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	// lazy cleanup
	if now.Sub(l.lastSweep) > sweepInterval {
		for k, v := range l.limiters {
			if now.Sub(v.lastHit) > l.ttl {
				delete(l.limiters, k)
			}
		}
		l.lastSweep = now
	}

	cl, ok := l.limiters[ip]
	if !ok {
		cl = &clientLimiter{lim: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = cl
	}
	cl.lastHit = now
	return cl.lim.AllowN(now, 1)
}

func (l *ipRateLimiter) middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	responder := NewResponder(log.With().Str("handlerName", "rateLimiter").Logger())

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.allow(ip) {
			retry := time.Duration(float64(time.Second) / float64(l.limit))
			retry = max(retry, retryAfterHint)
			w.Header().Set("Retry-After", strconv.Itoa(int(retry.Round(time.Second).Seconds())))
			responder.WriteError(w, errs.NewRateLimitError(retry))
			return
		}
		next.ServeHTTP(w, r)
	})
}
