package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimit enforces a per-client token bucket keyed by API key when one
// is presented, else by remote IP. Buckets idle past the TTL are dropped
// on the next sweep.
func RateLimit(rpm, burst int) func(http.Handler) http.Handler {
	l := &limiter{
		rate:  rate.Limit(float64(rpm) / 60),
		burst: burst,
		ttl:   10 * time.Minute,
		m:     make(map[string]*client),
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientKey(r)) {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

type limiter struct {
	rate  rate.Limit
	burst int
	ttl   time.Duration
	mu    sync.Mutex
	m     map[string]*client
	sweep time.Time
}

func (l *limiter) allow(key string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.sweep) > l.ttl {
		for k, c := range l.m {
			if now.Sub(c.seen) > l.ttl {
				delete(l.m, k)
			}
		}
		l.sweep = now
	}

	c := l.m[key]
	if c == nil {
		c = &client{lim: rate.NewLimiter(l.rate, l.burst)}
		l.m[key] = c
	}
	c.seen = now
	return c.lim.Allow()
}

func clientKey(r *http.Request) string {
	if k := presentedKey(r); k != "" {
		return "key:" + k
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}
