package rpc

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimit configures a token-bucket limit applied per client identifier,
// grounded on the teacher's gateway middleware.RateLimit
// (gateway/middleware/ratelimit.go).
type RateLimit struct {
	RatePerSecond float64
	Burst         int
}

// RateLimiter throttles the public claim endpoint so an unauthenticated
// caller cannot hammer Merkle-proof verification or the payment adapter.
// Unlike the admin surface, claim has no bearer token to key off, so
// visitors are tracked by resolved client IP.
type RateLimiter struct {
	limit    RateLimit
	mu       sync.Mutex
	visitors map[string]*rate.Limiter
	now      func() time.Time
}

// NewRateLimiter constructs a RateLimiter enforcing limit per client IP.
func NewRateLimiter(limit RateLimit) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		visitors: make(map[string]*rate.Limiter),
		now:      time.Now,
	}
}

// Middleware rejects requests exceeding the configured rate with 429.
func (r *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		limiter := r.obtain(clientID(req))
		if !limiter.AllowN(r.now(), 1) {
			writeError(w, http.StatusTooManyRequests, nil, codeConflict, "rate_limited", nil)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func (r *RateLimiter) obtain(id string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.visitors[id]; ok {
		return l
	}
	perSecond := r.limit.RatePerSecond
	if perSecond <= 0 {
		perSecond = 1
	}
	burst := r.limit.Burst
	if burst <= 0 {
		burst = 1
	}
	l := rate.NewLimiter(rate.Limit(perSecond), burst)
	r.visitors[id] = l
	return l
}

func clientID(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if comma := strings.IndexByte(ip, ','); comma > 0 {
			ip = strings.TrimSpace(ip[:comma])
		}
		if parsed := net.ParseIP(ip); parsed != nil {
			return parsed.String()
		}
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
