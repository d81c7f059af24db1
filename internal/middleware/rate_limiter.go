package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/fakhrymubarak/chennai-weather/internal/config"
	"github.com/fakhrymubarak/chennai-weather/internal/model"
)

// visitor holds the rate limiter and last seen time for a specific IP address.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-client token bucket keyed by IP.
type RateLimiter struct {
	rate  rate.Limit
	burst int
	ttl   time.Duration
	now   func() time.Time

	// peers whose X-Forwarded-For header names the real client
	trusted map[string]bool

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewRateLimiter builds a limiter from the refresh limiter config.
func NewRateLimiter() *RateLimiter {
	r, burst := config.GetRefreshRateLimiterConfig()
	rl := NewRateLimiterWith(r, burst, config.GetRateLimiterCleanupTimeout())
	return rl.TrustProxies(config.GetTrustedProxies()...)
}

func NewRateLimiterWith(perSecond float64, burst int, ttl time.Duration) *RateLimiter {
	return &RateLimiter{
		rate:     rate.Limit(perSecond),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
		trusted:  make(map[string]bool),
		visitors: make(map[string]*visitor),
	}
}

// TrustProxies makes the limiter key requests arriving from any of ips on
// the first X-Forwarded-For hop instead of the peer address.
func (rl *RateLimiter) TrustProxies(ips ...string) *RateLimiter {
	for _, ip := range ips {
		rl.trusted[ip] = true
	}
	return rl
}

// getLimiter returns the limiter for ip, creating one if it does not exist.
func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

// Allow reports whether ip may make another request now.
func (rl *RateLimiter) Allow(ip string) bool {
	return rl.getLimiter(ip).Allow()
}

// Cleanup removes visitors that have not been seen for longer than the ttl.
func (rl *RateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	removed := 0
	cutoff := rl.now().Add(-rl.ttl)
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
			removed++
		}
	}
	return removed
}

// StartCleanup runs Cleanup every minute until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup()
			}
		}
	}()
}

// Reset clears all visitor state. Used primarily for testing.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for k := range rl.visitors {
		delete(rl.visitors, k)
	}
}

func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// clientIP returns the peer address of r, or the first X-Forwarded-For hop
// when the peer is a trusted proxy.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if !rl.trusted[ip] {
		return ip
	}
	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" {
		return ip
	}
	first, _, _ := strings.Cut(xff, ",")
	if first = strings.TrimSpace(first); first != "" {
		return first
	}
	return ip
}

// Middleware rejects requests over the limit with 429 and a JSON error.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(rl.clientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", fmt.Sprintf("%d", rl.retryAfterSeconds()))
			w.WriteHeader(http.StatusTooManyRequests)
			resp := model.Failure(
				fmt.Sprintf("Rate limit exceeded: max %d refreshes in a burst per IP", rl.burst),
				"Too Many Requests")
			_ = json.NewEncoder(w).Encode(resp)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) retryAfterSeconds() int {
	if rl.rate <= 0 {
		return 60
	}
	secs := int(1/float64(rl.rate) + 0.5)
	if secs < 1 {
		secs = 1
	}
	return secs
}
