package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"lunarbase-server/internal/shared/config"

	"golang.org/x/time/rate"
)

type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	Enabled           bool
	TrustProxy        bool
}

func RateLimitConfigFrom(cfg config.RateLimitConfig) RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: cfg.RequestsPerSecond,
		BurstSize:         cfg.BurstSize,
		Enabled:           cfg.Enabled,
	}
}

type RateLimiter struct {
	config  RateLimitConfig
	clients map[string]*rate.Limiter
	mu      sync.Mutex
}

func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		config:  config,
		clients: make(map[string]*rate.Limiter),
	}
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.clients[ip]
	if !exists {
		limiter = rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize)
		rl.clients[ip] = limiter
	}
	return limiter
}

// Run drops idle client limiters every minute until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context) {
	if !rl.config.Enabled {
		return
	}

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.cleanup(now)
		}
	}
}

func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// A full bucket means the client has been idle long enough to forget.
	for ip, limiter := range rl.clients {
		if limiter.TokensAt(now) >= float64(rl.config.BurstSize) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.config.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		ip := getClientIP(r, rl.config.TrustProxy)
		if !rl.getLimiter(ip).Allow() {
			slog.Warn("Rate limit exceeded",
				"middleware", "rate_limit",
				"client_ip", ip,
				"method", r.Method,
				"path", r.URL.Path,
				"requests_per_second", rl.config.RequestsPerSecond,
				"burst_size", rl.config.BurstSize,
			)

			w.Header().Set("Retry-After", "1")
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// X-Forwarded-For can be comma-separated; first entry is the client
			first, _, _ := strings.Cut(xff, ",")
			return strings.TrimSpace(first)
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
