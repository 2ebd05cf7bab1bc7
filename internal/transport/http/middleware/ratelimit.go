package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/httprate"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/domain"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/infrastructure/redis"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/logger"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (redis.Decision, error)
}

// FixedWindowConfig defines the configuration for a fixed-window rate limit.
type FixedWindowConfig struct {
	RouteKey string
	Limit    int
	Window   time.Duration
}

func (c FixedWindowConfig) withDefaults() FixedWindowConfig {
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	if c.RouteKey == "" {
		c.RouteKey = "unknown"
	}
	return c
}

// RateLimitFixedWindow throttles per client IP through a shared limiter.
// Limiter errors fail open.
func RateLimitFixedWindow(limiter RateLimiter, cfg FixedWindowConfig, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	cfg = cfg.withDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := "rl:" + cfg.RouteKey + ":ip:" + clientIP(r)

			dec, err := limiter.Allow(r.Context(), key, cfg.Limit, cfg.Window)
			if err != nil {
				logger.WithCtx(r.Context()).Warn().
					Err(err).
					Str("route", cfg.RouteKey).
					Msg("rate limiter unavailable; allowing request")
				next.ServeHTTP(w, r)
				return
			}

			if dec.Limit > 0 {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(dec.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(dec.Remaining))
			}

			if !dec.Allowed {
				if dec.RetryAfter > 0 {
					secs := int(math.Ceil(dec.RetryAfter.Seconds()))
					w.Header().Set("Retry-After", strconv.Itoa(secs))
				}
				RateLimitedTotal.WithLabelValues(cfg.RouteKey).Inc()
				writeErr(w, r, domain.ErrRateLimited())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP is the in-process fallback used when no shared limiter is
// configured. Counters live in this process only.
func RateLimitByIP(cfg FixedWindowConfig, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	cfg = cfg.withDefaults()
	if cfg.Limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		cfg.Limit,
		cfg.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			RateLimitedTotal.WithLabelValues(cfg.RouteKey).Inc()
			writeErr(w, r, domain.ErrRateLimited())
		}),
	)
}

// clientIP reads RemoteAddr, which chi's RealIP middleware has already
// replaced with the forwarded address when one was sent.
func clientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	host, _, err := net.SplitHostPort(addr)
	if err == nil && host != "" {
		return host
	}
	return addr
}
