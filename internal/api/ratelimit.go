package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/soundfolio/soundfolio-server/internal/errors"
	"github.com/soundfolio/soundfolio-server/internal/ratelimit"
)

// RateLimiter wraps KeyedRateLimiter for API use.
type RateLimiter = ratelimit.KeyedRateLimiter

// NewRateLimiter creates a new rate limiter.
// rate: number of requests allowed per interval
// interval: time period for rate (e.g., time.Minute)
// burst: maximum burst size
func NewRateLimiter(ratePerInterval int, interval time.Duration, burst int) *RateLimiter {
	// The limiter works in requests per second.
	// For example: 20 per minute = 20/60 = 0.333 rps
	rps := float64(ratePerInterval) / interval.Seconds()
	return ratelimit.New(rps, burst)
}

// rateLimitByIP returns an operation middleware that rejects requests
// over the per-IP budget with 429. Attached to abuse-prone public
// operations (login, refresh, contact submission).
func (s *Server) rateLimitByIP(limiter *RateLimiter) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		key := clientIP(ctx)

		if !limiter.Allow(key) {
			s.logger.Warn("Rate limit exceeded",
				"ip", key,
				"path", ctx.URL().Path,
			)
			_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests,
				"Too many requests. Please try again later.",
				domainerrors.RateLimited("rate limit exceeded"),
			)
			return
		}

		next(ctx)
	}
}

// clientIP extracts the client IP from a huma request context.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func clientIP(ctx huma.Context) string {
	// Check X-Forwarded-For (may contain multiple IPs, first is client).
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		// Take first IP in the chain.
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	// Check X-Real-IP.
	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	return stripPort(ctx.RemoteAddr())
}

// getClientIP extracts the client IP from a plain HTTP request. Used by the
// event stream route, which is mounted directly on the router outside huma.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return stripPort(r.RemoteAddr)
}

// stripPort drops the :port suffix from a remote address.
func stripPort(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[:i]
		}
	}
	return addr
}
