package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

// getRateLimitForEndpoint determines which rate limit to apply based on config
func (mw *Middleware) getRateLimitForEndpoint(path, method string) (int, time.Duration) {
	// Auth endpoints get the strictest limits
	if strings.HasPrefix(path, "/auth/login") ||
		strings.HasPrefix(path, "/auth/register") ||
		strings.HasPrefix(path, "/auth/logout") ||
		strings.HasPrefix(path, "/auth/refresh") {
		return mw.cfg.RateLimit.AuthLimit, mw.cfg.RateLimit.AuthWindow
	}

	// Expensive read operations
	if method == http.MethodGet && (strings.HasPrefix(path, "/dashboard") ||
		strings.Contains(path, "/orders")) {
		return mw.cfg.RateLimit.ExpensiveLimit, mw.cfg.RateLimit.ExpensiveWindow
	}

	return mw.cfg.RateLimit.GeneralLimit, mw.cfg.RateLimit.GeneralWindow
}

// getClientIP extracts the real client IP from request headers
func (mw *Middleware) getClientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs, take the first one
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}

	return ip
}

// RateLimitMiddleware implements per-IP, per-endpoint rate limiting backed
// by Redis counters. Cache errors fail open.
func (mw *Middleware) RateLimitMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mw.cfg.RateLimit.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			// Health checks and the root welcome are never rate limited
			if strings.HasPrefix(r.URL.Path, "/health") || r.URL.Path == "/" {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := mw.getClientIP(r)
			limit, window := mw.getRateLimitForEndpoint(r.URL.Path, r.Method)
			endpoint := r.URL.Path

			count, err := mw.cacheService.IncrementRateLimit(clientIP, endpoint, window)
			if err != nil {
				mw.logger.Warn("Rate limit cache error, allowing request",
					gecho.Field("error", err),
					gecho.Field("ip", clientIP),
					gecho.Field("endpoint", endpoint))
				next.ServeHTTP(w, r)
				return
			}

			if count > limit {
				mw.logger.Warn("Rate limit exceeded",
					gecho.Field("ip", clientIP),
					gecho.Field("endpoint", endpoint),
					gecho.Field("count", count),
					gecho.Field("limit", limit))

				w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(window).Unix()))
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))

				gecho.TooManyRequests(w,
					gecho.WithMessage("Rate limit exceeded. Please try again later."),
					gecho.Send())
				return
			}

			remaining := max(0, limit-count)
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(window).Unix()))

			next.ServeHTTP(w, r)
		})
	}
}
