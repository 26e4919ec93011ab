package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/samyukta/registration-service/internal/transport/http/response"
)

type RateLimiter interface {
	AllowRequest(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error)
}

// RateLimitByIP is a fixed window shared by all replicas through Redis.
// A limiter error lets the request through.
func RateLimitByIP(limiter RateLimiter, limit int, window time.Duration) func(http.Handler) http.Handler {
	if window <= 0 {
		window = time.Minute
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "rl:ip:" + clientIP(r)

			allowed, retry, err := limiter.AllowRequest(r.Context(), key, limit, window)
			if err != nil {
				zlog.Warn().Err(err).Msg("rate limiter unavailable, failing open")
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				if retry > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int((retry+time.Second-1)/time.Second)))
				}
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
				response.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", nil, response.RequestID(r))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// chi's RealIP has already rewritten RemoteAddr when it runs first.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
