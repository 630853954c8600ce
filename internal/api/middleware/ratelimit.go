package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"

	"github.com/clarainova/clara-backend/internal/pkg/ratelimit"
	"github.com/clarainova/clara-backend/internal/pkg/response"
)

// RateLimit enforces a fixed window per client identifier under the given
// name. It runs before any expensive work on the route, admin key
// validation included.
func RateLimit(limiter ratelimit.Limiter, name string, window ratelimit.Window) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := name + ":" + clientKey(r)

			result, err := limiter.Allow(r.Context(), key, window)
			if err != nil {
				// A broken limiter backend must not take the API down.
				ctxzap.Warn(r.Context(), "rate limiter unavailable, letting request through", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if !result.Allowed {
				retryAfter := int(result.RetryAfter.Round(time.Second).Seconds())
				ctxzap.Info(r.Context(), "request rate limited",
					zap.String("limit_name", name),
					zap.Int("retry_after_s", retryAfter),
				)
				response.RateLimited(w, retryAfter)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey identifies the caller: session fingerprint header when the
// frontend supplies one, source IP otherwise.
func clientKey(r *http.Request) string {
	if fp := r.Header.Get("X-Session-Id"); fp != "" {
		return fp
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
