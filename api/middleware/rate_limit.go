package middleware

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/quickkart/quickkart-backend/api/responses"
	"github.com/quickkart/quickkart-backend/pkg/config"
	pkgerrors "github.com/quickkart/quickkart-backend/pkg/errors"
	"github.com/quickkart/quickkart-backend/pkg/logger"
)

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimit applies a fixed-window request budget per authenticated customer,
// falling back to the remote address for anonymous calls. A redis outage
// lets traffic through rather than failing the request.
func RateLimit(limiter rateLimiter, cfg config.RateLimitConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || cfg.Requests <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			scope := CustomerIDFromContext(r.Context())
			if scope == "" {
				scope = remoteHost(r)
			}

			allowed, count, err := limiter.FixedWindowAllow(r.Context(), scope, cfg.Requests, cfg.Window)
			if err != nil {
				if logg != nil {
					logg.Warn(r.Context(), "rate limit check failed, allowing request")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{"scope": scope, "count": count})
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
