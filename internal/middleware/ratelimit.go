package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/snaplink-io/snaplink/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimiter applies sliding-window limits keyed by client IP and
// user-agent. Per-endpoint limits come from operation metadata; requests
// to endpoints without metadata use the limiter defaults.
func RateLimiter(api huma.API, limiter *ratelimit.Limiter, logger *zap.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		var limits []ratelimit.LimitConfig

		if cfg := ratelimit.GetEndpointConfig(ctx); cfg != nil {
			if cfg.Disabled {
				next(ctx)

				return
			}

			limits = cfg.Limits
		}

		path := operationPath(ctx)

		allowed, exceeded, err := limiter.Allow(ctx.Context(), clientKey(ctx, path), limits)
		if err != nil {
			logger.Error("rate limit check failed", zap.String("path", path), zap.Error(err))
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return
		}

		if !allowed {
			logger.Warn("rate limit exceeded",
				zap.String("path", path),
				zap.String("method", ctx.Method()),
				zap.Int64("count", exceeded.Count),
				zap.Int64("max", exceeded.Config.Max),
				zap.Duration("window", exceeded.Config.Window),
				zap.String("client_ip", clientIP(ctx)),
			)
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, exceeded.Error())

			return
		}

		next(ctx)
	}
}

// clientKey hashes client IP, user-agent and the route template so each
// endpoint tracks its own counters per client. Using the route template
// (not the concrete path) means all values under one pattern share a
// counter.
func clientKey(ctx huma.Context, path string) string {
	hash := sha256.Sum256([]byte(clientIP(ctx) + "|" + ctx.Header("User-Agent") + "|" + path))

	return hex.EncodeToString(hash[:])
}

func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ""
}
