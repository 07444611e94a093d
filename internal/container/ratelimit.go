package container

import (
	"time"

	"github.com/samber/do"
	"github.com/snaplink-io/snaplink/internal/ratelimit"
	"github.com/snaplink-io/snaplink/internal/store"
)

// RateLimitPackage provides the sliding-window limiter with defaults for
// endpoints that carry no metadata of their own.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*ratelimit.Limiter, error) {
		defaults := []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 60},
			{Window: time.Hour, Max: 1000},
		}

		return ratelimit.NewLimiter(store.NewRateLimitMemoryStore(), defaults), nil
	})
}
