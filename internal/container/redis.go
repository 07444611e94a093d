package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

// RedisPackage provides the shared redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}
