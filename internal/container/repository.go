package container

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/snaplink-io/snaplink/internal/geo"
	"github.com/snaplink-io/snaplink/internal/shortener"
	"github.com/snaplink-io/snaplink/internal/store"
	"go.uber.org/zap"
)

// RepositoryPackage provides the storage stack and the domain services
// built on it: postgres repository behind the redis resolve cache, the
// code generator, registry, recorder and aggregator.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		options := do.MustInvoke[*Options](i)
		pool := do.MustInvoke[*pgxpool.Pool](i)
		client := do.MustInvoke[*redis.Client](i)

		pg := store.NewPostgresStore(pool)
		ttl := time.Duration(options.CacheTTL) * time.Second

		return store.NewCachedRepository(pg, client, ttl), nil
	})

	do.Provide(injector, func(i *do.Injector) (shortener.CodeGenerator, error) {
		options := do.MustInvoke[*Options](i)

		return shortener.NewCodeGenerator(options.CodeLength)
	})

	do.Provide(injector, func(i *do.Injector) (geo.Locator, error) {
		return geo.NewNoopLocator(), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Registry, error) {
		repo := do.MustInvoke[shortener.Repository](i)
		generator := do.MustInvoke[shortener.CodeGenerator](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return shortener.NewRegistry(repo, generator, logger), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Recorder, error) {
		repo := do.MustInvoke[shortener.Repository](i)
		locator := do.MustInvoke[geo.Locator](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return shortener.NewRecorder(repo, locator, logger), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Aggregator, error) {
		repo := do.MustInvoke[shortener.Repository](i)

		return shortener.NewAggregator(repo), nil
	})
}
