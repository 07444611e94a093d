package container

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do"
	"github.com/snaplink-io/snaplink/internal/store"
)

// PostgresPackage provides the connection pool and applies the schema.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		pool, err := pgxpool.New(context.Background(), options.PostgresDSN)
		if err != nil {
			return nil, err
		}

		if err = store.Migrate(context.Background(), pool); err != nil {
			pool.Close()

			return nil, err
		}

		return pool, nil
	})
}
