package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/snaplink-io/snaplink/internal/container"
	"go.uber.org/zap"
)

// buildInjector wires the API process: logger first, then the redis and
// postgres clients, then the repositories and everything serving HTTP on
// top of them.
func buildInjector(options *container.Options) *do.Injector {
	injector := do.New()

	do.ProvideValue(injector, options)
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.PostgresPackage(injector)
	container.RepositoryPackage(injector)
	container.RateLimitPackage(injector)
	container.PublisherGroupPackage(injector)
	container.HTTPPackage(injector)

	return injector
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *container.Options) {
		injector := buildInjector(options)
		logger := do.MustInvoke[*zap.Logger](injector)

		var server *http.Server

		hooks.OnStart(func() {
			router := do.MustInvoke[*chi.Mux](injector)

			// Resolving the API registers every route on the router.
			_ = do.MustInvoke[huma.API](injector)

			server = &http.Server{
				Addr:              fmt.Sprintf(":%d", options.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			logger.Info("snaplink api listening",
				zap.Int("port", options.Port),
				zap.String("base_url", options.BaseURL),
				zap.Int("code_length", options.CodeLength),
			)

			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("http server failed", zap.Error(err))
			}
		})

		hooks.OnStop(func() {
			logger.Info("draining connections")

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			// Stop accepting requests before the container tears down the
			// pools and the event publisher behind them.
			if server != nil {
				if err := server.Shutdown(ctx); err != nil {
					logger.Error("http shutdown error", zap.Error(err))
				}
			}

			if err := injector.Shutdown(); err != nil {
				logger.Error("container shutdown error", zap.Error(err))
			}

			logger.Info("shutdown complete")
		})
	})

	cli.Run()
}
