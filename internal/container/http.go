package container

import (
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/snaplink-io/snaplink/internal/analytics"
	"github.com/snaplink-io/snaplink/internal/handlers"
	"github.com/snaplink-io/snaplink/internal/health"
	"github.com/snaplink-io/snaplink/internal/messaging"
	"github.com/snaplink-io/snaplink/internal/middleware"
	"github.com/snaplink-io/snaplink/internal/ratelimit"
	"github.com/snaplink-io/snaplink/internal/shortener"
	"go.uber.org/zap"
)

// HTTPPackage provides the router and the API with every route and
// middleware registered. Invoking huma.API builds the whole HTTP surface.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)
		limiter := do.MustInvoke[*ratelimit.Limiter](i)
		publishers := do.MustInvoke[*messaging.PublisherGroup](i)

		api := humachi.New(router, huma.DefaultConfig("snaplink", "1.0.0"))

		api.UseMiddleware(
			middleware.RequestMeta(api),
			middleware.Identity(api),
			middleware.RateLimiter(api, limiter, logger),
		)

		baseURL := options.BaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("http://localhost:%d", options.Port)
		}

		linkHandler := handlers.NewLinkHandler(
			do.MustInvoke[*shortener.Registry](i),
			do.MustInvoke[*shortener.Recorder](i),
			do.MustInvoke[*shortener.Aggregator](i),
			baseURL,
			messaging.NewPublishFunc[analytics.LinkCreatedEvent](publishers.Publisher(), analytics.TopicLinkCreated),
			messaging.NewPublishFunc[analytics.LinkClickedEvent](publishers.Publisher(), analytics.TopicLinkClicked),
			messaging.NewPublishFunc[analytics.LinkDeletedEvent](publishers.Publisher(), analytics.TopicLinkDeleted),
			logger,
		)

		healthHandler := health.NewHandler(
			health.NewRedisChecker(do.MustInvoke[*redis.Client](i)),
			health.NewPostgresChecker(do.MustInvoke[*pgxpool.Pool](i)),
		)

		handlers.RegisterRoutes(api, linkHandler)
		health.RegisterRoutes(api, healthHandler)

		return api, nil
	})
}
