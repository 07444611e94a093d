package middleware

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/snaplink-io/snaplink/internal/handlers"
)

// UserIDHeader is set by the upstream auth proxy. Authentication itself
// is outside this service; the header carries the stable user id the
// identity provider resolved.
const UserIDHeader = "X-User-ID"

// Identity propagates the authenticated user id into the request
// context. Handlers that need an owner reject requests without one.
func Identity(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if userID := ctx.Header(UserIDHeader); userID != "" {
			ctx = huma.WithContext(ctx, handlers.ContextWithUserID(ctx.Context(), userID))
		}

		next(ctx)
	}
}
