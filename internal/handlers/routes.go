package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/snaplink-io/snaplink/internal/ratelimit"
)

// RegisterRoutes wires every link operation with per-endpoint rate limit
// configuration: strict on writes, relaxed on the redirect hot path.
func RegisterRoutes(api huma.API, h *LinkHandler) {
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/api/links",
		Summary:     "Create short link",
		Description: "Creates a short link with an optional custom alias and expiration.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 10},
					{Window: time.Hour, Max: 100},
					{Window: 24 * time.Hour, Max: 500},
				},
			},
		},
	}, h.CreateLink)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/api/links",
		Summary:     "List links",
		Description: "Pages through the caller's links, newest first, with search and tag filters.",
		Tags:        []string{"Links"},
	}, h.ListLinks)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/api/links/{id}",
		Summary:     "Get link",
		Tags:        []string{"Links"},
	}, h.GetLink)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPatch,
		Path:        "/api/links/{id}",
		Summary:     "Update link",
		Description: "Patches title, description, active flag, tags, or expiration. Code, alias and destination are immutable.",
		Tags:        []string{"Links"},
	}, h.UpdateLink)

	huma.Register(api, huma.Operation{
		Method:      http.MethodDelete,
		Path:        "/api/links/{id}",
		Summary:     "Delete link",
		Description: "Removes the link and cascades deletion of its click events.",
		Tags:        []string{"Links"},
	}, h.DeleteLink)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/api/links/{id}/analytics",
		Summary:     "Link analytics",
		Description: "Country, device, browser and daily click breakdowns for one link.",
		Tags:        []string{"Analytics"},
	}, h.LinkAnalytics)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/api/dashboard",
		Summary:     "Dashboard analytics",
		Tags:        []string{"Analytics"},
	}, h.Dashboard)

	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/api/users/reconcile",
		Summary:     "Reconcile counters",
		Description: "Recomputes the caller's aggregate counters from the link and click sets.",
		Tags:        []string{"Maintenance"},
	}, h.ReconcileCounters)

	// The redirect serves anonymous traffic and is the hot path.
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Resolves the code or alias, records the click, and redirects.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, h.Redirect)
}
