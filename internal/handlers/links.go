package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/snaplink-io/snaplink/internal/analytics"
	"github.com/snaplink-io/snaplink/internal/messaging"
	"github.com/snaplink-io/snaplink/internal/shortener"
	"go.uber.org/zap"
)

// LinkHandler exposes the link lifecycle over HTTP.
type LinkHandler struct {
	registry   *shortener.Registry
	recorder   *shortener.Recorder
	aggregator *shortener.Aggregator
	baseURL    string

	publishCreated messaging.Publish[analytics.LinkCreatedEvent]
	publishClicked messaging.Publish[analytics.LinkClickedEvent]
	publishDeleted messaging.Publish[analytics.LinkDeletedEvent]

	logger *zap.Logger
}

// NewLinkHandler creates the handler with its collaborators injected.
func NewLinkHandler(
	registry *shortener.Registry,
	recorder *shortener.Recorder,
	aggregator *shortener.Aggregator,
	baseURL string,
	publishCreated messaging.Publish[analytics.LinkCreatedEvent],
	publishClicked messaging.Publish[analytics.LinkClickedEvent],
	publishDeleted messaging.Publish[analytics.LinkDeletedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		registry:       registry,
		recorder:       recorder,
		aggregator:     aggregator,
		baseURL:        baseURL,
		publishCreated: publishCreated,
		publishClicked: publishClicked,
		publishDeleted: publishDeleted,
		logger:         logger,
	}
}

// CreateLink registers a new short link for the authenticated user.
func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	link, err := h.registry.Create(ctx, shortener.CreateParams{
		UserID:           userID,
		OriginalURL:      req.Body.OriginalURL,
		Alias:            req.Body.Alias,
		Title:            req.Body.Title,
		Description:      req.Body.Description,
		Tags:             req.Body.Tags,
		ExpirationType:   shortener.ExpirationType(req.Body.ExpirationType),
		ExpirationDate:   req.Body.ExpirationDate,
		ExpirationClicks: req.Body.ExpirationClicks,
	})
	if err != nil {
		return nil, h.mapError(err)
	}

	event := &analytics.LinkCreatedEvent{
		LinkID:      link.ID,
		UserID:      link.UserID,
		Code:        link.Code,
		Alias:       link.Alias,
		OriginalURL: link.OriginalURL,
		CreatedAt:   link.CreatedAt,
	}
	if err = h.publishCreated(event); err != nil {
		h.logger.Error("failed to publish link created event",
			zap.String("code", link.Code),
			zap.Error(err),
		)
	}

	resp := &CreateLinkResponse{Status: http.StatusCreated}
	resp.Body.Link = h.toPayload(link)

	return resp, nil
}

// Redirect resolves a code or alias, records the click, and sends the
// client to the original URL. Disabled and expired links answer 410 with
// distinct messages; unknown codes answer 404.
func (h *LinkHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	link, err := h.registry.Resolve(ctx, req.Code)
	if err != nil {
		return nil, h.mapError(err)
	}

	meta := RequestMetaFromContext(ctx)

	updated, click, err := h.recorder.Record(ctx, link.ID, shortener.ClientInfo{
		IPAddress: meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	})
	if err != nil {
		return nil, h.mapClickError(err)
	}

	event := &analytics.LinkClickedEvent{
		LinkID:    updated.ID,
		UserID:    updated.UserID,
		Code:      updated.Code,
		Country:   click.Country,
		City:      click.City,
		Device:    string(click.Device),
		Browser:   click.Browser,
		OS:        click.OS,
		Referrer:  click.Referrer,
		ClickedAt: click.CreatedAt,
	}
	if err = h.publishClicked(event); err != nil {
		h.logger.Error("failed to publish link clicked event",
			zap.String("code", updated.Code),
			zap.Error(err),
		)
	}

	resp := &RedirectResponse{Status: http.StatusMovedPermanently}
	resp.Headers.Location = updated.OriginalURL

	return resp, nil
}

// ListLinks pages through the caller's links, newest first.
func (h *LinkHandler) ListLinks(ctx context.Context, req *ListLinksRequest) (*ListLinksResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	result, err := h.registry.List(ctx, shortener.ListQuery{
		UserID:   userID,
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
		Tags:     req.Tags,
	})
	if err != nil {
		return nil, h.mapError(err)
	}

	resp := &ListLinksResponse{}
	resp.Body.Items = make([]LinkPayload, 0, len(result.Items))

	for _, link := range result.Items {
		resp.Body.Items = append(resp.Body.Items, h.toPayload(link))
	}

	resp.Body.Total = result.Total
	resp.Body.Page = result.Page
	resp.Body.PageCount = result.PageCount

	return resp, nil
}

// GetLink returns one link owned by the caller.
func (h *LinkHandler) GetLink(ctx context.Context, req *GetLinkRequest) (*GetLinkResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	link, err := h.registry.Get(ctx, userID, req.ID)
	if err != nil {
		return nil, h.mapError(err)
	}

	resp := &GetLinkResponse{}
	resp.Body.Link = h.toPayload(link)

	return resp, nil
}

// UpdateLink patches the owner-mutable fields of a link.
func (h *LinkHandler) UpdateLink(ctx context.Context, req *UpdateLinkRequest) (*UpdateLinkResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	patch := shortener.UpdatePatch{
		Title:            req.Body.Title,
		Description:      req.Body.Description,
		IsActive:         req.Body.IsActive,
		Tags:             req.Body.Tags,
		ExpirationDate:   req.Body.ExpirationDate,
		ExpirationClicks: req.Body.ExpirationClicks,
	}

	if req.Body.ExpirationType != nil {
		t := shortener.ExpirationType(*req.Body.ExpirationType)
		patch.ExpirationType = &t
	}

	link, err := h.registry.Update(ctx, userID, req.ID, patch)
	if err != nil {
		return nil, h.mapError(err)
	}

	resp := &UpdateLinkResponse{}
	resp.Body.Link = h.toPayload(link)

	return resp, nil
}

// DeleteLink removes a link and cascades its click history.
func (h *LinkHandler) DeleteLink(ctx context.Context, req *DeleteLinkRequest) (*DeleteLinkResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	link, err := h.registry.Get(ctx, userID, req.ID)
	if err != nil {
		return nil, h.mapError(err)
	}

	if err = h.registry.Delete(ctx, userID, req.ID); err != nil {
		return nil, h.mapError(err)
	}

	event := &analytics.LinkDeletedEvent{
		LinkID:    link.ID,
		UserID:    link.UserID,
		Code:      link.Code,
		DeletedAt: time.Now().UTC(),
	}
	if err = h.publishDeleted(event); err != nil {
		h.logger.Error("failed to publish link deleted event",
			zap.String("code", link.Code),
			zap.Error(err),
		)
	}

	resp := &DeleteLinkResponse{}
	resp.Body.Message = "short link deleted"

	return resp, nil
}

func (h *LinkHandler) toPayload(link *shortener.ShortLink) LinkPayload {
	return LinkPayload{
		ID:               link.ID,
		Code:             link.Code,
		Alias:            link.Alias,
		ShortURL:         fmt.Sprintf("%s/%s", h.baseURL, link.Code),
		OriginalURL:      link.OriginalURL,
		Title:            link.Title,
		Description:      link.Description,
		Tags:             link.Tags,
		TotalClicks:      link.TotalClicks,
		IsActive:         link.IsActive,
		ExpirationType:   string(link.ExpirationType),
		ExpirationDate:   link.ExpirationDate,
		ExpirationClicks: link.ExpirationClicks,
		ClicksRemaining:  link.ClicksRemaining,
		LastAccessedAt:   link.LastAccessedAt,
		CreatedAt:        link.CreatedAt,
	}
}

// mapError translates domain errors into HTTP error responses, keeping
// the taxonomy distinct: validation 400, conflict 409, not found 404,
// allocation exhaustion 500.
func (h *LinkHandler) mapError(err error) error {
	switch {
	case errors.Is(err, shortener.ErrNotFound):
		return huma.Error404NotFound("short link not found")
	case shortener.IsConflict(err):
		return huma.Error409Conflict(err.Error())
	case shortener.IsValidation(err):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, shortener.ErrCodeSpaceExhausted):
		h.logger.Error("short code allocation exhausted", zap.Error(err))

		return huma.Error500InternalServerError("unable to allocate a short code, please retry")
	default:
		h.logger.Error("unexpected error", zap.Error(err))

		return huma.Error500InternalServerError("internal error")
	}
}

// mapClickError is mapError plus the resolution-specific conditions:
// disabled and expired are both "gone" but with distinct messages.
func (h *LinkHandler) mapClickError(err error) error {
	switch {
	case errors.Is(err, shortener.ErrLinkDisabled):
		return huma.Error410Gone("this link has been disabled")
	case shortener.IsValidation(err):
		return huma.Error410Gone(err.Error())
	default:
		return h.mapError(err)
	}
}

func requireUser(ctx context.Context) (string, error) {
	userID := UserIDFromContext(ctx)
	if userID == "" {
		return "", huma.Error401Unauthorized("authentication required")
	}

	return userID, nil
}
