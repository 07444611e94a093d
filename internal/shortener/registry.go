package shortener

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxCodeAttempts bounds the generate-and-check loop for random codes.
const maxCodeAttempts = 10

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// CreateParams is the input to Registry.Create.
type CreateParams struct {
	UserID           string
	OriginalURL      string
	Alias            string // optional custom alias, raw
	Title            string
	Description      string
	Tags             []string
	ExpirationType   ExpirationType
	ExpirationDate   *time.Time
	ExpirationClicks *int64
}

// UpdatePatch carries the owner-mutable fields. Nil means "leave as is".
// Code, alias and destination URL are immutable after creation.
type UpdatePatch struct {
	Title            *string
	Description      *string
	IsActive         *bool
	Tags             *[]string
	ExpirationType   *ExpirationType
	ExpirationDate   *time.Time
	ExpirationClicks *int64
}

// Registry owns the code/alias namespace and the link lifecycle.
type Registry struct {
	repo         Repository
	generateCode CodeGenerator
	logger       *zap.Logger
}

// NewRegistry creates a link registry.
func NewRegistry(repo Repository, generator CodeGenerator, logger *zap.Logger) *Registry {
	return &Registry{
		repo:         repo,
		generateCode: generator,
		logger:       logger,
	}
}

// Create registers a new short link.
//
// The alias/code pre-checks are an optimistic fast path; the store's
// unique constraint on the lookup key is what actually decides races.
// The owner's totalLinks counter is incremented best-effort after the
// record exists: a failure there is logged and produces bounded drift,
// never a failed creation.
func (r *Registry) Create(ctx context.Context, p CreateParams) (*ShortLink, error) {
	normalizedURL, err := NormalizeURL(p.OriginalURL)
	if err != nil {
		return nil, err
	}

	alias, err := NormalizeAlias(p.Alias)
	if err != nil {
		return nil, err
	}

	if err = validateExpiration(p); err != nil {
		return nil, err
	}

	// One link per user per destination. Disabled links still count.
	_, err = r.repo.LinkByUserAndURL(ctx, p.UserID, normalizedURL)
	if err == nil {
		return nil, NewConflictError("you have already created a short link for this URL")
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	link := &ShortLink{
		ID:               uuid.NewString(),
		UserID:           p.UserID,
		OriginalURL:      normalizedURL,
		Alias:            alias,
		Title:            p.Title,
		Description:      p.Description,
		Tags:             p.Tags,
		IsActive:         true,
		ExpirationType:   expirationOrDefault(p.ExpirationType),
		ExpirationDate:   p.ExpirationDate,
		ExpirationClicks: p.ExpirationClicks,
		CreatedAt:        time.Now().UTC(),
	}

	if link.ExpirationType == ExpireOnClicks && p.ExpirationClicks != nil {
		remaining := *p.ExpirationClicks
		link.ClicksRemaining = &remaining
	}

	if alias != "" {
		if err = r.createWithAlias(ctx, link, alias); err != nil {
			return nil, err
		}
	} else {
		if err = r.createWithGeneratedCode(ctx, link); err != nil {
			return nil, err
		}
	}

	if err = r.repo.AdjustUserLinks(ctx, link.UserID, 1); err != nil {
		r.logger.Error("failed to increment user link counter",
			zap.String("user_id", link.UserID),
			zap.String("link_id", link.ID),
			zap.Error(err),
		)
	}

	return link, nil
}

func (r *Registry) createWithAlias(ctx context.Context, link *ShortLink, alias string) error {
	taken, err := r.repo.KeyExists(ctx, alias)
	if err != nil {
		return err
	}

	if taken {
		return NewConflictError("custom alias already taken")
	}

	link.Code = alias

	err = r.repo.CreateLink(ctx, link)
	if errors.Is(err, ErrDuplicateKey) {
		// Lost the race against a concurrent creation of the same key.
		return NewConflictError("custom alias already taken")
	}

	return err
}

func (r *Registry) createWithGeneratedCode(ctx context.Context, link *ShortLink) error {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := strings.ToLower(r.generateCode())

		taken, err := r.repo.KeyExists(ctx, code)
		if err != nil {
			return err
		}

		if taken {
			continue
		}

		link.Code = code

		err = r.repo.CreateLink(ctx, link)
		if errors.Is(err, ErrDuplicateKey) {
			// Another creation claimed the code between the check and the
			// write; the attempt is spent, try a fresh code.
			continue
		}

		return err
	}

	return ErrCodeSpaceExhausted
}

// Resolve looks a link up by code or alias, case-insensitively. It does
// not check the active flag or expiration; that is the recorder's job.
func (r *Registry) Resolve(ctx context.Context, identifier string) (*ShortLink, error) {
	key := strings.ToLower(strings.TrimSpace(identifier))
	if key == "" {
		return nil, ErrNotFound
	}

	return r.repo.LinkByKey(ctx, key)
}

// Get returns the link if it exists and belongs to the user.
func (r *Registry) Get(ctx context.Context, userID, linkID string) (*ShortLink, error) {
	link, err := r.repo.LinkByID(ctx, linkID)
	if err != nil {
		return nil, err
	}

	if link.UserID != userID {
		return nil, ErrNotFound
	}

	return link, nil
}

// List returns one page of the user's links, newest first.
func (r *Registry) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}

	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}

	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}

	return r.repo.ListLinks(ctx, q)
}

// Update applies the owner-mutable fields of the patch.
func (r *Registry) Update(ctx context.Context, userID, linkID string, patch UpdatePatch) (*ShortLink, error) {
	link, err := r.Get(ctx, userID, linkID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		link.Title = *patch.Title
	}

	if patch.Description != nil {
		link.Description = *patch.Description
	}

	if patch.IsActive != nil {
		link.IsActive = *patch.IsActive
	}

	if patch.Tags != nil {
		link.Tags = *patch.Tags
	}

	if patch.ExpirationType != nil {
		t := expirationOrDefault(*patch.ExpirationType)
		if t != ExpireNever && t != ExpireOnDate && t != ExpireOnClicks {
			return nil, NewValidationError("invalid expiration type %q", t)
		}

		link.ExpirationType = t
	}

	if patch.ExpirationDate != nil {
		link.ExpirationDate = patch.ExpirationDate
	}

	if patch.ExpirationClicks != nil {
		clicks := *patch.ExpirationClicks
		link.ExpirationClicks = &clicks

		// A fresh click budget restarts the countdown.
		remaining := clicks
		link.ClicksRemaining = &remaining
	}

	if err = r.repo.UpdateLink(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}

// Delete removes the link and its click events, then decrements the
// owner's link counter (floored at zero by the store).
func (r *Registry) Delete(ctx context.Context, userID, linkID string) error {
	link, err := r.Get(ctx, userID, linkID)
	if err != nil {
		return err
	}

	if err = r.repo.DeleteLink(ctx, link.ID); err != nil {
		return err
	}

	if err = r.repo.DeleteClicks(ctx, link.ID); err != nil {
		r.logger.Error("failed to cascade click deletion",
			zap.String("link_id", link.ID),
			zap.Error(err),
		)
	}

	if err = r.repo.AdjustUserLinks(ctx, userID, -1); err != nil {
		r.logger.Error("failed to decrement user link counter",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	return nil
}

// ReconcileUser recomputes the user's aggregate counters from the
// authoritative link and click sets. This is the explicit repair
// operation for the accepted best-effort counter drift.
func (r *Registry) ReconcileUser(ctx context.Context, userID string) (links, clicks int64, err error) {
	links, err = r.repo.CountLinks(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	clicks, err = r.repo.CountClicks(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	if err = r.repo.SetUserCounters(ctx, userID, links, clicks); err != nil {
		return 0, 0, err
	}

	return links, clicks, nil
}

func validateExpiration(p CreateParams) error {
	switch expirationOrDefault(p.ExpirationType) {
	case ExpireOnDate:
		if p.ExpirationDate == nil {
			return NewValidationError("expiration date is required for date expiration")
		}
	case ExpireOnClicks:
		if p.ExpirationClicks == nil || *p.ExpirationClicks <= 0 {
			return NewValidationError("a positive click limit is required for click expiration")
		}
	case ExpireNever:
	default:
		return NewValidationError("invalid expiration type %q", p.ExpirationType)
	}

	return nil
}

func expirationOrDefault(t ExpirationType) ExpirationType {
	if t == "" {
		return ExpireNever
	}

	return t
}
