package shortener

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/snaplink-io/snaplink/internal/geo"
	"go.uber.org/zap"
)

// Recorder appends click events and keeps the link and owner counters in
// step. This is the write-heavy hot path: the per-link counter update is
// a single atomic storage operation, and the owner's aggregate counter is
// best-effort.
type Recorder struct {
	repo    Repository
	locator geo.Locator
	logger  *zap.Logger
}

// NewRecorder creates a click recorder.
func NewRecorder(repo Repository, locator geo.Locator, logger *zap.Logger) *Recorder {
	return &Recorder{
		repo:    repo,
		locator: locator,
		logger:  logger,
	}
}

// Record registers one click against the link. It returns the updated
// link and the stored event, so callers fanning the click out carry the
// same classified attributes the event log does.
//
// Order matters and is observable: a disabled or expired link is rejected
// before any event is written, so a rejected click leaves no trace and
// changes no counter.
func (r *Recorder) Record(ctx context.Context, linkID string, client ClientInfo) (*ShortLink, *ClickEvent, error) {
	link, err := r.repo.LinkByID(ctx, linkID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()

	switch Resolvable(link, now) {
	case StateDisabled:
		return nil, nil, ErrLinkDisabled
	case StateExpiredDate:
		return nil, nil, NewValidationError("link has expired")
	case StateExpiredClicks:
		return nil, nil, NewValidationError("link has reached its click limit")
	case StateResolvable:
	}

	event := r.buildEvent(ctx, link, client, now)
	if err = r.repo.AppendClick(ctx, event); err != nil {
		return nil, nil, err
	}

	updated, err := r.repo.ApplyClick(ctx, link.ID, now)
	if err != nil {
		return nil, nil, err
	}

	if err = r.repo.AdjustUserClicks(ctx, link.UserID, 1); err != nil {
		r.logger.Error("failed to increment user click counter",
			zap.String("user_id", link.UserID),
			zap.String("link_id", link.ID),
			zap.Error(err),
		)
	}

	return updated, event, nil
}

func (r *Recorder) buildEvent(ctx context.Context, link *ShortLink, client ClientInfo, now time.Time) *ClickEvent {
	country, city := unknownLabel, unknownLabel

	if client.IPAddress != "" {
		if loc, ok := r.locator.Lookup(ctx, client.IPAddress); ok {
			if loc.Country != "" {
				country = loc.Country
			}

			if loc.City != "" {
				city = loc.City
			}
		}
	}

	return &ClickEvent{
		ID:        uuid.NewString(),
		LinkID:    link.ID,
		UserID:    link.UserID,
		IPAddress: client.IPAddress,
		Country:   country,
		City:      city,
		Device:    ClassifyDevice(client.UserAgent),
		Browser:   ClassifyBrowser(client.UserAgent),
		OS:        ClassifyOS(client.UserAgent),
		Referrer:  client.Referrer,
		UserAgent: client.UserAgent,
		CreatedAt: now,
	}
}
