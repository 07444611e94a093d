// Package store provides sinks for consumed link events.
package store

import (
	"context"

	"github.com/snaplink-io/snaplink/internal/analytics"
	"go.uber.org/zap"
)

// Audit writes every consumed event to the structured log. It is the
// default sink for the consumer binary; heavier sinks (warehouse
// loaders, etc.) implement analytics.Sink the same way.
type Audit struct {
	logger *zap.Logger
}

// NewAudit creates a logging sink.
func NewAudit(logger *zap.Logger) *Audit {
	return &Audit{logger: logger}
}

func (a *Audit) LinkCreated(_ context.Context, event *analytics.LinkCreatedEvent) error {
	a.logger.Info("link created",
		zap.String("link_id", event.LinkID),
		zap.String("code", event.Code),
		zap.String("user_id", event.UserID),
		zap.String("original_url", event.OriginalURL),
	)

	return nil
}

func (a *Audit) LinkClicked(_ context.Context, event *analytics.LinkClickedEvent) error {
	a.logger.Info("link clicked",
		zap.String("link_id", event.LinkID),
		zap.String("code", event.Code),
		zap.String("country", event.Country),
		zap.String("device", event.Device),
		zap.String("browser", event.Browser),
	)

	return nil
}

func (a *Audit) LinkDeleted(_ context.Context, event *analytics.LinkDeletedEvent) error {
	a.logger.Info("link deleted",
		zap.String("link_id", event.LinkID),
		zap.String("code", event.Code),
		zap.String("user_id", event.UserID),
	)

	return nil
}

// Compile-time check.
var _ analytics.Sink = (*Audit)(nil)
