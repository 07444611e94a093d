package analytics

import "context"

// Sink receives link lifecycle events consumed off the stream.
type Sink interface {
	LinkCreated(ctx context.Context, event *LinkCreatedEvent) error
	LinkClicked(ctx context.Context, event *LinkClickedEvent) error
	LinkDeleted(ctx context.Context, event *LinkDeletedEvent) error
}
