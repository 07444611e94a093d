// Package ratelimit implements sliding-window request limiting with
// per-endpoint configuration carried in huma operation metadata.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// MetadataKey is the huma operation metadata key holding an EndpointConfig.
const MetadataKey = "rateLimit"

// Store persists request counts for the sliding window.
type Store interface {
	// Record registers a request under key and returns how many requests
	// fall inside the current window, pruning expired entries.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}

// LimitConfig is one window/maximum pair.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

// EndpointConfig attaches rate limit settings to a huma operation.
type EndpointConfig struct {
	// Limits are checked in order; the first exceeded limit rejects the
	// request. Empty means the limiter's defaults apply.
	Limits []LimitConfig

	// Disabled skips rate limiting for the endpoint entirely.
	Disabled bool
}

// GetEndpointConfig extracts the EndpointConfig from operation metadata.
func GetEndpointConfig(ctx huma.Context) *EndpointConfig {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}

// Exceeded describes which limit rejected a request.
type Exceeded struct {
	Config LimitConfig
	Count  int64
}

func (e *Exceeded) Error() string {
	return fmt.Sprintf("rate limit exceeded: %d/%d requests in %s",
		e.Count, e.Config.Max, e.Config.Window)
}

// Limiter checks a client key against a set of sliding-window limits.
type Limiter struct {
	store    Store
	defaults []LimitConfig
}

// NewLimiter creates a limiter with the given default limits.
func NewLimiter(store Store, defaults []LimitConfig) *Limiter {
	return &Limiter{
		store:    store,
		defaults: defaults,
	}
}

// Allow checks the client key against the provided limits, falling back
// to the defaults when limits is empty. Each (key, window) pair tracks
// its own counter.
func (l *Limiter) Allow(ctx context.Context, clientKey string, limits []LimitConfig) (bool, *Exceeded, error) {
	if len(limits) == 0 {
		limits = l.defaults
	}

	for _, limit := range limits {
		key := fmt.Sprintf("%s:%d", clientKey, limit.Window.Milliseconds())

		count, err := l.store.Record(ctx, key, limit.Window)
		if err != nil {
			return false, nil, err
		}

		if count > limit.Max {
			return false, &Exceeded{Config: limit, Count: count}, nil
		}
	}

	return true, nil, nil
}
