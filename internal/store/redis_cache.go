package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/snaplink-io/snaplink/internal/shortener"
)

// CachedRepository decorates a Repository with Redis caching on the
// resolve path (LinkByKey), which is the read-heavy hot spot. All other
// calls pass through; mutations invalidate the cached entry so expired
// or disabled links never serve from stale cache state.
type CachedRepository struct {
	shortener.Repository

	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewCachedRepository creates a Redis-cached repository decorator.
func NewCachedRepository(repo shortener.Repository, client *redis.Client, ttl time.Duration) *CachedRepository {
	return &CachedRepository{
		Repository: repo,
		client:     client,
		prefix:     "link:",
		ttl:        ttl,
	}
}

func (c *CachedRepository) LinkByKey(ctx context.Context, key string) (*shortener.ShortLink, error) {
	if link, err := c.getCached(ctx, key); err == nil {
		return link, nil
	}

	link, err := c.Repository.LinkByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	c.cache(ctx, link)

	return link, nil
}

func (c *CachedRepository) CreateLink(ctx context.Context, link *shortener.ShortLink) error {
	if err := c.Repository.CreateLink(ctx, link); err != nil {
		return err
	}

	// Write-through so the first resolve hits cache.
	c.cache(ctx, link)

	return nil
}

func (c *CachedRepository) UpdateLink(ctx context.Context, link *shortener.ShortLink) error {
	if err := c.Repository.UpdateLink(ctx, link); err != nil {
		return err
	}

	c.invalidate(ctx, link.LookupKey())

	return nil
}

func (c *CachedRepository) DeleteLink(ctx context.Context, id string) error {
	link, err := c.Repository.LinkByID(ctx, id)
	if err != nil {
		return err
	}

	if err = c.Repository.DeleteLink(ctx, id); err != nil {
		return err
	}

	c.invalidate(ctx, link.LookupKey())

	return nil
}

func (c *CachedRepository) ApplyClick(ctx context.Context, linkID string, now time.Time) (*shortener.ShortLink, error) {
	link, err := c.Repository.ApplyClick(ctx, linkID, now)
	if err != nil {
		return nil, err
	}

	// Counters changed; drop the entry rather than re-serializing on the
	// hot path.
	c.invalidate(ctx, link.LookupKey())

	return link, nil
}

func (c *CachedRepository) getCached(ctx context.Context, key string) (*shortener.ShortLink, error) {
	payload, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		return nil, err
	}

	var link shortener.ShortLink
	if err = json.Unmarshal(payload, &link); err != nil {
		return nil, err
	}

	return &link, nil
}

func (c *CachedRepository) cache(ctx context.Context, link *shortener.ShortLink) {
	payload, err := json.Marshal(link)
	if err != nil {
		return
	}

	_ = c.client.Set(ctx, c.prefix+link.LookupKey(), payload, c.ttl).Err()
}

func (c *CachedRepository) invalidate(ctx context.Context, key string) {
	_ = c.client.Del(ctx, c.prefix+key).Err()
}

// Compile-time check.
var _ shortener.Repository = (*CachedRepository)(nil)
