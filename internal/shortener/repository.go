package shortener

import (
	"context"
	"time"
)

// ListQuery filters and paginates a user's links.
type ListQuery struct {
	UserID   string
	Page     int // 1-based
	PageSize int
	Search   string   // case-insensitive substring over url/title/code/alias
	Tags     []string // match links sharing at least one tag
}

// ListResult is one page of links, newest first.
type ListResult struct {
	Items     []*ShortLink
	Total     int64
	Page      int
	PageCount int
}

// LinkStore persists short links. The lookup key (lowercased code or
// alias) is unique across all links; Create must fail with
// ErrDuplicateKey when the key is taken. That constraint is the sole
// correctness mechanism for concurrent allocations.
type LinkStore interface {
	CreateLink(ctx context.Context, link *ShortLink) error
	// LinkByKey looks a link up by its lowercased code or alias.
	LinkByKey(ctx context.Context, key string) (*ShortLink, error)
	LinkByID(ctx context.Context, id string) (*ShortLink, error)
	// KeyExists reports whether any link occupies the lookup key.
	KeyExists(ctx context.Context, key string) (bool, error)
	// LinkByUserAndURL finds the user's link to a normalized URL,
	// regardless of its active state. ErrNotFound when absent.
	LinkByUserAndURL(ctx context.Context, userID, normalizedURL string) (*ShortLink, error)
	ListLinks(ctx context.Context, q ListQuery) (*ListResult, error)
	// UpdateLink persists the mutable fields of the link.
	UpdateLink(ctx context.Context, link *ShortLink) error
	DeleteLink(ctx context.Context, id string) error
	// TopLinks returns up to n of the user's links by totalClicks descending.
	TopLinks(ctx context.Context, userID string, n int) ([]*ShortLink, error)
	CountLinks(ctx context.Context, userID string) (int64, error)

	// ApplyClick atomically increments the link's totalClicks, decrements
	// clicksRemaining (floored at zero) when the link expires on clicks,
	// and sets lastAccessedAt. Returns the updated link. Implementations
	// must not lose concurrent increments.
	ApplyClick(ctx context.Context, linkID string, now time.Time) (*ShortLink, error)
}

// ClickStore persists the append-only click log.
type ClickStore interface {
	AppendClick(ctx context.Context, event *ClickEvent) error
	ClicksByLink(ctx context.Context, linkID string) ([]*ClickEvent, error)
	// DeleteClicks removes all events for a link (cascade on delete).
	DeleteClicks(ctx context.Context, linkID string) error
	CountClicks(ctx context.Context, userID string) (int64, error)
	CountClicksSince(ctx context.Context, userID string, since time.Time) (int64, error)
}

// UserStore maintains the denormalized per-user aggregate counters.
// Adjustments must be atomic increments and floor at zero.
type UserStore interface {
	AdjustUserLinks(ctx context.Context, userID string, delta int64) error
	AdjustUserClicks(ctx context.Context, userID string, delta int64) error
	// SetUserCounters overwrites both counters; used by reconciliation.
	SetUserCounters(ctx context.Context, userID string, links, clicks int64) error
	UserByID(ctx context.Context, userID string) (*User, error)
}

// Repository is the full storage surface the core depends on.
type Repository interface {
	LinkStore
	ClickStore
	UserStore
}
