package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/snaplink-io/snaplink/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
// It mirrors the guarantees the postgres store gets from SQL: the
// lookup-key namespace is checked under the same lock that inserts, and
// click counter updates are read-modify-write under lock.
type MemoryStore struct {
	mu     sync.RWMutex
	links  map[string]*shortener.ShortLink // id -> link
	keys   map[string]string               // lookup key -> link id
	clicks map[string][]*shortener.ClickEvent
	users  map[string]*shortener.User
}

// NewMemoryStore creates an empty in-memory repository.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links:  make(map[string]*shortener.ShortLink),
		keys:   make(map[string]string),
		clicks: make(map[string][]*shortener.ClickEvent),
		users:  make(map[string]*shortener.User),
	}
}

func (m *MemoryStore) CreateLink(_ context.Context, link *shortener.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := link.LookupKey()
	if _, taken := m.keys[key]; taken {
		return shortener.ErrDuplicateKey
	}

	m.keys[key] = link.ID
	m.links[link.ID] = cloneLink(link)

	return nil
}

func (m *MemoryStore) LinkByKey(_ context.Context, key string) (*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.keys[key]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return cloneLink(m.links[id]), nil
}

func (m *MemoryStore) LinkByID(_ context.Context, id string) (*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	link, ok := m.links[id]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return cloneLink(link), nil
}

func (m *MemoryStore) KeyExists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, taken := m.keys[key]

	return taken, nil
}

func (m *MemoryStore) LinkByUserAndURL(_ context.Context, userID, normalizedURL string) (*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, link := range m.links {
		if link.UserID == userID && link.OriginalURL == normalizedURL {
			return cloneLink(link), nil
		}
	}

	return nil, shortener.ErrNotFound
}

func (m *MemoryStore) ListLinks(_ context.Context, q shortener.ListQuery) (*shortener.ListResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]*shortener.ShortLink, 0)

	for _, link := range m.links {
		if link.UserID != q.UserID {
			continue
		}

		if !matchesSearch(link, q.Search) || !matchesTags(link, q.Tags) {
			continue
		}

		matched = append(matched, cloneLink(link))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page, pageSize := clampPaging(q.Page, q.PageSize)

	total := int64(len(matched))
	pageCount := int((total + int64(pageSize) - 1) / int64(pageSize))

	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}

	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	return &shortener.ListResult{
		Items:     matched[start:end],
		Total:     total,
		Page:      page,
		PageCount: pageCount,
	}, nil
}

func (m *MemoryStore) UpdateLink(_ context.Context, link *shortener.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[link.ID]; !ok {
		return shortener.ErrNotFound
	}

	m.links[link.ID] = cloneLink(link)

	return nil
}

func (m *MemoryStore) DeleteLink(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[id]
	if !ok {
		return shortener.ErrNotFound
	}

	delete(m.keys, link.LookupKey())
	delete(m.links, id)

	return nil
}

func (m *MemoryStore) TopLinks(_ context.Context, userID string, n int) ([]*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	owned := make([]*shortener.ShortLink, 0)

	for _, link := range m.links {
		if link.UserID == userID {
			owned = append(owned, cloneLink(link))
		}
	}

	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].TotalClicks > owned[j].TotalClicks
	})

	if len(owned) > n {
		owned = owned[:n]
	}

	return owned, nil
}

func (m *MemoryStore) CountLinks(_ context.Context, userID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64

	for _, link := range m.links {
		if link.UserID == userID {
			count++
		}
	}

	return count, nil
}

func (m *MemoryStore) ApplyClick(_ context.Context, linkID string, now time.Time) (*shortener.ShortLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[linkID]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	link.TotalClicks++

	if link.ExpirationType == shortener.ExpireOnClicks && link.ClicksRemaining != nil && *link.ClicksRemaining > 0 {
		*link.ClicksRemaining--
	}

	accessed := now
	link.LastAccessedAt = &accessed

	return cloneLink(link), nil
}

func (m *MemoryStore) AppendClick(_ context.Context, event *shortener.ClickEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *event
	m.clicks[event.LinkID] = append(m.clicks[event.LinkID], &clone)

	return nil
}

func (m *MemoryStore) ClicksByLink(_ context.Context, linkID string) ([]*shortener.ClickEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := m.clicks[linkID]
	out := make([]*shortener.ClickEvent, 0, len(events))

	for _, e := range events {
		clone := *e
		out = append(out, &clone)
	}

	return out, nil
}

func (m *MemoryStore) DeleteClicks(_ context.Context, linkID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.clicks, linkID)

	return nil
}

func (m *MemoryStore) CountClicks(_ context.Context, userID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64

	for _, events := range m.clicks {
		for _, e := range events {
			if e.UserID == userID {
				count++
			}
		}
	}

	return count, nil
}

func (m *MemoryStore) CountClicksSince(_ context.Context, userID string, since time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64

	for _, events := range m.clicks {
		for _, e := range events {
			if e.UserID == userID && !e.CreatedAt.Before(since) {
				count++
			}
		}
	}

	return count, nil
}

func (m *MemoryStore) AdjustUserLinks(_ context.Context, userID string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user := m.userLocked(userID)

	user.TotalLinks += delta
	if user.TotalLinks < 0 {
		user.TotalLinks = 0
	}

	return nil
}

func (m *MemoryStore) AdjustUserClicks(_ context.Context, userID string, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user := m.userLocked(userID)

	user.TotalClicks += delta
	if user.TotalClicks < 0 {
		user.TotalClicks = 0
	}

	return nil
}

func (m *MemoryStore) SetUserCounters(_ context.Context, userID string, links, clicks int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user := m.userLocked(userID)
	user.TotalLinks = links
	user.TotalClicks = clicks

	return nil
}

func (m *MemoryStore) UserByID(_ context.Context, userID string) (*shortener.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[userID]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	clone := *user

	return &clone, nil
}

// userLocked fetches or lazily creates the counter record. Identity is
// owned upstream, so an unseen user id is not an error here.
func (m *MemoryStore) userLocked(userID string) *shortener.User {
	user, ok := m.users[userID]
	if !ok {
		user = &shortener.User{ID: userID, IsActive: true}
		m.users[userID] = user
	}

	return user
}

// clampPaging guards the stores against callers that skip the query
// normalization in the registry: paging math needs page and pageSize ≥ 1.
func clampPaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}

	if pageSize < 1 {
		pageSize = 1
	}

	return page, pageSize
}

func matchesSearch(link *shortener.ShortLink, search string) bool {
	if search == "" {
		return true
	}

	needle := strings.ToLower(search)

	for _, field := range []string{link.OriginalURL, link.Title, link.Code, link.Alias} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}

	return false
}

func matchesTags(link *shortener.ShortLink, tags []string) bool {
	if len(tags) == 0 {
		return true
	}

	for _, want := range tags {
		for _, have := range link.Tags {
			if want == have {
				return true
			}
		}
	}

	return false
}

func cloneLink(link *shortener.ShortLink) *shortener.ShortLink {
	clone := *link

	if link.Tags != nil {
		clone.Tags = append([]string(nil), link.Tags...)
	}

	if link.ExpirationDate != nil {
		d := *link.ExpirationDate
		clone.ExpirationDate = &d
	}

	if link.ExpirationClicks != nil {
		c := *link.ExpirationClicks
		clone.ExpirationClicks = &c
	}

	if link.ClicksRemaining != nil {
		r := *link.ClicksRemaining
		clone.ClicksRemaining = &r
	}

	if link.LastAccessedAt != nil {
		a := *link.LastAccessedAt
		clone.LastAccessedAt = &a
	}

	return &clone
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
