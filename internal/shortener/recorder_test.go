package shortener_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/snaplink-io/snaplink/internal/geo"
	"github.com/snaplink-io/snaplink/internal/shortener"
	"github.com/snaplink-io/snaplink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// brokenClickCounterRepo fails the owner click counter adjustment.
type brokenClickCounterRepo struct {
	shortener.Repository
}

func (r *brokenClickCounterRepo) AdjustUserClicks(_ context.Context, _ string, _ int64) error {
	return errors.New("counter store unavailable")
}

func seedLink(t *testing.T, repo shortener.Repository, link *shortener.ShortLink) *shortener.ShortLink {
	t.Helper()

	if link.ID == "" {
		link.ID = "link-1"
	}

	if link.Code == "" {
		link.Code = "abc123"
	}

	if link.UserID == "" {
		link.UserID = "user-1"
	}

	if link.OriginalURL == "" {
		link.OriginalURL = "https://example.com/"
	}

	require.NoError(t, repo.CreateLink(context.Background(), link))

	return link
}

func newRecorder(repo shortener.Repository, locator geo.Locator) *shortener.Recorder {
	if locator == nil {
		locator = geo.NewNoopLocator()
	}

	return shortener.NewRecorder(repo, locator, zap.NewNop())
}

func TestRecorder_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("records a click and updates the link", func(t *testing.T) {
		repo := store.NewMemoryStore()
		link := seedLink(t, repo, &shortener.ShortLink{IsActive: true, ExpirationType: shortener.ExpireNever})
		recorder := newRecorder(repo, nil)

		updated, click, err := recorder.Record(ctx, link.ID, shortener.ClientInfo{
			IPAddress: "203.0.113.7",
			UserAgent: uaChromeWindows,
			Referrer:  "https://news.example.com",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), updated.TotalClicks)
		require.NotNil(t, updated.LastAccessedAt)

		events, err := repo.ClicksByLink(ctx, link.ID)
		require.NoError(t, err)
		require.Len(t, events, 1)

		event := events[0]
		require.NotNil(t, click)
		assert.Equal(t, event.ID, click.ID, "the returned event is the stored one")
		assert.Equal(t, link.ID, event.LinkID)
		assert.Equal(t, "user-1", event.UserID)
		assert.Equal(t, "203.0.113.7", event.IPAddress)
		assert.Equal(t, shortener.DeviceDesktop, event.Device)
		assert.Equal(t, "Chrome", event.Browser)
		assert.Equal(t, "Windows", event.OS)
		assert.Equal(t, "https://news.example.com", event.Referrer)
	})

	t.Run("defaults location to unknown without a locator hit", func(t *testing.T) {
		repo := store.NewMemoryStore()
		link := seedLink(t, repo, &shortener.ShortLink{IsActive: true})
		recorder := newRecorder(repo, nil)

		_, _, err := recorder.Record(ctx, link.ID, shortener.ClientInfo{IPAddress: "203.0.113.7"})
		require.NoError(t, err)

		events, err := repo.ClicksByLink(ctx, link.ID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "Unknown", events[0].Country)
		assert.Equal(t, "Unknown", events[0].City)
	})

	t.Run("uses the locator when it resolves the ip", func(t *testing.T) {
		repo := store.NewMemoryStore()
		link := seedLink(t, repo, &shortener.ShortLink{IsActive: true})
		locator := geo.NewStaticLocator(map[string]geo.Location{
			"203.0.113.7": {Country: "DE", City: "Berlin"},
		})
		recorder := newRecorder(repo, locator)

		_, _, err := recorder.Record(ctx, link.ID, shortener.ClientInfo{IPAddress: "203.0.113.7"})
		require.NoError(t, err)

		events, err := repo.ClicksByLink(ctx, link.ID)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "DE", events[0].Country)
		assert.Equal(t, "Berlin", events[0].City)
	})

	t.Run("counts down the click budget and then rejects", func(t *testing.T) {
		repo := store.NewMemoryStore()
		limit := int64(3)
		remaining := limit
		link := seedLink(t, repo, &shortener.ShortLink{
			IsActive:         true,
			ExpirationType:   shortener.ExpireOnClicks,
			ExpirationClicks: &limit,
			ClicksRemaining:  &remaining,
		})
		recorder := newRecorder(repo, nil)

		for want := int64(2); want >= 0; want-- {
			updated, _, err := recorder.Record(ctx, link.ID, shortener.ClientInfo{})

			require.NoError(t, err)
			require.NotNil(t, updated.ClicksRemaining)
			assert.Equal(t, want, *updated.ClicksRemaining)
		}

		_, _, err := recorder.Record(ctx, link.ID, shortener.ClientInfo{})

		require.Error(t, err)
		assert.True(t, shortener.IsValidation(err))
		assert.EqualError(t, err, "link has reached its click limit")

		events, err := repo.ClicksByLink(ctx, link.ID)
		require.NoError(t, err)
		assert.Len(t, events, 3, "the rejected click must leave no event")

		stored, err := repo.LinkByID(ctx, link.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stored.TotalClicks)
	})

	t.Run("rejects an expired link without side effects", func(t *testing.T) {
		repo := store.NewMemoryStore()
		past := time.Now().UTC().Add(-time.Hour)
		link := seedLink(t, repo, &shortener.ShortLink{
			IsActive:       true,
			ExpirationType: shortener.ExpireOnDate,
			ExpirationDate: &past,
		})
		recorder := newRecorder(repo, nil)

		_, _, err := recorder.Record(ctx, link.ID, shortener.ClientInfo{})

		assert.True(t, shortener.IsValidation(err))
		assert.EqualError(t, err, "link has expired")

		events, repoErr := repo.ClicksByLink(ctx, link.ID)
		require.NoError(t, repoErr)
		assert.Empty(t, events)

		stored, repoErr := repo.LinkByID(ctx, link.ID)
		require.NoError(t, repoErr)
		assert.Equal(t, int64(0), stored.TotalClicks)
		assert.Nil(t, stored.LastAccessedAt)

		user, repoErr := repo.UserByID(ctx, "user-1")
		if repoErr == nil {
			assert.Equal(t, int64(0), user.TotalClicks)
		}
	})

	t.Run("rejects a disabled link", func(t *testing.T) {
		repo := store.NewMemoryStore()
		link := seedLink(t, repo, &shortener.ShortLink{IsActive: false})
		recorder := newRecorder(repo, nil)

		_, _, err := recorder.Record(ctx, link.ID, shortener.ClientInfo{})

		assert.ErrorIs(t, err, shortener.ErrLinkDisabled)
	})

	t.Run("unknown link is not found", func(t *testing.T) {
		recorder := newRecorder(store.NewMemoryStore(), nil)

		_, _, err := recorder.Record(ctx, "missing", shortener.ClientInfo{})

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("increments the owner click counter", func(t *testing.T) {
		repo := store.NewMemoryStore()
		link := seedLink(t, repo, &shortener.ShortLink{IsActive: true})
		recorder := newRecorder(repo, nil)

		_, _, err := recorder.Record(ctx, link.ID, shortener.ClientInfo{})
		require.NoError(t, err)

		user, err := repo.UserByID(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.TotalClicks)
	})

	t.Run("counter failure does not fail the click", func(t *testing.T) {
		repo := store.NewMemoryStore()
		link := seedLink(t, repo, &shortener.ShortLink{IsActive: true})
		recorder := newRecorder(&brokenClickCounterRepo{Repository: repo}, nil)

		updated, _, err := recorder.Record(ctx, link.ID, shortener.ClientInfo{})

		require.NoError(t, err)
		assert.Equal(t, int64(1), updated.TotalClicks)
	})
}
