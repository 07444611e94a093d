package shortener_test

import (
	"testing"
	"time"

	"github.com/snaplink-io/snaplink/internal/shortener"
	"github.com/stretchr/testify/assert"
)

func TestResolvable(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	t.Run("active link without expiration resolves", func(t *testing.T) {
		link := &shortener.ShortLink{IsActive: true, ExpirationType: shortener.ExpireNever}

		assert.Equal(t, shortener.StateResolvable, shortener.Resolvable(link, now))
		assert.True(t, shortener.IsResolvable(link, now))
	})

	t.Run("disabled link reports disabled", func(t *testing.T) {
		link := &shortener.ShortLink{IsActive: false}

		assert.Equal(t, shortener.StateDisabled, shortener.Resolvable(link, now))
	})

	t.Run("disabled wins over expired", func(t *testing.T) {
		past := now.Add(-time.Hour)
		link := &shortener.ShortLink{
			IsActive:       false,
			ExpirationType: shortener.ExpireOnDate,
			ExpirationDate: &past,
		}

		assert.Equal(t, shortener.StateDisabled, shortener.Resolvable(link, now))
	})

	t.Run("date expiration in the future resolves", func(t *testing.T) {
		future := now.Add(time.Hour)
		link := &shortener.ShortLink{
			IsActive:       true,
			ExpirationType: shortener.ExpireOnDate,
			ExpirationDate: &future,
		}

		assert.Equal(t, shortener.StateResolvable, shortener.Resolvable(link, now))
	})

	t.Run("date expiration in the past expires", func(t *testing.T) {
		past := now.Add(-time.Minute)
		link := &shortener.ShortLink{
			IsActive:       true,
			ExpirationType: shortener.ExpireOnDate,
			ExpirationDate: &past,
		}

		assert.Equal(t, shortener.StateExpiredDate, shortener.Resolvable(link, now))
	})

	t.Run("expiration exactly now expires", func(t *testing.T) {
		at := now
		link := &shortener.ShortLink{
			IsActive:       true,
			ExpirationType: shortener.ExpireOnDate,
			ExpirationDate: &at,
		}

		assert.Equal(t, shortener.StateExpiredDate, shortener.Resolvable(link, now))
	})

	t.Run("remaining clicks resolve", func(t *testing.T) {
		remaining := int64(1)
		link := &shortener.ShortLink{
			IsActive:        true,
			ExpirationType:  shortener.ExpireOnClicks,
			ClicksRemaining: &remaining,
		}

		assert.Equal(t, shortener.StateResolvable, shortener.Resolvable(link, now))
	})

	t.Run("exhausted click budget expires", func(t *testing.T) {
		remaining := int64(0)
		link := &shortener.ShortLink{
			IsActive:        true,
			ExpirationType:  shortener.ExpireOnClicks,
			ClicksRemaining: &remaining,
		}

		assert.Equal(t, shortener.StateExpiredClicks, shortener.Resolvable(link, now))
	})

	t.Run("click expiration without a budget resolves", func(t *testing.T) {
		link := &shortener.ShortLink{
			IsActive:       true,
			ExpirationType: shortener.ExpireOnClicks,
		}

		assert.Equal(t, shortener.StateResolvable, shortener.Resolvable(link, now))
	})
}
