package shortener_test

import (
	"testing"

	"github.com/snaplink-io/snaplink/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAlias(t *testing.T) {
	t.Run("lowercases valid alias", func(t *testing.T) {
		alias, err := shortener.NormalizeAlias("MyAlias-1")

		require.NoError(t, err)
		assert.Equal(t, "myalias-1", alias)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		alias, err := shortener.NormalizeAlias("  promo_2024  ")

		require.NoError(t, err)
		assert.Equal(t, "promo_2024", alias)
	})

	t.Run("empty input means no alias", func(t *testing.T) {
		alias, err := shortener.NormalizeAlias("")

		require.NoError(t, err)
		assert.Empty(t, alias)
	})

	t.Run("whitespace-only input means no alias", func(t *testing.T) {
		alias, err := shortener.NormalizeAlias("   ")

		require.NoError(t, err)
		assert.Empty(t, alias)
	})

	t.Run("is idempotent", func(t *testing.T) {
		once, err := shortener.NormalizeAlias("Launch-Day")
		require.NoError(t, err)

		twice, err := shortener.NormalizeAlias(once)
		require.NoError(t, err)

		assert.Equal(t, once, twice)
	})

	t.Run("rejects invalid characters", func(t *testing.T) {
		for _, raw := range []string{"has space", "slash/", "dot.dot", "emoji🙂", "a b"} {
			_, err := shortener.NormalizeAlias(raw)

			assert.True(t, shortener.IsValidation(err), "expected validation error for %q", raw)
		}
	})

	t.Run("rejects alias longer than 30 characters", func(t *testing.T) {
		_, err := shortener.NormalizeAlias("abcdefghijklmnopqrstuvwxyz12345")

		assert.True(t, shortener.IsValidation(err))
	})

	t.Run("accepts alias of exactly 30 characters", func(t *testing.T) {
		alias, err := shortener.NormalizeAlias("abcdefghijklmnopqrstuvwxyz1234")

		require.NoError(t, err)
		assert.Len(t, alias, 30)
	})
}

func TestNormalizeURL(t *testing.T) {
	t.Run("prepends https to bare host", func(t *testing.T) {
		url, err := shortener.NormalizeURL("github.com")

		require.NoError(t, err)
		assert.Equal(t, "https://github.com/", url)
	})

	t.Run("keeps explicit http scheme", func(t *testing.T) {
		url, err := shortener.NormalizeURL("http://example.com/path?q=1")

		require.NoError(t, err)
		assert.Equal(t, "http://example.com/path?q=1", url)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		url, err := shortener.NormalizeURL("  https://example.com/a  ")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a", url)
	})

	t.Run("is idempotent", func(t *testing.T) {
		once, err := shortener.NormalizeURL("example.com/docs")
		require.NoError(t, err)

		twice, err := shortener.NormalizeURL(once)
		require.NoError(t, err)

		assert.Equal(t, once, twice)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := shortener.NormalizeURL("")

		assert.True(t, shortener.IsValidation(err))
	})

	t.Run("rejects non-http schemes", func(t *testing.T) {
		for _, raw := range []string{"ftp://example.com", "javascript://alert(1)", "file:///etc/passwd"} {
			_, err := shortener.NormalizeURL(raw)

			assert.True(t, shortener.IsValidation(err), "expected validation error for %q", raw)
		}
	})

	t.Run("rejects url without host", func(t *testing.T) {
		_, err := shortener.NormalizeURL("https://")

		assert.True(t, shortener.IsValidation(err))
	})
}
