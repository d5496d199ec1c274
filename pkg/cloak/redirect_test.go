package cloak_test

import (
	"net/url"
	"testing"

	"github.com/edgecloak/edgecloak/pkg/cloak"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeRedirectURL(t *testing.T) {
	t.Run("appends inbound params", func(t *testing.T) {
		merged, err := cloak.MergeRedirectURL("https://example.net/landing", url.Values{"gclid": {"abc"}})
		require.NoError(t, err)

		u, err := url.Parse(merged)
		require.NoError(t, err)
		assert.Equal(t, "abc", u.Query().Get("gclid"))
		assert.Equal(t, "/landing", u.Path)
	})

	t.Run("inbound value overrides target default", func(t *testing.T) {
		merged, err := cloak.MergeRedirectURL("https://example.net/?src=default", url.Values{"src": {"ads"}})
		require.NoError(t, err)

		u, err := url.Parse(merged)
		require.NoError(t, err)
		assert.Equal(t, "ads", u.Query().Get("src"))
	})

	t.Run("target-only params survive", func(t *testing.T) {
		merged, err := cloak.MergeRedirectURL("https://example.net/?keep=1", url.Values{"gclid": {"abc"}})
		require.NoError(t, err)

		u, err := url.Parse(merged)
		require.NoError(t, err)
		assert.Equal(t, "1", u.Query().Get("keep"))
		assert.Equal(t, "abc", u.Query().Get("gclid"))
	})

	t.Run("merge is idempotent", func(t *testing.T) {
		params := url.Values{"gclid": {"abc"}, "src": {"ads"}}
		once, err := cloak.MergeRedirectURL("https://example.net/?src=default", params)
		require.NoError(t, err)
		twice, err := cloak.MergeRedirectURL(once, params)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	})

	t.Run("rejects unparseable target", func(t *testing.T) {
		_, err := cloak.MergeRedirectURL("https://exa mple.net/%zz", url.Values{"a": {"b"}})
		assert.Error(t, err)
	})
}
