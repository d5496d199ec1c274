package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/edgecloak/edgecloak/pkg/infra/content"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Get(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "maintenance.html"), []byte("<h1>Back soon</h1>"), 0o600))

	store := content.NewStore(logrus.New(), dir)

	t.Run("serves the referenced template", func(t *testing.T) {
		assert.Equal(t, "<h1>Back soon</h1>", store.Get("maintenance"))
		assert.Equal(t, "<h1>Back soon</h1>", store.Get("maintenance.html"))
	})

	t.Run("empty ref serves the placeholder", func(t *testing.T) {
		assert.Contains(t, store.Get(""), "This page is currently unavailable")
	})

	t.Run("unknown ref falls back to the placeholder", func(t *testing.T) {
		assert.Contains(t, store.Get("nope"), "This page is currently unavailable")
	})

	t.Run("path traversal is rejected", func(t *testing.T) {
		assert.Contains(t, store.Get("../secret"), "This page is currently unavailable")
		assert.Contains(t, store.Get("/etc/passwd"), "This page is currently unavailable")
	})
}
