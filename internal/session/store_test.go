package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmpmail/pkg/models"
)

func TestNewStore(t *testing.T) {
	t.Run("creates the session directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "tmpmail")

		_, err := NewStore(dir)
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})
}

func TestAddressSlot(t *testing.T) {
	t.Run("empty store has no address", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		_, ok, err := store.Address()
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("round-trips the structured address", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		want := models.EmailAddress{Username: "abc12def345", Domain: "example.com"}
		require.NoError(t, store.SaveAddress(want))

		got, ok, err := store.Address()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("last write wins", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.SaveAddress(models.EmailAddress{Username: "first1", Domain: "example.com"}))
		require.NoError(t, store.SaveAddress(models.EmailAddress{Username: "second2", Domain: "example.com"}))

		got, ok, err := store.Address()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "second2", got.Username)
	})
}

func TestDocumentSlot(t *testing.T) {
	t.Run("empty store has no document", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		_, ok, err := store.Document()
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("stores raw content at a stable path", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		doc := models.RenderedDocument{MessageID: 7, Format: models.FormatHTML, Content: "<p>hey</p>"}
		require.NoError(t, store.SaveDocument(doc))

		// The browser collaborator reads the file directly, so the
		// slot holds the raw content and nothing else
		data, err := os.ReadFile(store.DocumentPath())
		require.NoError(t, err)
		assert.Equal(t, "<p>hey</p>", string(data))

		got, ok, err := store.Document()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "<p>hey</p>", got.Content)
	})

	t.Run("each view overwrites the slot", func(t *testing.T) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)

		require.NoError(t, store.SaveDocument(models.RenderedDocument{Content: "old"}))
		require.NoError(t, store.SaveDocument(models.RenderedDocument{Content: "new"}))

		got, _, err := store.Document()
		require.NoError(t, err)
		assert.Equal(t, "new", got.Content)
	})
}
