package storage

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaStore(t *testing.T) {
	store, err := NewMediaStore(t.TempDir())
	require.NoError(t, err)

	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	dataURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	t.Run("SaveDataURI", func(t *testing.T) {
		rel, err := store.SaveDataURI(dataURI)
		require.NoError(t, err)
		assert.Equal(t, ".png", filepath.Ext(rel))

		data, err := os.ReadFile(filepath.Join(store.Dir(), rel))
		require.NoError(t, err)
		assert.Equal(t, payload, data)
		assert.True(t, store.Exists(rel))
	})

	t.Run("UniqueFilenames", func(t *testing.T) {
		a, err := store.SaveDataURI(dataURI)
		require.NoError(t, err)
		b, err := store.SaveDataURI(dataURI)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("Remove", func(t *testing.T) {
		rel, err := store.SaveDataURI(dataURI)
		require.NoError(t, err)

		require.NoError(t, store.Remove(rel))
		assert.False(t, store.Exists(rel))

		// Removing twice is fine.
		assert.NoError(t, store.Remove(rel))
	})

	t.Run("InvalidPayloads", func(t *testing.T) {
		bad := []string{
			"",
			"not a data uri",
			"data:image/png;base64,@@@",
			"image/png;base64,aGk=",
			"data:image/..;base64,aGk=",
		}
		for _, uri := range bad {
			_, err := store.SaveDataURI(uri)
			assert.ErrorIs(t, err, ErrInvalidDataURI, "uri %q", uri)
		}
	})
}
