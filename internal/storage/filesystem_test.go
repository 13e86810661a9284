package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewFilesystemStore(root, "/media/")
	require.NoError(t, err)

	key := NewKey("recipes/images", "png")
	assert.True(t, strings.HasPrefix(key, "recipes/images/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	require.NoError(t, store.Save(ctx, key, []byte("image-bytes"), "image/png"))

	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(content))

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "/media/"+key, store.URL(key))

	require.NoError(t, store.Delete(ctx, key))
	exists, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFilesystemStoreDeleteMissingIsNoop(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir(), "/media/")
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "recipes/images/missing.png"))
}

func TestFilesystemStoreRejectsEscapingKeys(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir(), "/media/")
	require.NoError(t, err)

	for _, key := range []string{"", "../secret", "a/../../b"} {
		err := store.Save(context.Background(), key, []byte("x"), "text/plain")
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("http://cdn.test")

	require.NoError(t, store.Save(ctx, "users/a.png", []byte("a"), "image/png"))
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, "http://cdn.test/users/a.png", store.URL("users/a.png"))

	require.NoError(t, store.Delete(ctx, "users/a.png"))
	require.NoError(t, store.Delete(ctx, "users/a.png"))
	assert.Equal(t, 0, store.Len())
}
