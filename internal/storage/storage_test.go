package storage_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"feedsanity/internal/storage"
	"feedsanity/internal/storage/local"
	"feedsanity/internal/storage/memory"
)

func TestNewSelectsBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	store, err := storage.New(ctx, storage.Options{Backend: "memory"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &memory.BlobStore{}, store)

	dir := t.TempDir()
	store, err = storage.New(ctx, storage.Options{Backend: "local", BaseDir: dir}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &local.BlobStore{}, store)

	store, err = storage.New(ctx, storage.Options{BaseDir: dir}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &local.BlobStore{}, store)

	_, err = storage.New(ctx, storage.Options{Backend: "s3"}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewLocalBackendWrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := storage.New(context.Background(), storage.Options{Backend: "local", BaseDir: dir}, zap.NewNop())
	require.NoError(t, err)

	_, err = store.PutObject(context.Background(), "2026-08-22/index.html", "text/html", bytes.NewReader([]byte("page")))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "2026-08-22", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "page", string(data))
}

func TestDiscardSwallowsWrites(t *testing.T) {
	t.Parallel()

	var store storage.BlobStore = storage.Discard{}
	uri, err := store.PutObject(context.Background(), "2026-08-22/Xkcd.jpg", "image/jpeg", bytes.NewReader([]byte("img")))
	require.NoError(t, err)
	assert.Equal(t, "discard://2026-08-22/Xkcd.jpg", uri)
}
