// Package storage defines the blob store abstraction that holds digest
// pages and comic images, with local filesystem, in-memory and Google
// Cloud Storage backends.
package storage

import (
	"context"
	"fmt"
	"io"

	gcstorage "cloud.google.com/go/storage"
	"go.uber.org/zap"

	"feedsanity/internal/storage/gcs"
	"feedsanity/internal/storage/local"
	"feedsanity/internal/storage/memory"
)

// BlobStore is the common write surface for all storage backends.
type BlobStore interface {
	// PutObject stores the object under path and returns its URI.
	PutObject(ctx context.Context, path string, contentType string, data io.Reader) (string, error)
}

// Options selects and parameterizes a backend.
type Options struct {
	// Backend is one of "local", "memory" or "gcs". Empty means local.
	Backend string
	// BaseDir roots the local backend.
	BaseDir string
	// Bucket names the GCS bucket for the gcs backend.
	Bucket string
}

// New builds the blob store named by opts.Backend.
func New(ctx context.Context, opts Options, logger *zap.Logger) (BlobStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch opts.Backend {
	case "", "local":
		store, err := local.New(local.Config{BaseDir: opts.BaseDir})
		if err != nil {
			return nil, fmt.Errorf("local store: %w", err)
		}
		return store, nil
	case "memory":
		return memory.NewBlobStore(), nil
	case "gcs":
		client, err := gcstorage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("create GCS client: %w", err)
		}
		// Fail fast on a missing bucket or bad credentials.
		if _, err := client.Bucket(opts.Bucket).Attrs(ctx); err != nil {
			if closeErr := client.Close(); closeErr != nil {
				logger.Warn("failed to close GCS client after bucket check", zap.Error(closeErr))
			}
			return nil, fmt.Errorf("check GCS bucket %q: %w", opts.Bucket, err)
		}
		store, err := gcs.New(client, gcs.Config{Bucket: opts.Bucket})
		if err != nil {
			return nil, fmt.Errorf("gcs store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// Discard is a BlobStore that drops everything. It backs dry runs
// where feeds are classified and fetched but nothing is written.
type Discard struct{}

// PutObject reads and discards the data.
func (Discard) PutObject(_ context.Context, path string, _ string, data io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, data); err != nil {
		return "", fmt.Errorf("discard object: %w", err)
	}
	return "discard://" + path, nil
}
