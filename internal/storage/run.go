package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"
)

// Run addresses one dated digest folder inside a blob store. Everything
// a run produces lands under its prefix so the digest page can refer to
// images by bare filename.
type Run struct {
	store  BlobStore
	prefix string
}

// NewRun returns the run rooted at the dated folder for now.
func NewRun(store BlobStore, now time.Time) *Run {
	return &Run{store: store, prefix: now.Format("2006-01-02")}
}

// Prefix returns the dated folder name, e.g. "2026-08-22".
func (r *Run) Prefix() string {
	return r.prefix
}

// Put stores name inside the run folder. The returned location is the
// name itself, which doubles as the path relative to the digest page.
func (r *Run) Put(ctx context.Context, name string, data []byte) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("object name is required")
	}
	if _, err := r.store.PutObject(ctx, path.Join(r.prefix, name), contentTypeFor(name), bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("store %s: %w", name, err)
	}
	return name, nil
}

// WriteDigest stores the rendered page as the run's index.html and
// returns the backend URI.
func (r *Run) WriteDigest(ctx context.Context, html []byte) (string, error) {
	uri, err := r.store.PutObject(ctx, path.Join(r.prefix, "index.html"), "text/html; charset=utf-8", bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("store digest: %w", err)
	}
	return uri, nil
}

func contentTypeFor(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".html":
		return "text/html; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
