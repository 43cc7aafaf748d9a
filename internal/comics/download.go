package comics

import (
	"bytes"
	"context"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"go.uber.org/zap"

	"feedsanity/internal/feed"
	"feedsanity/internal/fetch"
	"feedsanity/internal/metrics"
)

// Sink receives downloaded images and returns where each one landed.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}

// Downloader turns a comic entry into stored image files.
type Downloader struct {
	fetcher  fetch.Fetcher
	validate bool
	minSize  int
	logger   *zap.Logger
}

// NewDownloader builds a Downloader. minSize guards against favicon
// sized junk when validation is on; zero falls back to 100 pixels.
func NewDownloader(fetcher fetch.Fetcher, validate bool, minSize int, logger *zap.Logger) *Downloader {
	if minSize <= 0 {
		minSize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Downloader{
		fetcher:  fetcher,
		validate: validate,
		minSize:  minSize,
		logger:   logger,
	}
}

// Download extracts the image URLs for entry and stores every image
// it can get. A single failed image is logged and skipped; only a
// comic with no images at all is an error.
func (d *Downloader) Download(ctx context.Context, feedURL string, entry feed.Entry, sink Sink) (Comic, error) {
	name := feed.Name(feedURL)
	extractor := NewExtractor(HandlerFor(feedURL), d.fetcher)

	urls, err := extractor.ImageURLs(ctx, entry)
	if err != nil {
		return Comic{}, fmt.Errorf("extract %s: %w", name, err)
	}

	comic := Comic{
		FeedName:  name,
		Title:     entry.Title,
		Link:      entry.Link,
		Published: entry.Published,
	}
	for i, imageURL := range urls {
		filename := name + ".jpg"
		if len(urls) > 1 {
			filename = fmt.Sprintf("%s-p%d.jpg", name, i+1)
		}

		res, err := d.fetcher.Fetch(ctx, imageURL)
		if err != nil {
			d.logger.Warn("comic image download failed",
				zap.String("comic", name),
				zap.String("image", imageURL),
				zap.Error(err),
			)
			continue
		}
		if d.validate {
			if err := ValidateImage(res.Body, d.minSize); err != nil {
				d.logger.Warn("comic image rejected",
					zap.String("comic", name),
					zap.String("image", imageURL),
					zap.Error(err),
				)
				continue
			}
		}

		stored, err := sink.Put(ctx, filename, res.Body)
		if err != nil {
			d.logger.Warn("comic image store failed",
				zap.String("comic", name),
				zap.String("file", filename),
				zap.Error(err),
			)
			continue
		}
		comic.Images = append(comic.Images, stored)
	}

	if len(comic.Images) == 0 {
		return Comic{}, fmt.Errorf("no images downloaded for %s", name)
	}

	metrics.ObserveComicsDownloaded(metrics.SanitizeSite(feedURL), len(comic.Images))
	d.logger.Info("comic downloaded",
		zap.String("comic", name),
		zap.Int("images", len(comic.Images)),
	)
	return comic, nil
}

// ValidateImage checks that data decodes as a supported comic format
// and is at least minSize pixels on each side.
func ValidateImage(data []byte, minSize int) error {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	switch format {
	case "jpeg", "png", "gif", "webp":
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
	if cfg.Width < minSize || cfg.Height < minSize {
		return fmt.Errorf("image %dx%d below minimum %dpx", cfg.Width, cfg.Height, minSize)
	}
	return nil
}
