package comics

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"feedsanity/internal/feed"
	"feedsanity/internal/fetch"
)

// Extractor finds the image URLs for one comic entry.
type Extractor interface {
	ImageURLs(ctx context.Context, entry feed.Entry) ([]string, error)
}

var (
	imgTagPattern      = regexp.MustCompile(`<img\s+[^>]*src="([^"]+)"`)
	thumbSuffixPattern = regexp.MustCompile(`-\d+x\d+(\.(png|jpg|jpeg|gif))`)
	dimensionPattern   = regexp.MustCompile(`-\d+x\d+`)

	pennyArcadePattern      = regexp.MustCompile(`(https://assets\.penny-arcade\.com/comics/\d{8}-[a-zA-Z0-9]+\.jpg)`)
	pennyArcadePanelPattern = regexp.MustCompile(`src="(https://assets\.penny-arcade\.com/comics/.*?p1.*?)"`)

	oglafPattern = regexp.MustCompile(`(https?://media\.oglaf\.com/comic/[^"]+\.jpg)`)

	widdershinsLinkPattern     = regexp.MustCompile(`<a\s+href="([^"]+)">`)
	widdershinsPattern         = regexp.MustCompile(`(https?://(?:www\.)?widdershinscomic\.com/comics/\d+-\d+\.png)`)
	widdershinsFallbackPattern = regexp.MustCompile(`(?:src|href)="(https?://(?:www\.)?widdershinscomic\.com/comics/[^"]+\.png)"`)

	gunnerkriggPattern = regexp.MustCompile(`<img\s+class="comic_image"[^>]*src="([^"]+)"`)

	savestatePattern = regexp.MustCompile(`<p><a\s+href[^>]*<img[^>]*src="([^"]+)"`)

	wondermarkPattern         = regexp.MustCompile(`(https?://wondermark\.com/wp-content/uploads/\d{4}/\d{2}/\d{4}-\d{2}-\d{2}-\d+[a-z]+\.png)`)
	wondermarkFallbackPattern = regexp.MustCompile(`(https?://wondermark\.com/wp-content/uploads/[^"]+\.png)`)

	evilIncPattern         = regexp.MustCompile(`(https?://[^"]*wp-content/uploads/\d{4}/\d{2}/\d{8}_evil\.jpg)`)
	evilIncRelativePattern = regexp.MustCompile(`wp-content/uploads/(\d{4}/\d{2}/\d{8}_evil\.jpg)`)

	incasePattern         = regexp.MustCompile(`(https?://incase\.buttsmithy\.com/wp-content/uploads/\d{4}/\d{2}/[^"]+\.jpg)`)
	incaseFallbackPattern = regexp.MustCompile(`(https?://incase\.buttsmithy\.com/wp-content/uploads/[^"]+\.jpg)`)
)

// NewExtractor returns the extractor matching the handler name from
// HandlerFor. Unknown names get the default markup extractor.
func NewExtractor(handler string, fetcher fetch.Fetcher) Extractor {
	switch handler {
	case "penny_arcade":
		return pennyArcadeExtractor{fetcher: fetcher}
	case "oglaf":
		return oglafExtractor{fetcher: fetcher}
	case "widdershins":
		return widdershinsExtractor{fetcher: fetcher}
	case "gunnerkrigg":
		return gunnerkriggExtractor{fetcher: fetcher}
	case "savestate":
		return savestateExtractor{}
	case "wondermark":
		return wondermarkExtractor{fetcher: fetcher}
	case "evil_inc":
		return evilIncExtractor{fetcher: fetcher}
	case "incase":
		return incaseExtractor{fetcher: fetcher}
	default:
		return defaultExtractor{}
	}
}

// defaultExtractor reads the image straight from the entry markup and
// strips WordPress thumbnail dimensions such as -150x150.
type defaultExtractor struct{}

func (defaultExtractor) ImageURLs(_ context.Context, entry feed.Entry) ([]string, error) {
	content := entry.Content
	if content == "" {
		content = entry.Description
	}
	if content == "" {
		return nil, fmt.Errorf("entry has no content")
	}
	m := imgTagPattern.FindStringSubmatch(content)
	if m == nil {
		return nil, fmt.Errorf("no image in entry content")
	}
	return []string{thumbSuffixPattern.ReplaceAllString(m[1], "$1")}, nil
}

// pennyArcadeExtractor scrapes the comic page. The site moved from
// three panels to a single composite image, so the panel URLs are a
// fallback for older strips.
type pennyArcadeExtractor struct {
	fetcher fetch.Fetcher
}

func (x pennyArcadeExtractor) ImageURLs(ctx context.Context, entry feed.Entry) ([]string, error) {
	if entry.Link == "" || !strings.Contains(entry.Link, "/comic/") {
		return nil, fmt.Errorf("not a comic post: %q", entry.Link)
	}
	page, err := fetchPage(ctx, x.fetcher, entry.Link)
	if err != nil {
		return nil, err
	}
	if m := pennyArcadePattern.FindStringSubmatch(page); m != nil {
		return []string{m[1]}, nil
	}
	if m := pennyArcadePanelPattern.FindStringSubmatch(page); m != nil {
		p1 := m[1]
		return []string{
			p1,
			strings.ReplaceAll(p1, "p1", "p2"),
			strings.ReplaceAll(p1, "p1", "p3"),
		}, nil
	}
	return nil, fmt.Errorf("no comic image on %s", entry.Link)
}

// oglafExtractor loads the front page, which carries every page of
// the current strip. Images named tt*.jpg are title cards, not pages.
type oglafExtractor struct {
	fetcher fetch.Fetcher
}

const oglafHome = "https://www.oglaf.com/"

func (x oglafExtractor) ImageURLs(ctx context.Context, _ feed.Entry) ([]string, error) {
	page, err := fetchPage(ctx, x.fetcher, oglafHome)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var urls []string
	for _, u := range oglafPattern.FindAllString(page, -1) {
		if strings.HasPrefix(path.Base(u), "tt") {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no comic images on oglaf front page")
	}
	return urls, nil
}

// widdershinsExtractor follows the page link in the entry markup and
// scrapes the comic image from there.
type widdershinsExtractor struct {
	fetcher fetch.Fetcher
}

func (x widdershinsExtractor) ImageURLs(ctx context.Context, entry feed.Entry) ([]string, error) {
	pageURL := entry.Link
	if m := widdershinsLinkPattern.FindStringSubmatch(entry.Description); m != nil {
		pageURL = m[1]
	}
	if pageURL == "" {
		return nil, fmt.Errorf("no comic page url")
	}
	page, err := fetchPage(ctx, x.fetcher, pageURL)
	if err != nil {
		return nil, err
	}
	if m := widdershinsPattern.FindStringSubmatch(page); m != nil {
		return []string{m[1]}, nil
	}
	if m := widdershinsFallbackPattern.FindStringSubmatch(page); m != nil {
		return []string{m[1]}, nil
	}
	return nil, fmt.Errorf("no comic image on %s", pageURL)
}

type gunnerkriggExtractor struct {
	fetcher fetch.Fetcher
}

func (x gunnerkriggExtractor) ImageURLs(ctx context.Context, entry feed.Entry) ([]string, error) {
	if entry.Link == "" {
		return nil, fmt.Errorf("entry has no link")
	}
	page, err := fetchPage(ctx, x.fetcher, entry.Link)
	if err != nil {
		return nil, err
	}
	m := gunnerkriggPattern.FindStringSubmatch(page)
	if m == nil {
		return nil, fmt.Errorf("no comic image on %s", entry.Link)
	}
	imageURL := m[1]
	if !strings.HasPrefix(imageURL, "http") {
		imageURL = "http://www.gunnerkrigg.com" + imageURL
	}
	return []string{imageURL}, nil
}

// savestateExtractor works off the entry markup like the default, but
// the site wraps its image differently and leaves bare dimension
// suffixes on the filename.
type savestateExtractor struct{}

func (savestateExtractor) ImageURLs(_ context.Context, entry feed.Entry) ([]string, error) {
	content := entry.Content
	if content == "" {
		content = entry.Description
	}
	if content == "" {
		return nil, fmt.Errorf("entry has no content")
	}
	m := savestatePattern.FindStringSubmatch(content)
	if m == nil {
		m = imgTagPattern.FindStringSubmatch(content)
	}
	if m == nil {
		return nil, fmt.Errorf("no image in entry content")
	}
	return []string{dimensionPattern.ReplaceAllString(m[1], "")}, nil
}

type wondermarkExtractor struct {
	fetcher fetch.Fetcher
}

func (x wondermarkExtractor) ImageURLs(ctx context.Context, entry feed.Entry) ([]string, error) {
	if entry.Link == "" {
		return nil, fmt.Errorf("entry has no link")
	}
	page, err := fetchPage(ctx, x.fetcher, entry.Link)
	if err != nil {
		return nil, err
	}
	if m := wondermarkPattern.FindStringSubmatch(page); m != nil {
		return []string{m[1]}, nil
	}
	if m := wondermarkFallbackPattern.FindStringSubmatch(page); m != nil {
		return []string{m[1]}, nil
	}
	return nil, fmt.Errorf("no comic image on %s", entry.Link)
}

// evilIncExtractor wants the composite YYYYMMDD_evil.jpg that holds
// every panel, not the individual evil01-06 panel files.
type evilIncExtractor struct {
	fetcher fetch.Fetcher
}

func (x evilIncExtractor) ImageURLs(ctx context.Context, entry feed.Entry) ([]string, error) {
	if entry.Link == "" {
		return nil, fmt.Errorf("entry has no link")
	}
	page, err := fetchPage(ctx, x.fetcher, entry.Link)
	if err != nil {
		return nil, err
	}
	if m := evilIncPattern.FindStringSubmatch(page); m != nil {
		return []string{m[1]}, nil
	}
	if m := evilIncRelativePattern.FindStringSubmatch(page); m != nil {
		return []string{"https://www.evil-inc.com/wp-content/uploads/" + m[1]}, nil
	}
	return nil, fmt.Errorf("no composite comic image on %s", entry.Link)
}

type incaseExtractor struct {
	fetcher fetch.Fetcher
}

func (x incaseExtractor) ImageURLs(ctx context.Context, entry feed.Entry) ([]string, error) {
	if entry.Link == "" {
		return nil, fmt.Errorf("entry has no link")
	}
	page, err := fetchPage(ctx, x.fetcher, entry.Link)
	if err != nil {
		return nil, err
	}
	if m := incasePattern.FindStringSubmatch(page); m != nil {
		return []string{m[1]}, nil
	}
	if m := incaseFallbackPattern.FindStringSubmatch(page); m != nil {
		return []string{m[1]}, nil
	}
	return nil, fmt.Errorf("no comic image on %s", entry.Link)
}

func fetchPage(ctx context.Context, fetcher fetch.Fetcher, pageURL string) (string, error) {
	res, err := fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("fetch comic page %s: %w", pageURL, err)
	}
	return string(res.Body), nil
}
