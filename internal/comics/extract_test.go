package comics

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"feedsanity/internal/feed"
	"feedsanity/internal/fetch"
)

type stubFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	errs  map[string]error
	calls []string
}

func (s *stubFetcher) Fetch(_ context.Context, pageURL string) (fetch.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, pageURL)
	if err, ok := s.errs[pageURL]; ok {
		return fetch.Result{}, err
	}
	body, ok := s.pages[pageURL]
	if !ok {
		return fetch.Result{}, fmt.Errorf("no stub page for %s", pageURL)
	}
	return fetch.Result{URL: pageURL, StatusCode: 200, Body: []byte(body)}, nil
}

func TestDefaultExtractorStripsThumbnailDimensions(t *testing.T) {
	t.Parallel()

	entry := feed.Entry{
		Content: `<p>Today's strip</p><img class="size-full" src="https://comic.example.com/wp-content/uploads/2026/02/strip-150x150.png" alt="">`,
	}
	urls, err := NewExtractor("", nil).ImageURLs(context.Background(), entry)
	require.NoError(t, err)
	require.Equal(t, []string{"https://comic.example.com/wp-content/uploads/2026/02/strip.png"}, urls)
}

func TestDefaultExtractorNoImage(t *testing.T) {
	t.Parallel()

	_, err := NewExtractor("", nil).ImageURLs(context.Background(), feed.Entry{Content: "<p>words only</p>"})
	require.Error(t, err)

	_, err = NewExtractor("", nil).ImageURLs(context.Background(), feed.Entry{})
	require.Error(t, err)
}

func TestPennyArcadeExtractorSingleImage(t *testing.T) {
	t.Parallel()

	link := "https://www.penny-arcade.com/comic/2026/02/10/strip"
	f := &stubFetcher{pages: map[string]string{
		link: `<div class="comic-panel"><img src="https://assets.penny-arcade.com/comics/20260210-ab12cd.jpg"></div>`,
	}}
	urls, err := NewExtractor("penny_arcade", f).ImageURLs(context.Background(), feed.Entry{Link: link})
	require.NoError(t, err)
	require.Equal(t, []string{"https://assets.penny-arcade.com/comics/20260210-ab12cd.jpg"}, urls)
}

func TestPennyArcadeExtractorPanelFallback(t *testing.T) {
	t.Parallel()

	link := "https://www.penny-arcade.com/comic/2014/05/07/old-strip"
	f := &stubFetcher{pages: map[string]string{
		link: `<img src="https://assets.penny-arcade.com/comics/old-strip-p1.jpg">`,
	}}
	urls, err := NewExtractor("penny_arcade", f).ImageURLs(context.Background(), feed.Entry{Link: link})
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://assets.penny-arcade.com/comics/old-strip-p1.jpg",
		"https://assets.penny-arcade.com/comics/old-strip-p2.jpg",
		"https://assets.penny-arcade.com/comics/old-strip-p3.jpg",
	}, urls)
}

func TestPennyArcadeExtractorRejectsNewsLinks(t *testing.T) {
	t.Parallel()

	f := &stubFetcher{}
	_, err := NewExtractor("penny_arcade", f).ImageURLs(context.Background(), feed.Entry{
		Link: "https://www.penny-arcade.com/news/post/123",
	})
	require.Error(t, err)
	require.Empty(t, f.calls, "news posts must not be fetched")
}

func TestOglafExtractorFiltersTitleCardsAndDuplicates(t *testing.T) {
	t.Parallel()

	f := &stubFetcher{pages: map[string]string{
		oglafHome: `
			<img src="https://media.oglaf.com/comic/ttglory.jpg">
			<img src="https://media.oglaf.com/comic/glory1.jpg">
			<img src="https://media.oglaf.com/comic/glory1.jpg">
			<img src="https://media.oglaf.com/comic/glory2.jpg">`,
	}}
	urls, err := NewExtractor("oglaf", f).ImageURLs(context.Background(), feed.Entry{})
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://media.oglaf.com/comic/glory1.jpg",
		"https://media.oglaf.com/comic/glory2.jpg",
	}, urls)
}

func TestWiddershinsExtractorFollowsDescriptionLink(t *testing.T) {
	t.Parallel()

	pageURL := "https://widdershinscomic.com/wisp/10-03"
	f := &stubFetcher{pages: map[string]string{
		pageURL: `<img src="https://widdershinscomic.com/comics/1760012345-103.png">`,
	}}
	entry := feed.Entry{
		Link:        "https://widdershinscomic.com/?p=999",
		Description: `New page! <a href="` + pageURL + `">Read it</a>`,
	}
	urls, err := NewExtractor("widdershins", f).ImageURLs(context.Background(), entry)
	require.NoError(t, err)
	require.Equal(t, []string{"https://widdershinscomic.com/comics/1760012345-103.png"}, urls)
	require.Equal(t, []string{pageURL}, f.calls)
}

func TestGunnerkriggExtractorPrefixesRelativeURLs(t *testing.T) {
	t.Parallel()

	link := "https://www.gunnerkrigg.com/?p=3001"
	f := &stubFetcher{pages: map[string]string{
		link: `<img class="comic_image" border="0" src="/comics2/20260210.jpg">`,
	}}
	urls, err := NewExtractor("gunnerkrigg", f).ImageURLs(context.Background(), feed.Entry{Link: link})
	require.NoError(t, err)
	require.Equal(t, []string{"http://www.gunnerkrigg.com/comics2/20260210.jpg"}, urls)
}

func TestSavestateExtractorStripsDimensions(t *testing.T) {
	t.Parallel()

	entry := feed.Entry{
		Content: `<p><a href="https://savestatecomic.com/2026/02/strip/"><img src="https://savestatecomic.com/wp-content/uploads/2026/02/strip-791x1024.png"></a></p>`,
	}
	urls, err := NewExtractor("savestate", nil).ImageURLs(context.Background(), entry)
	require.NoError(t, err)
	require.Equal(t, []string{"https://savestatecomic.com/wp-content/uploads/2026/02/strip.png"}, urls)
}

func TestWondermarkExtractor(t *testing.T) {
	t.Parallel()

	link := "https://wondermark.com/c/1612"
	f := &stubFetcher{pages: map[string]string{
		link: `<img src="https://wondermark.com/wp-content/uploads/2026/02/2026-02-10-1612ahem.png">`,
	}}
	urls, err := NewExtractor("wondermark", f).ImageURLs(context.Background(), feed.Entry{Link: link})
	require.NoError(t, err)
	require.Equal(t, []string{"https://wondermark.com/wp-content/uploads/2026/02/2026-02-10-1612ahem.png"}, urls)
}

func TestEvilIncExtractorPrefersComposite(t *testing.T) {
	t.Parallel()

	link := "https://www.evil-inc.com/comic/today"
	f := &stubFetcher{pages: map[string]string{
		link: `<img src="https://www.evil-inc.com/wp-content/uploads/2026/02/20260210_evil01.png">
		       <img src="https://www.evil-inc.com/wp-content/uploads/2026/02/20260210_evil.jpg">`,
	}}
	urls, err := NewExtractor("evil_inc", f).ImageURLs(context.Background(), feed.Entry{Link: link})
	require.NoError(t, err)
	require.Equal(t, []string{"https://www.evil-inc.com/wp-content/uploads/2026/02/20260210_evil.jpg"}, urls)
}

func TestEvilIncExtractorRelativeFallback(t *testing.T) {
	t.Parallel()

	link := "https://www.evil-inc.com/comic/today"
	f := &stubFetcher{pages: map[string]string{
		link: `<img src="/wp-content/uploads/2026/02/20260210_evil.jpg">`,
	}}
	urls, err := NewExtractor("evil_inc", f).ImageURLs(context.Background(), feed.Entry{Link: link})
	require.NoError(t, err)
	require.Equal(t, []string{"https://www.evil-inc.com/wp-content/uploads/2026/02/20260210_evil.jpg"}, urls)
}

func TestIncaseExtractor(t *testing.T) {
	t.Parallel()

	link := "https://incase.buttsmithy.com/comic/og-12"
	f := &stubFetcher{pages: map[string]string{
		link: `<img src="https://incase.buttsmithy.com/wp-content/uploads/2026/02/OG-12.jpg">`,
	}}
	urls, err := NewExtractor("incase", f).ImageURLs(context.Background(), feed.Entry{Link: link})
	require.NoError(t, err)
	require.Equal(t, []string{"https://incase.buttsmithy.com/wp-content/uploads/2026/02/OG-12.jpg"}, urls)
}

func TestExtractorsPropagateFetchErrors(t *testing.T) {
	t.Parallel()

	link := "https://www.gunnerkrigg.com/?p=3001"
	f := &stubFetcher{errs: map[string]error{link: fmt.Errorf("boom")}}
	_, err := NewExtractor("gunnerkrigg", f).ImageURLs(context.Background(), feed.Entry{Link: link})
	require.Error(t, err)
}
