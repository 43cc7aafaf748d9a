package classify

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadOverridesTypeRules(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFileT(t, dir, "type.txt", `
# comment line
https://a.com/rss = news
https://b.com/feed=Comic

not a valid line
ftp://c.com/feed = news
https://d.com/feed = magazine
https://a.com/rss = comic
`)

	s := LoadOverrides(path, KindType, zap.NewNop())
	require.Equal(t, 2, s.Len())

	v, ok := s.Lookup("https://a.com/rss")
	require.True(t, ok)
	require.Equal(t, TypeComic, v, "later duplicate wins")

	v, ok = s.Lookup("https://b.com/feed")
	require.True(t, ok)
	require.Equal(t, TypeComic, v, "values are case-insensitive")

	_, ok = s.Lookup("ftp://c.com/feed")
	require.False(t, ok, "keys must start with http:// or https://")

	_, ok = s.Lookup("https://d.com/feed")
	require.False(t, ok, "values other than comic/news are skipped")
}

func TestLoadOverridesOneGoodLineSurvivesBadNeighbors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFileT(t, dir, "type.txt", "garbage without equals\nhttps://good.com/rss = news\n")

	s := LoadOverrides(path, KindType, zap.NewNop())
	require.Equal(t, 1, s.Len())

	v, ok := s.Lookup("https://good.com/rss")
	require.True(t, ok)
	require.Equal(t, TypeNews, v)
}

func TestLoadOverridesLanguageKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFileT(t, dir, "lang.txt", `
example.com = italian
https://www.macitynet.it/feed/ = ITALIAN
News.Example.ORG = french
empty.example =
`)

	s := LoadOverrides(path, KindLanguage, zap.NewNop())
	require.Equal(t, 3, s.Len())

	v, ok := s.Lookup("https://example.com/anything")
	require.True(t, ok)
	require.Equal(t, "Italian", v, "languages are capitalized")

	v, ok = s.Lookup("https://macitynet.it/feed/")
	require.True(t, ok)
	require.Equal(t, "Italian", v, "URL keys collapse to their domain")

	v, ok = s.Lookup("https://news.example.org/rss")
	require.True(t, ok)
	require.Equal(t, "French", v, "bare domains are normalized")

	_, ok = s.Lookup("https://empty.example/feed")
	require.False(t, ok, "empty values are skipped")
}

func TestLoadOverridesMissingFile(t *testing.T) {
	t.Parallel()

	s := LoadOverrides(filepath.Join(t.TempDir(), "nope.txt"), KindType, zap.NewNop())
	require.Zero(t, s.Len())

	_, ok := s.Lookup("https://a.com/rss")
	require.False(t, ok)
}

func TestTableLookupParentWalk(t *testing.T) {
	t.Parallel()

	table := BuiltinTypeTable()

	v, ok := table.Lookup("xkcd.com")
	require.True(t, ok)
	require.Equal(t, TypeComic, v)

	v, ok = table.Lookup("incase.buttsmithy.com")
	require.True(t, ok)
	require.Equal(t, TypeComic, v)

	v, ok = table.Lookup("feeds.feedburner.com")
	require.True(t, ok)
	require.Equal(t, TypeNews, v)

	_, ok = table.Lookup("unknown.example")
	require.False(t, ok)

	_, ok = table.Lookup("")
	require.False(t, ok)
}

func TestDomainNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"https://www.Example.COM/feed", "example.com"},
		{"http://xkcd.com/rss.xml", "xkcd.com"},
		{"https://feeds.feedburner.com/Macitynet", "feeds.feedburner.com"},
		{"example.com/feed", ""},
		{"", ""},
		{"http://example.com:8080/feed", "example.com"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Domain(tt.raw), "Domain(%q)", tt.raw)
	}

	require.Equal(t, "example.com", NormalizeDomain("WWW.Example.Com"))
	require.Equal(t, "example.com", NormalizeDomain(" example.com "))
}
