package classify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"feedsanity/internal/llm"
)

type fakeProvider struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	lastReq llm.GenerateRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(_ context.Context, req llm.GenerateRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastReq = req
	return f.reply, f.err
}

func (f *fakeProvider) Healthy(context.Context) error { return nil }

func (f *fakeProvider) Models(context.Context) ([]string, error) { return nil, nil }

func (f *fakeProvider) last() llm.GenerateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq
}

func sampleWithEntries(n int) Sample {
	s := Sample{Title: "Some Feed"}
	titles := []string{"First", "Second", "Third", "Fourth", "Fifth", "Sixth", "Seventh"}
	for i := 0; i < n; i++ {
		s.Entries = append(s.Entries, SampleEntry{
			Title:       titles[i%len(titles)],
			URL:         "https://example.com/" + titles[i%len(titles)],
			Description: "a description",
		})
	}
	return s
}

func TestTypeDetectorBuildsBoundedPrompt(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{reply: "comic"}
	d := NewTypeDetector(provider, "test-model", zap.NewNop())

	sample := sampleWithEntries(7)
	sample.Entries[0].Description = strings.Repeat("x", 500)

	got, err := d.Detect(context.Background(), "https://example.com/feed", sample)
	require.NoError(t, err)
	require.Equal(t, TypeComic, got)

	req := provider.last()
	require.Equal(t, "test-model", req.Model)
	require.Equal(t, typeSystemPrompt, req.System)
	require.InDelta(t, 0.1, req.Temperature, 0.001)

	require.Contains(t, req.Prompt, "Feed Title: Some Feed")
	require.Contains(t, req.Prompt, "Entry 5:")
	require.NotContains(t, req.Prompt, "Entry 6:", "type detection samples at most five entries")
	require.Contains(t, req.Prompt, strings.Repeat("x", 200)+"...")
	require.NotContains(t, req.Prompt, strings.Repeat("x", 201), "descriptions are truncated")
	require.Contains(t, req.Prompt, "is this a comic/webcomic feed or a news/article feed?")
}

func TestTypeDetectorParsesReplies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		reply   string
		want    string
		wantErr bool
	}{
		{name: "plain comic", reply: "comic", want: TypeComic},
		{name: "plain news", reply: "News\n", want: TypeNews},
		{name: "sentence containing comic", reply: "This looks like a webcomic feed.", want: TypeComic},
		{name: "both words first wins", reply: "comic or news", want: TypeComic},
		{name: "unparsable", reply: "unclear", wantErr: true},
		{name: "empty", reply: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := NewTypeDetector(&fakeProvider{reply: tt.reply}, "m", zap.NewNop())
			got, err := d.Detect(context.Background(), "https://example.com/feed", sampleWithEntries(1))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTypeDetectorEmptySampleFails(t *testing.T) {
	t.Parallel()

	d := NewTypeDetector(&fakeProvider{reply: "comic"}, "m", zap.NewNop())
	_, err := d.Detect(context.Background(), "https://example.com/feed", Sample{})
	require.Error(t, err)
}

func TestTypeDetectorProviderErrorPropagates(t *testing.T) {
	t.Parallel()

	d := NewTypeDetector(&fakeProvider{err: errors.New("connection refused")}, "m", zap.NewNop())
	_, err := d.Detect(context.Background(), "https://example.com/feed", sampleWithEntries(1))
	require.ErrorContains(t, err, "connection refused")
}

func TestLanguageDetectorBuildsBoundedPrompt(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{reply: "Italian"}
	d := NewLanguageDetector(provider, "test-model", zap.NewNop())

	got, err := d.Detect(context.Background(), "https://macitynet.it/feed", sampleWithEntries(5))
	require.NoError(t, err)
	require.Equal(t, "Italian", got)

	req := provider.last()
	require.Equal(t, languageSystemPrompt, req.System)
	require.Contains(t, req.Prompt, "Entry 3:")
	require.NotContains(t, req.Prompt, "Entry 4:", "language detection samples at most three entries")
	require.NotContains(t, req.Prompt, "URL:", "language prompts omit entry URLs")
	require.Contains(t, req.Prompt, "what language are they written in?")
}

func TestLanguageDetectorParsesReplies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		reply   string
		want    string
		wantErr bool
	}{
		{name: "plain", reply: "Italian", want: "Italian"},
		{name: "uppercase", reply: "ITALIAN", want: "Italian"},
		{name: "quoted with punctuation", reply: `"french".`, want: "French"},
		{name: "too long", reply: "The language of these entries appears to be Italian based on the vocabulary", wantErr: true},
		{name: "empty", reply: "  ", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := NewLanguageDetector(&fakeProvider{reply: tt.reply}, "m", zap.NewNop())
			got, err := d.Detect(context.Background(), "https://example.com/feed", sampleWithEntries(1))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCapitalize(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Italian", Capitalize("italian"))
	require.Equal(t, "Italian", Capitalize("ITALIAN"))
	require.Equal(t, "", Capitalize(""))
	require.Equal(t, "Ésa", Capitalize("éSA"))
}
