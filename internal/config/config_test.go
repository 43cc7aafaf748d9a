package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
debug: true
feeds:
  file: myfeeds.txt
  timeout: 90s
  concurrency: 4
  window: 48h
  all_entries: true
fetch:
  user_agent: feedsanity-test
  timeout: 10s
  max_retries: 5
ai:
  provider: openai
  openai:
    api_key: sk-test
    model: gpt-4o
classify:
  type_overrides: my_overrides.txt
articles:
  clickbait_authors: ["A. Writer", "B. Writer"]
output:
  dir: digests
  backend: memory
server:
  listen_addr: 127.0.0.1:8080
  api_key: secret
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Debug {
		t.Fatal("expected debug to be enabled")
	}
	if cfg.Feeds.File != "myfeeds.txt" || cfg.Feeds.Concurrency != 4 {
		t.Fatalf("expected feed overrides to apply, got %+v", cfg.Feeds)
	}
	if cfg.Feeds.Timeout != 90*time.Second || cfg.Feeds.Window != 48*time.Hour {
		t.Fatalf("expected durations parsed, got %+v", cfg.Feeds)
	}
	if !cfg.Feeds.AllEntries {
		t.Fatal("expected all_entries to be set")
	}
	if cfg.AI.Provider != "openai" || cfg.AI.OpenAI.APIKey != "sk-test" {
		t.Fatalf("expected AI overrides to apply, got %+v", cfg.AI)
	}
	if got := cfg.AI.ProviderSettings("openai").Model; got != "gpt-4o" {
		t.Fatalf("expected provider model gpt-4o, got %q", got)
	}
	if len(cfg.Articles.ClickbaitAuthors) != 2 {
		t.Fatalf("expected two clickbait authors, got %v", cfg.Articles.ClickbaitAuthors)
	}
	if cfg.Output.Dir != "digests" || cfg.Output.Backend != "memory" {
		t.Fatalf("expected output overrides to apply, got %+v", cfg.Output)
	}
	if cfg.Server.ListenAddr != "127.0.0.1:8080" || cfg.Server.APIKey != "secret" {
		t.Fatalf("expected server overrides to apply, got %+v", cfg.Server)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Feeds.File != "rss.txt" {
		t.Fatalf("expected default feed file rss.txt, got %q", cfg.Feeds.File)
	}
	if cfg.Feeds.Concurrency != 10 || cfg.Feeds.Timeout != 120*time.Second {
		t.Fatalf("expected pool defaults, got %+v", cfg.Feeds)
	}
	if cfg.AI.Provider != "ollama" || cfg.AI.Ollama.URL != "http://localhost:11434" {
		t.Fatalf("expected ollama defaults, got %+v", cfg.AI)
	}
	if cfg.Classify.TypeCache != ".feed_type_cache.json" {
		t.Fatalf("expected default type cache path, got %q", cfg.Classify.TypeCache)
	}
	if cfg.Articles.MaxLength != 10000 || cfg.Articles.MaxSummaryLength != 500 {
		t.Fatalf("expected article length defaults, got %+v", cfg.Articles)
	}
	if cfg.Output.CleanupAge != 7*24*time.Hour {
		t.Fatalf("expected 7 day cleanup age, got %v", cfg.Output.CleanupAge)
	}
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Feeds:    FeedsConfig{File: "rss.txt", Concurrency: 10, Timeout: time.Minute},
		Fetch:    FetchConfig{Timeout: 30 * time.Second},
		AI:       AIConfig{Provider: "ollama"},
		Articles: ArticlesConfig{MaxLength: 10000},
		Output:   OutputConfig{Backend: "local"},
	}

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "missing feed file",
			cfg: func() Config {
				c := base
				c.Feeds.File = ""
				return c
			}(),
			want: "feeds.file",
		},
		{
			name: "invalid concurrency",
			cfg: func() Config {
				c := base
				c.Feeds.Concurrency = 0
				return c
			}(),
			want: "feeds.concurrency",
		},
		{
			name: "invalid fetch timeout",
			cfg: func() Config {
				c := base
				c.Fetch.Timeout = 0
				return c
			}(),
			want: "fetch.timeout",
		},
		{
			name: "unknown provider",
			cfg: func() Config {
				c := base
				c.AI.Provider = "skynet"
				return c
			}(),
			want: "ai.provider",
		},
		{
			name: "gcs without bucket",
			cfg: func() Config {
				c := base
				c.Output.Backend = "gcs"
				return c
			}(),
			want: "output.gcs_bucket",
		},
		{
			name: "unknown backend",
			cfg: func() Config {
				c := base
				c.Output.Backend = "s3"
				return c
			}(),
			want: "output.backend",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
