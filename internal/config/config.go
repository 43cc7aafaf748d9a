// Package config loads and validates feedsanity configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Debug    bool           `mapstructure:"debug"`
	Feeds    FeedsConfig    `mapstructure:"feeds"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	AI       AIConfig       `mapstructure:"ai"`
	Classify ClassifyConfig `mapstructure:"classify"`
	Articles ArticlesConfig `mapstructure:"articles"`
	Images   ImagesConfig   `mapstructure:"images"`
	Output   OutputConfig   `mapstructure:"output"`
	Server   ServerConfig   `mapstructure:"server"`
	Events   EventsConfig   `mapstructure:"events"`
	Progress ProgressConfig `mapstructure:"progress"`
}

// FeedsConfig governs feed loading and the processing pool.
type FeedsConfig struct {
	File        string        `mapstructure:"file"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
	Window      time.Duration `mapstructure:"window"`
	AllEntries  bool          `mapstructure:"all_entries"`
}

// FetchConfig configures outbound HTTP behavior.
type FetchConfig struct {
	UserAgent    string         `mapstructure:"user_agent"`
	Timeout      time.Duration  `mapstructure:"timeout"`
	MaxRetries   int            `mapstructure:"max_retries"`
	RetryDelay   time.Duration  `mapstructure:"retry_delay"`
	RetryBackoff float64        `mapstructure:"retry_backoff"`
	RateLimitRPS float64        `mapstructure:"rate_limit_rps"`
	Headless     HeadlessConfig `mapstructure:"headless"`
}

// HeadlessConfig configures the optional browser-rendering fallback.
type HeadlessConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AIConfig selects and configures the language model provider.
type AIConfig struct {
	Provider string         `mapstructure:"provider"`
	Timeout  time.Duration  `mapstructure:"timeout"`
	Ollama   ProviderConfig `mapstructure:"ollama"`
	LMStudio ProviderConfig `mapstructure:"lm_studio"`
	OpenAI   ProviderConfig `mapstructure:"openai"`
	Gemini   ProviderConfig `mapstructure:"gemini"`
	Claude   ProviderConfig `mapstructure:"claude"`
}

// ProviderConfig holds per-provider connection settings. URL is only
// meaningful for self-hosted providers, APIKey only for cloud ones.
type ProviderConfig struct {
	URL    string `mapstructure:"url"`
	Model  string `mapstructure:"model"`
	APIKey string `mapstructure:"api_key"`
}

// ClassifyConfig points at the override and cache files for feed
// classification.
type ClassifyConfig struct {
	TypeOverrides     string `mapstructure:"type_overrides"`
	TypeCache         string `mapstructure:"type_cache"`
	LanguageOverrides string `mapstructure:"language_overrides"`
	LanguageCache     string `mapstructure:"language_cache"`
}

// ArticlesConfig bounds article extraction and summarization.
type ArticlesConfig struct {
	MaxLength        int      `mapstructure:"max_length"`
	MaxSummaryLength int      `mapstructure:"max_summary_length"`
	MinWords         int      `mapstructure:"min_words"`
	MinChars         int      `mapstructure:"min_chars"`
	ClickbaitAuthors []string `mapstructure:"clickbait_authors"`
}

// ImagesConfig controls comic image validation.
type ImagesConfig struct {
	Validate bool `mapstructure:"validate"`
	MinSize  int  `mapstructure:"min_size"`
}

// OutputConfig sets where digests and images land.
type OutputConfig struct {
	Dir        string        `mapstructure:"dir"`
	TempDir    string        `mapstructure:"temp_dir"`
	CleanupAge time.Duration `mapstructure:"cleanup_age"`
	Backend    string        `mapstructure:"backend"`
	GCSBucket  string        `mapstructure:"gcs_bucket"`
}

// ServerConfig controls the optional HTTP ops surface. An empty ListenAddr
// disables it; an empty APIKey disables request authentication.
type ServerConfig struct {
	ListenAddr     string        `mapstructure:"listen_addr"`
	APIKey         string        `mapstructure:"api_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// EventsConfig holds metadata for run-completion announcements.
type EventsConfig struct {
	Topic     string `mapstructure:"topic"`
	ProjectID string `mapstructure:"project_id"`
}

// ProgressConfig tunes the progress event hub.
type ProgressConfig struct {
	BufferSize     int           `mapstructure:"buffer_size"`
	MaxBatchEvents int           `mapstructure:"max_batch_events"`
	MaxBatchWait   time.Duration `mapstructure:"max_batch_wait"`
	SinkTimeout    time.Duration `mapstructure:"sink_timeout"`
}

// Load builds a Config from disk/environment using a private viper instance.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FEEDSANITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return unmarshal(v)
}

// FromGlobal builds a Config from the shared viper instance populated by
// pkg/config.InitConfig and cobra flag bindings.
func FromGlobal() (Config, error) {
	return unmarshal(viper.GetViper())
}

func unmarshal(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("feeds.file", "rss.txt")
	v.SetDefault("feeds.timeout", 120*time.Second)
	v.SetDefault("feeds.concurrency", 10)
	v.SetDefault("feeds.window", 24*time.Hour)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("fetch.timeout", 30*time.Second)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.retry_delay", 2*time.Second)
	v.SetDefault("fetch.retry_backoff", 2.0)
	v.SetDefault("fetch.rate_limit_rps", 2.0)
	v.SetDefault("fetch.headless.timeout", 45*time.Second)
	v.SetDefault("ai.provider", "ollama")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.ollama.url", "http://localhost:11434")
	v.SetDefault("ai.ollama.model", "granite4:tiny-h")
	v.SetDefault("ai.lm_studio.url", "http://localhost:1234/v1")
	v.SetDefault("ai.lm_studio.model", "qwen/qwen3-vl-4b")
	v.SetDefault("ai.openai.model", "gpt-4o-mini")
	v.SetDefault("ai.gemini.model", "gemini-1.5-flash")
	v.SetDefault("ai.claude.model", "claude-3-5-haiku-20241022")
	v.SetDefault("classify.type_overrides", "feed_type_overrides.txt")
	v.SetDefault("classify.type_cache", ".feed_type_cache.json")
	v.SetDefault("classify.language_overrides", "feed_language_overrides.txt")
	v.SetDefault("classify.language_cache", ".feed_language_cache.json")
	v.SetDefault("articles.max_length", 10000)
	v.SetDefault("articles.max_summary_length", 500)
	v.SetDefault("articles.min_words", 50)
	v.SetDefault("articles.min_chars", 200)
	v.SetDefault("articles.clickbait_authors", []string{"Francesca Testa"})
	v.SetDefault("images.min_size", 100)
	v.SetDefault("output.dir", "output")
	v.SetDefault("output.temp_dir", "temp")
	v.SetDefault("output.cleanup_age", 7*24*time.Hour)
	v.SetDefault("output.backend", "local")
	v.SetDefault("server.request_timeout", 60*time.Second)
	v.SetDefault("progress.buffer_size", 4096)
	v.SetDefault("progress.max_batch_events", 1000)
	v.SetDefault("progress.max_batch_wait", 500*time.Millisecond)
	v.SetDefault("progress.sink_timeout", 10*time.Second)
}

var validProviders = map[string]bool{
	"ollama":    true,
	"lm_studio": true,
	"openai":    true,
	"gemini":    true,
	"claude":    true,
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Feeds.File == "" {
		return fmt.Errorf("feeds.file must be set")
	}
	if c.Feeds.Concurrency <= 0 {
		return fmt.Errorf("feeds.concurrency must be > 0")
	}
	if c.Feeds.Timeout <= 0 {
		return fmt.Errorf("feeds.timeout must be > 0")
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be > 0")
	}
	if c.Fetch.MaxRetries < 0 {
		return fmt.Errorf("fetch.max_retries must be >= 0")
	}
	if !validProviders[c.AI.Provider] {
		return fmt.Errorf("ai.provider %q is not one of ollama, lm_studio, openai, gemini, claude", c.AI.Provider)
	}
	switch c.Output.Backend {
	case "local", "memory":
	case "gcs":
		if c.Output.GCSBucket == "" {
			return fmt.Errorf("output.gcs_bucket must be set when output.backend is gcs")
		}
	default:
		return fmt.Errorf("output.backend %q is not one of local, memory, gcs", c.Output.Backend)
	}
	if c.Articles.MaxLength <= 0 {
		return fmt.Errorf("articles.max_length must be > 0")
	}
	return nil
}

// ProviderSettings returns the connection settings for the named provider.
func (c AIConfig) ProviderSettings(name string) ProviderConfig {
	switch name {
	case "lm_studio":
		return c.LMStudio
	case "openai":
		return c.OpenAI
	case "gemini":
		return c.Gemini
	case "claude":
		return c.Claude
	default:
		return c.Ollama
	}
}
