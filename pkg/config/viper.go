// Package config wires viper configuration loading for the feedsanity CLI.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"feedsanity/internal/logging"
)

// InitConfig loads configuration from file and environment. An explicit
// cfgFile wins; otherwise config.yaml is searched in the working
// directory, /etc/feedsanity/, then $HOME/.feedsanity. Environment
// variables use the FEEDSANITY_ prefix with dots replaced by underscores,
// e.g. FEEDSANITY_AI_PROVIDER overrides ai.provider.
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/feedsanity/")
		viper.AddConfigPath("$HOME/.feedsanity")
	}

	setDefaults()

	viper.SetEnvPrefix("FEEDSANITY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			logging.L.Sugar().Warnf("reading config file: %v", err)
		}
	}
}

func setDefaults() {
	viper.SetDefault("debug", false)

	viper.SetDefault("feeds.file", "rss.txt")
	viper.SetDefault("feeds.timeout", 120*time.Second)
	viper.SetDefault("feeds.concurrency", 10)
	viper.SetDefault("feeds.window", 24*time.Hour)
	viper.SetDefault("feeds.all_entries", false)

	viper.SetDefault("fetch.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	viper.SetDefault("fetch.timeout", 30*time.Second)
	viper.SetDefault("fetch.max_retries", 3)
	viper.SetDefault("fetch.retry_delay", 2*time.Second)
	viper.SetDefault("fetch.retry_backoff", 2.0)
	viper.SetDefault("fetch.rate_limit_rps", 2.0)
	viper.SetDefault("fetch.headless.enabled", false)
	viper.SetDefault("fetch.headless.timeout", 45*time.Second)

	viper.SetDefault("ai.provider", "ollama")
	viper.SetDefault("ai.ollama.url", "http://localhost:11434")
	viper.SetDefault("ai.ollama.model", "granite4:tiny-h")
	viper.SetDefault("ai.lm_studio.url", "http://localhost:1234/v1")
	viper.SetDefault("ai.lm_studio.model", "qwen/qwen3-vl-4b")
	viper.SetDefault("ai.openai.model", "gpt-4o-mini")
	viper.SetDefault("ai.gemini.model", "gemini-1.5-flash")
	viper.SetDefault("ai.claude.model", "claude-3-5-haiku-20241022")
	viper.SetDefault("ai.timeout", 60*time.Second)

	viper.SetDefault("classify.type_overrides", "feed_type_overrides.txt")
	viper.SetDefault("classify.type_cache", ".feed_type_cache.json")
	viper.SetDefault("classify.language_overrides", "feed_language_overrides.txt")
	viper.SetDefault("classify.language_cache", ".feed_language_cache.json")

	viper.SetDefault("articles.max_length", 10000)
	viper.SetDefault("articles.max_summary_length", 500)
	viper.SetDefault("articles.min_words", 50)
	viper.SetDefault("articles.min_chars", 200)
	viper.SetDefault("articles.clickbait_authors", []string{"Francesca Testa"})

	viper.SetDefault("images.validate", false)
	viper.SetDefault("images.min_size", 100)

	viper.SetDefault("output.dir", "output")
	viper.SetDefault("output.temp_dir", "temp")
	viper.SetDefault("output.cleanup_age", 7*24*time.Hour)
	viper.SetDefault("output.backend", "local")
	viper.SetDefault("output.gcs_bucket", "")

	viper.SetDefault("server.listen_addr", "")
	viper.SetDefault("server.api_key", "")
	viper.SetDefault("server.request_timeout", 60*time.Second)

	viper.SetDefault("events.topic", "")
	viper.SetDefault("events.project_id", "")

	viper.SetDefault("progress.buffer_size", 4096)
	viper.SetDefault("progress.max_batch_events", 1000)
	viper.SetDefault("progress.max_batch_wait", 500*time.Millisecond)
	viper.SetDefault("progress.sink_timeout", 10*time.Second)
}
