package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newInitCmd creates the 'init' subcommand. It scaffolds a starter
// workspace in the current directory: a config file, a feed list and
// the two override files. Existing files are left untouched so the
// command is safe to rerun.
func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scaffold a starter config and feed list in the current directory",
		RunE:  runInitCommand,
	}
}

func runInitCommand(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	files := []struct {
		name    string
		content string
	}{
		{"config.yaml", starterConfig},
		{"rss.txt", starterFeeds},
		{"feed_type_overrides.txt", starterTypeOverrides},
		{"feed_language_overrides.txt", starterLanguageOverrides},
	}
	for _, f := range files {
		if _, err := os.Stat(f.name); err == nil {
			fmt.Fprintf(out, "kept existing %s\n", f.name)
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat %s: %w", f.name, err)
		}
		if err := os.WriteFile(f.name, []byte(f.content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
		fmt.Fprintf(out, "created %s\n", f.name)
	}
	fmt.Fprintln(out, "\nEdit rss.txt, then generate your first digest with: feedsanity run")
	return nil
}

const starterConfig = `# feedsanity configuration. Every commented value shows its default.
# Environment variables override the file: FEEDSANITY_AI_PROVIDER=gemini.

feeds:
  file: rss.txt
  # concurrency: 10
  # window: 24h
  # all_entries: false

ai:
  provider: ollama
  ollama:
    url: http://localhost:11434
    model: granite4:tiny-h
  # openai:
  #   model: gpt-4o-mini
  #   api_key: ""
  # gemini:
  #   model: gemini-1.5-flash
  #   api_key: ""

output:
  dir: output
  # temp_dir: temp
  # cleanup_age: 168h
  # backend: local      # local, memory or gcs
  # gcs_bucket: ""

# classify:
#   type_overrides: feed_type_overrides.txt
#   language_overrides: feed_language_overrides.txt

# images:
#   validate: false

# Uncomment to expose health, metrics and run snapshots over HTTP.
# server:
#   listen_addr: 127.0.0.1:8080
`

const starterFeeds = `# One feed URL per line. Lines starting with # are ignored.
https://xkcd.com/rss.xml
https://www.questionablecontent.net/QCRSS.xml
https://www.macitynet.it/feed/
`

const starterTypeOverrides = `# Manual feed type overrides, highest priority in the resolution chain.
# Format: full feed URL = comic|news
#
# https://example.com/feed.xml = comic
`

const starterLanguageOverrides = `# Manual feed language overrides, keyed by feed URL or bare domain.
# Format: domain = Language
#
# macitynet.it = Italian
`
