// Package cmd defines and implements the CLI commands for the
// feedsanity executable.
package cmd

import (
	"github.com/spf13/cobra"
)

// newRunCmd creates the 'run' subcommand, the default daily operation:
// fetch every subscribed feed, download comics, summarize news, and
// write the dated digest page.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Fetch all feeds and build today's digest",
		Long: `Loads the feed list, classifies each feed as comics or news,
downloads the day's strips, summarizes fresh articles, and renders a
single dated HTML digest. Prints a per-feed outcome table when done.`,
		RunE: runDigestCommand,
	}
}

func runDigestCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	return appInstance.RunDigest(cmd.Context(), cmd.OutOrStdout())
}
