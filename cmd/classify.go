package cmd

import (
	"github.com/spf13/cobra"
)

// newClassifyCmd creates the 'classify' subcommand. It resolves every
// subscribed feed's type and language without downloading anything,
// which is the quickest way to sanity-check overrides and the cache.
func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Show how each feed resolves to comic/news and a language",
		RunE:  runClassifyCommand,
	}
}

func runClassifyCommand(cmd *cobra.Command, _ []string) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	return appInstance.ClassifyFeeds(cmd.Context(), cmd.OutOrStdout())
}
