package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"feedsanity/internal/config"
	"feedsanity/internal/logging"
	"feedsanity/internal/server"
	pkgconfig "feedsanity/pkg/config"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App is the assembled application surface the commands drive. It is an
// interface so tests can inject a fake through the newApp factory.
type App interface {
	RunDigest(ctx context.Context, out io.Writer) error
	ClassifyFeeds(ctx context.Context, out io.Writer) error
	Serve(ctx context.Context) error
	Close(ctx context.Context) error
	Logger() *zap.Logger
}

// newApp is the application factory. It's a variable so tests can
// replace it with a mock factory.
var newApp = func(ctx context.Context) (App, error) {
	cfg, err := config.FromGlobal()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return server.Build(ctx, cfg)
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedsanity",
		Short: "Turn your RSS subscriptions into a daily HTML digest",
		Long: `feedsanity reads a list of RSS/Atom subscriptions, sorts each feed
into comics or news, downloads the day's strips, summarizes fresh
articles with a local or cloud AI model, and renders everything into a
single dated HTML page.`,
		SilenceUsage:  true,
		SilenceErrors: true,

		// Runs after config loads and before the subcommand's RunE: the
		// place to build and inject the application. Commands that only
		// touch local files skip the build.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "run", "classify", "serve":
			default:
				return nil
			}
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				if err := appInstance.Close(cmd.Context()); err != nil {
					logging.L.Warn("shutdown error", zap.Error(err))
				}
			}
		},
	}

	cobra.OnInitialize(func() { pkgconfig.InitConfig(cfgFile) })

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default searches ., /etc/feedsanity, $HOME/.feedsanity)")
	flags.String("feeds", "", "feed list file, one URL per line")
	flags.String("output", "", "directory for dated digest folders")
	flags.Bool("all-entries", false, "summarize every news entry instead of the last 24h")
	flags.Bool("validate-images", false, "decode comic images and reject undersized ones")
	flags.String("ai-provider", "", "AI provider: ollama, lm_studio, openai, gemini or claude")
	flags.Bool("debug", false, "enable debug logging")

	bindFlag("feeds.file", flags.Lookup("feeds"))
	bindFlag("output.dir", flags.Lookup("output"))
	bindFlag("feeds.all_entries", flags.Lookup("all-entries"))
	bindFlag("images.validate", flags.Lookup("validate-images"))
	bindFlag("ai.provider", flags.Lookup("ai-provider"))
	bindFlag("debug", flags.Lookup("debug"))

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newClassifyCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newInitCmd())

	return cmd
}

func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logging.L.Warn("flag binding failed", zap.String("key", key), zap.Error(err))
	}
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// Execute is the main entry point.
func Execute() {
	if err := logging.InitLogger(); err != nil {
		fmt.Fprintln(os.Stderr, "logger bootstrap failed:", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		logging.L.Fatal("command failed", zap.Error(err))
	}
}
