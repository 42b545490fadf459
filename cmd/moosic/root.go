package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"karolbroda.com/moosic/internal/catalog"
	"karolbroda.com/moosic/internal/config"
	"karolbroda.com/moosic/internal/logging"
	"karolbroda.com/moosic/internal/terminal"
)

var version = "1.0.0"

var (
	// global flags
	tokenFile     string
	downloadDir   string
	apiURL        string
	logLevel      string
	noInteractive bool
)

var rootCmd = &cobra.Command{
	Use:   "moosic",
	Short: "terminal client for vk music",
	Long: `moosic is a terminal client for vk music. it lists your tracks, friends'
tracks, playlists, search results and recommendations, and plays or downloads them.

when run without a subcommand, it opens the interactive menu.`,
	Version:           version,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd.Context())
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", "", "path of the token file (default vk_token.txt)")
	rootCmd.PersistentFlags().StringVarP(&downloadDir, "download-dir", "o", "", "directory for downloaded tracks")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "custom api base url")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&noInteractive, "no-interactive", false, "print plain tables instead of the track browser")
}

// setup loads configuration from the environment, then lets flags override
// it, and builds the shared client state.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("token-file") {
		cfg.TokenFile = tokenFile
	}
	if flags.Changed("download-dir") {
		cfg.DownloadDir = downloadDir
	}
	if flags.Changed("api-url") {
		cfg.APIURL = apiURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	logging.Setup(cfg.LogLevel, os.Stderr)

	client, err := catalog.New(catalog.Options{
		BaseURL:   cfg.APIURL,
		Version:   cfg.APIVersion,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.HTTPTimeout,
	})
	if err != nil {
		return err
	}

	state = &app{
		cfg:         cfg,
		client:      client,
		interactive: !noInteractive && terminal.IsInteractive(),
	}
	return nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if state != nil {
		state.close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if hint := catalog.Hint(err); hint != "" {
			fmt.Fprintln(os.Stderr, "hint:", hint)
		}
		stop()
		os.Exit(1)
	}
}
