// Package main provides the summarizer CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sheetwise/summarizer/bootstrap"
	"github.com/sheetwise/summarizer/config"
	"github.com/sheetwise/summarizer/server"
	"github.com/sheetwise/summarizer/storage"
	"github.com/sheetwise/summarizer/summarize"
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	rootCmd := &cobra.Command{
		Use:   "summarizer",
		Short: "Provision the add-in toolchain and run the summarization service",
		Long: `summarizer bootstraps a portable Node.js toolchain, installs the add-in
dependencies, then launches and supervises the summarization HTTP service
alongside the add-in dev server.

Two commands:
- up: provision the toolchain and supervise both processes
- serve: run only the summarization HTTP service`,
	}

	rootCmd.AddCommand(upCmd(logger))
	rootCmd.AddCommand(serveCmd(logger))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func upCmd(logger zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Provision the toolchain, install dependencies, and supervise the services",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}

			primary, err := primarySpec(cfg.Bootstrap)
			if err != nil {
				return err
			}

			opts := bootstrap.Options{
				InstallRoot:      cfg.Bootstrap.InstallRoot,
				ProjectRoot:      cfg.Bootstrap.ProjectRoot,
				AddinDir:         cfg.Bootstrap.AddinDir,
				NodeVersion:      cfg.Bootstrap.NodeVersion,
				InstallAttempts:  cfg.Bootstrap.InstallAttempts,
				InstallDelay:     cfg.Bootstrap.InstallDelay,
				SecondaryTimeout: cfg.Bootstrap.SecondaryTimeout,
				Primary:          primary,
			}
			return bootstrap.Run(context.Background(), opts, logger)
		},
	}
}

func serveCmd(logger zerolog.Logger) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the summarization HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			creds := config.LoadCredentials(cfg.Server.CredentialsPath, logger)

			var history *storage.HistoryStore
			if cfg.Server.HistoryDBPath != "" {
				history, err = storage.OpenHistory(cfg.Server.HistoryDBPath)
				if err != nil {
					// History is an accessory; the service must still start.
					logger.Warn().Err(err).Msg("summary history disabled")
					history = nil
				} else {
					defer history.Close()
				}
			}

			svc := summarize.NewService(creds, history, logger)
			return server.New(svc, history, logger).Run(cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides SUMMARIZER_ADDR)")
	return cmd
}

// primarySpec resolves the primary service child. With no configured entry
// the current binary is re-exec'd with "serve" so a single artifact covers
// both the orchestrator and the service.
func primarySpec(cfg config.BootstrapConfig) (bootstrap.ProcessSpec, error) {
	if cfg.PrimaryEntry != "" {
		return bootstrap.ProcessSpec{Path: cfg.PrimaryEntry, Dir: cfg.ProjectRoot}, nil
	}

	self, err := os.Executable()
	if err != nil {
		return bootstrap.ProcessSpec{}, fmt.Errorf("resolve current executable: %w", err)
	}
	return bootstrap.ProcessSpec{
		Path: self,
		Args: []string{"serve"},
		Dir:  cfg.ProjectRoot,
	}, nil
}
