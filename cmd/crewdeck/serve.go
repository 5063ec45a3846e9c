package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crewdeck/crewdeck/internal/api"
	"github.com/crewdeck/crewdeck/internal/config"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API server",
	Long: `Run the Crewdeck REST API server.

Configuration comes from crewdeck.yaml (if present) and CREWDECK_*
environment variables; env vars win. The server shuts down gracefully
on SIGINT/SIGTERM and runs retention cleanup in the background.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(serveConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		server := api.New(store, cfg, logger)
		if err := server.Run(ctx); err != nil {
			return fmt.Errorf("server error: %w", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to YAML config file (default: crewdeck.yaml)")
}
