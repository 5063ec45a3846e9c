package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/crewdeck/crewdeck/internal/config"
)

var cleanupConfigPath string

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete old notifications and audit events",
	Long: `Enforce retention policy: delete read notifications and audit events
older than the configured retention windows.

Retention comes from crewdeck.yaml and CREWDECK_* environment variables
(CREWDECK_NOTIFICATION_RETENTION_DAYS, CREWDECK_EVENT_RETENTION_DAYS).
The serve command runs the same cleanup on a background ticker; this
command is for cron jobs and one-off maintenance.

Examples:
  crewdeck cleanup
  CREWDECK_EVENT_RETENTION_DAYS=30 crewdeck cleanup`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(cleanupConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
			os.Exit(1)
		}
		retention := cfg.Retention

		fmt.Printf("Retention policy:\n")
		fmt.Printf("  Read notifications: %d days\n", retention.NotificationDays)
		fmt.Printf("  Audit events: %d days\n", retention.EventDays)
		fmt.Println()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		start := time.Now()

		notifDeleted, err := store.CleanupNotificationsByAge(ctx, retention.NotificationDays)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: notification cleanup failed: %v\n", err)
			os.Exit(1)
		}

		eventsDeleted, err := store.CleanupEventsByAge(ctx, retention.EventDays)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: event cleanup failed: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Cleanup complete\n", green("✓"))
		fmt.Printf("  Notifications deleted: %d\n", notifDeleted)
		fmt.Printf("  Events deleted: %d\n", eventsDeleted)
		fmt.Printf("  Time taken: %s\n", time.Since(start).Round(time.Millisecond))
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.Flags().StringVar(&cleanupConfigPath, "config", "", "Path to YAML config file (default: crewdeck.yaml)")
}
