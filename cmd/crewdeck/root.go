package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/crewdeck/crewdeck/internal/storage"
)

var (
	dbPath string
	actor  string
	store  storage.Storage
)

var rootCmd = &cobra.Command{
	Use:   "crewdeck",
	Short: "Crewdeck - people and engineering management",
	Long: `Crewdeck tracks tasks, team members, duty schedules, goals, KPIs,
and notifications, backed by a local SQLite database.

Run 'crewdeck init' in a project directory to get started, then
'crewdeck serve' to start the REST API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init creates the database itself; everything else opens it
		if cmd.Name() == "init" || cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		path := dbPath
		if path == "" {
			path = findDatabase()
		}
		if path == "" {
			return fmt.Errorf("no database found; run 'crewdeck init' or pass --db")
		}

		var err error
		store, err = storage.NewStorage(context.Background(), &storage.Config{Path: path})
		if err != nil {
			return fmt.Errorf("failed to open database %s: %w", path, err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
		}
	},
}

// findDatabase looks for a .crewdeck directory here and in parent
// directories, so subcommands work from anywhere inside a project
func findDatabase() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ".crewdeck", "crewdeck.db")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database (default: nearest .crewdeck/crewdeck.db)")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "cli", "Actor name recorded in the audit trail")
}
