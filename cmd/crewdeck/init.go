package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/crewdeck/crewdeck/internal/storage"
)

var initCmd = &cobra.Command{
	Use:   "init [project-name]",
	Short: "Initialize a Crewdeck database in the current directory",
	Long: `Initialize Crewdeck by creating a .crewdeck/ directory with a database.

This creates:
  - .crewdeck/ directory
  - .crewdeck/<project-name>.db (SQLite database)

If no project name is provided, the database is named crewdeck.db.

Example:
  cd ~/myteam
  crewdeck init           # Creates .crewdeck/crewdeck.db
  crewdeck init platform  # Creates .crewdeck/platform.db`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectName := ""
		if len(args) > 0 {
			projectName = args[0]
		}

		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to get current directory: %v\n", err)
			os.Exit(1)
		}

		path, err := storage.InitProject(cwd, projectName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		// Open once to create the schema
		db, err := storage.NewStorage(context.Background(), &storage.Config{Path: path})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to initialize database: %v\n", err)
			os.Exit(1)
		}
		_ = db.Close()

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s Initialized Crewdeck\n\n", green("✓"))
		fmt.Printf("  Database: %s\n", cyan(path))
		fmt.Println()
		fmt.Printf("%s Next steps:\n", gray("→"))
		fmt.Printf("  %s\n", gray("crewdeck serve    # Run the REST API"))
		fmt.Printf("  %s\n", gray("crewdeck status   # Show store statistics"))
		fmt.Printf("  %s\n", gray("crewdeck assist   # Talk to the AI assistant"))
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
