package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crewdeck/crewdeck/internal/assist"
)

var assistCmd = &cobra.Command{
	Use:   "assist",
	Short: "Start the interactive AI assistant",
	Long: `Start an interactive assistant shell.

The assistant answers plain-language requests by calling tools over the
store: creating tasks, scheduling duties (with conflict checks), tracking
goals, and summarizing KPI trends.

Requires ANTHROPIC_API_KEY in the environment.

Type 'help' in the shell for built-in commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		r, err := assist.NewREPL(store)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create assistant: %v\n", err)
			os.Exit(1)
		}

		if err := r.Run(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(assistCmd)
}
