package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/crewdeck/crewdeck/internal/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store statistics and who is on call",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()

		stats, err := store.GetStatistics(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to get statistics: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\n%s\n\n", cyan("=== Crewdeck Status ==="))

		fmt.Printf("%s\n", yellow("Tasks:"))
		fmt.Printf("  Total: %d (%d sync items)\n", stats.TotalTasks, stats.SyncItems)
		fmt.Printf("  Open: %d  In progress: %d  Blocked: %d  Done: %d\n",
			stats.OpenTasks, stats.InProgressTasks, stats.BlockedTasks, stats.DoneTasks)
		fmt.Println()

		fmt.Printf("%s\n", yellow("Team:"))
		fmt.Printf("  Active members: %d\n", stats.ActiveMembers)
		fmt.Printf("  Active goals: %d\n", stats.ActiveGoals)
		fmt.Printf("  Unread notifications: %d\n", stats.UnreadNotifications)
		fmt.Println()

		// Current on-call: duties covering today
		today := time.Now().UTC()
		kind := types.DutyOnCall
		duties, err := store.ListDuties(ctx, types.DutyFilter{Kind: &kind, From: &today, To: &today})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to list duties: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%s\n", yellow("On call today:"))
		if len(duties) == 0 {
			fmt.Printf("  %s\n", gray("Nobody scheduled"))
		} else {
			for _, d := range duties {
				name := d.MemberID
				if member, err := store.GetMember(ctx, d.MemberID); err == nil && member != nil {
					name = member.Name
				}
				fmt.Printf("  %s %s (until %s)\n", green("●"), name, d.EndDate.Format("2006-01-02"))
			}
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
