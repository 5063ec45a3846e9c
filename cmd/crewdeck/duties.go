package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/crewdeck/crewdeck/internal/duty"
	"github.com/crewdeck/crewdeck/internal/types"
)

var (
	dutiesFrom string
	dutiesTo   string
	dutiesKind string
)

var dutiesCmd = &cobra.Command{
	Use:   "duties",
	Short: "Show the duty roster for a date window",
	Long: `Show scheduled duties over a date window (default: the next 14 days).

Example:
  crewdeck duties
  crewdeck duties --from 2026-09-01 --to 2026-09-30 --kind oncall
  crewdeck duties gaps --kind oncall`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := dutiesWindow()
		if err != nil {
			return err
		}

		filter := types.DutyFilter{From: &from, To: &to}
		if dutiesKind != "" {
			kind := types.DutyKind(dutiesKind)
			if !kind.IsValid() {
				return fmt.Errorf("invalid kind: %s", dutiesKind)
			}
			filter.Kind = &kind
		}

		duties, err := store.ListDuties(context.Background(), filter)
		if err != nil {
			return fmt.Errorf("failed to list duties: %w", err)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s %s to %s\n\n", cyan("Duty roster"), from.Format("2006-01-02"), to.Format("2006-01-02"))
		if len(duties) == 0 {
			fmt.Printf("  %s\n\n", gray("No duties scheduled"))
			return nil
		}

		for _, d := range duties {
			name := d.MemberID
			if member, err := store.GetMember(context.Background(), d.MemberID); err == nil && member != nil {
				name = member.Name
			}
			fmt.Printf("  [%s] %s: %s to %s", d.Kind, name,
				d.StartDate.Format("2006-01-02"), d.EndDate.Format("2006-01-02"))
			if d.Note != "" {
				fmt.Printf("  %s", gray(d.Note))
			}
			fmt.Println()
		}
		fmt.Println()
		return nil
	},
}

var dutiesGapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Show days with no duty coverage in the window",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := dutiesWindow()
		if err != nil {
			return err
		}

		kind := types.DutyKind(dutiesKind)
		if dutiesKind == "" {
			kind = types.DutyOnCall
		}
		if !kind.IsValid() {
			return fmt.Errorf("invalid kind: %s", dutiesKind)
		}

		duties, err := store.ListDuties(context.Background(), types.DutyFilter{Kind: &kind, From: &from, To: &to})
		if err != nil {
			return fmt.Errorf("failed to list duties: %w", err)
		}

		gaps := duty.CoverageGaps(duties, from, to, kind)

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		if len(gaps) == 0 {
			fmt.Printf("\n%s Full %s coverage %s to %s\n\n", green("✓"), kind,
				from.Format("2006-01-02"), to.Format("2006-01-02"))
			return nil
		}

		fmt.Printf("\n%s %d days without %s coverage:\n\n", red("⚠"), len(gaps), kind)
		for _, g := range gaps {
			fmt.Printf("  %s\n", g.Format("2006-01-02 (Mon)"))
		}
		fmt.Println()
		return nil
	},
}

// dutiesWindow parses --from/--to, defaulting to today through two weeks out
func dutiesWindow() (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 14)

	var err error
	if dutiesFrom != "" {
		from, err = time.ParseInLocation("2006-01-02", dutiesFrom, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: expected YYYY-MM-DD, got %s", dutiesFrom)
		}
	}
	if dutiesTo != "" {
		to, err = time.ParseInLocation("2006-01-02", dutiesTo, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to: expected YYYY-MM-DD, got %s", dutiesTo)
		}
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to is before --from")
	}
	return from, to, nil
}

func init() {
	rootCmd.AddCommand(dutiesCmd)
	dutiesCmd.AddCommand(dutiesGapsCmd)
	dutiesCmd.PersistentFlags().StringVar(&dutiesFrom, "from", "", "Window start (YYYY-MM-DD, default: today)")
	dutiesCmd.PersistentFlags().StringVar(&dutiesTo, "to", "", "Window end (YYYY-MM-DD, default: +14 days)")
	dutiesCmd.PersistentFlags().StringVar(&dutiesKind, "kind", "", "Duty kind: oncall or devops")
}
