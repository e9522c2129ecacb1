package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atelieapp/unify/internal/types"
)

var historyKind string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past merges, newest first",
	Long: `List recorded unification events. Each entry shows the surviving record,
what was absorbed, how many appointments were re-pointed, and whether the
merge has been undone.

Example:
  unify history
  unify history --kind client`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		kind := types.Kind(historyKind)
		if historyKind != "" && !kind.IsValid() {
			return fmt.Errorf("unknown kind %q", historyKind)
		}

		events, err := engine.History(ctx, kind)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			fmt.Printf("\n%s No merges recorded\n\n", gray("○"))
			return nil
		}

		field := engine.Config().ComparisonField
		fmt.Printf("\n%s\n\n", bold(fmt.Sprintf("Merge history (%d event(s))", len(events))))

		// Newest first for display; storage returns insertion order.
		for i := len(events) - 1; i >= 0; i-- {
			e := events[i]

			badge := green("✓ merged")
			if e.Undone() {
				badge = gray("↩ undone " + e.UndoneAt.Format("2006-01-02 15:04"))
			}
			fmt.Printf("%s  %s  %s  %s\n", cyan(e.ID), e.Kind, e.MergedAt.Format("2006-01-02 15:04"), badge)
			fmt.Printf("  kept:     %s\n", recordLabel(e.Principal, field))
			for _, a := range e.Absorbed {
				fmt.Printf("  absorbed: %s\n", recordLabel(a, field))
			}
			if e.DependentsUpdated > 0 {
				fmt.Printf("  %s\n", gray(fmt.Sprintf("%d appointment(s) re-pointed", e.DependentsUpdated)))
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyKind, "kind", "", "Filter by record kind (default: all)")
}
