package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atelieapp/unify/internal/suggest"
	"github.com/atelieapp/unify/internal/types"
)

var (
	suggestKind      string
	suggestField     string
	suggestThreshold int
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Generate merge suggestions for duplicate records",
	Long: `Scan records of a kind, cluster near-duplicates by the comparison field,
and print pending merge suggestions with their confidence.

Nothing is merged by this command. Review the output and run 'unify merge'
with the ids you want unified.

Example:
  unify suggest --kind client
  unify suggest --kind service --threshold 85
  unify suggest --kind client --field name --threshold 70`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		kind := types.Kind(suggestKind)
		if !kind.IsValid() || !kind.IsMergeable() {
			return fmt.Errorf("--kind must be %q or %q", types.KindClient, types.KindService)
		}

		field := suggestField
		if field == "" {
			field = engine.Config().ComparisonField
		}
		threshold := suggestThreshold
		if !cmd.Flags().Changed("threshold") {
			threshold = engine.Config().Threshold
		}

		suggestions, err := engine.GenerateSuggestions(ctx, kind, field, threshold)
		if err != nil {
			return err
		}

		fmt.Printf("\n%s\n\n", bold(fmt.Sprintf("Merge suggestions for %s (field %q, threshold %d)", kind, field, threshold)))

		if len(suggestions) == 0 {
			fmt.Printf("  %s\n\n", gray("No duplicates found"))
			return nil
		}

		stats := suggest.Tally(suggestions)
		fmt.Printf("  %d suggestion(s): %s %d  %s %d  %s %d\n\n",
			stats.Total, green("high"), stats.High, yellow("medium"), stats.Medium, red("low"), stats.Low)

		for _, s := range suggestions {
			fmt.Printf("%s  %s\n", cyan(s.ID), confidenceBadge(s.Confidence))
			fmt.Printf("  keep:   %s\n", recordLabel(s.Cluster.Principal, field))
			for i, cand := range s.Cluster.Candidates {
				fmt.Printf("  absorb: %s  %s\n", recordLabel(cand, field), scoreColor(s.Cluster.Metrics[i].Score))
			}
			fmt.Println()
		}

		fmt.Printf("%s unify merge --kind %s --principal <id> --absorb <id>[,<id>...]\n\n", gray("→"), kind)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.Flags().StringVar(&suggestKind, "kind", "", "Record kind: client or service (required)")
	suggestCmd.Flags().StringVar(&suggestField, "field", "", "Field to compare (default: project comparison field)")
	suggestCmd.Flags().IntVar(&suggestThreshold, "threshold", 75, "Minimum composite score (0-100)")
	_ = suggestCmd.MarkFlagRequired("kind")
}
