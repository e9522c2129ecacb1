package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atelieapp/unify/internal/types"
)

var (
	checkKind      string
	checkThreshold int
)

var checkCmd = &cobra.Command{
	Use:   "check <term>",
	Short: "Check whether a name already exists before creating it",
	Long: `Score a term against every record of a kind and list likely matches,
best first. Run this before registering a new client or service to avoid
creating yet another duplicate.

Example:
  unify check "Maria Silva" --kind client
  unify check consulta --kind service --threshold 85`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		term := args[0]

		kind := types.Kind(checkKind)
		if !kind.IsValid() || !kind.IsMergeable() {
			return fmt.Errorf("--kind must be %q or %q", types.KindClient, types.KindService)
		}

		threshold := checkThreshold
		if !cmd.Flags().Changed("threshold") {
			threshold = engine.Config().Threshold
		}

		matches, err := engine.FindSimilar(ctx, kind, term, threshold)
		if err != nil {
			return err
		}

		if len(matches) == 0 {
			fmt.Printf("\n%s No existing %s looks like %q\n\n", green("✓"), kind, term)
			return nil
		}

		fmt.Printf("\n%s %d existing %s record(s) look like %q:\n\n", yellow("⚠"), len(matches), kind, term)
		for _, m := range matches {
			fmt.Printf("  %s  %s  %s\n",
				scoreColor(m.Metrics.Score),
				recordLabel(m.Record, engine.Config().ComparisonField),
				confidenceBadge(m.Metrics.Confidence))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkKind, "kind", "", "Record kind: client or service (required)")
	checkCmd.Flags().IntVar(&checkThreshold, "threshold", 75, "Minimum composite score (0-100)")
	_ = checkCmd.MarkFlagRequired("kind")
}
