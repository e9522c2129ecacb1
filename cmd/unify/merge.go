package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atelieapp/unify/internal/storage"
	"github.com/atelieapp/unify/internal/types"
	"github.com/atelieapp/unify/internal/unify"
)

var (
	mergeKind      string
	mergePrincipal string
	mergeAbsorb    []string
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge duplicate records into a principal",
	Long: `Merge one or more duplicate records into a principal record.

The absorbed records are deleted, their appointments are re-pointed at the
principal, and the merge is recorded in history so it can be undone with
'unify undo'.

Example:
  unify merge --kind client --principal c1 --absorb c2
  unify merge --kind service --principal s1 --absorb s2,s3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		kind := types.Kind(mergeKind)
		if !kind.IsValid() || !kind.IsMergeable() {
			return fmt.Errorf("--kind must be %q or %q", types.KindClient, types.KindService)
		}

		lockPath, err := storage.AcquireMergeLock(resolvedDBPath)
		if err != nil {
			return err
		}
		defer storage.ReleaseMergeLock(lockPath)

		result, err := engine.Merge(ctx, kind, mergePrincipal, mergeAbsorb)
		if err != nil {
			switch {
			case errors.Is(err, unify.ErrNotFound):
				return fmt.Errorf("record not found: %w", err)
			case errors.Is(err, unify.ErrConflictingSelection):
				return fmt.Errorf("the principal cannot also be absorbed")
			default:
				return err
			}
		}

		fmt.Printf("\n%s Merged %d record(s) into %s\n", green("✓"), result.Removed, cyan(result.PrincipalID))
		if result.DependentsUpdated > 0 {
			fmt.Printf("  %d appointment(s) re-pointed at the principal\n", result.DependentsUpdated)
		}
		fmt.Printf("  Event: %s\n", gray(result.EventID))
		fmt.Printf("\n%s unify undo %s  # if this was a mistake\n\n", gray("→"), result.EventID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)
	mergeCmd.Flags().StringVar(&mergeKind, "kind", "", "Record kind: client or service (required)")
	mergeCmd.Flags().StringVar(&mergePrincipal, "principal", "", "Id of the record to keep (required)")
	mergeCmd.Flags().StringSliceVar(&mergeAbsorb, "absorb", nil, "Comma-separated ids to merge into the principal (required)")
	_ = mergeCmd.MarkFlagRequired("kind")
	_ = mergeCmd.MarkFlagRequired("principal")
	_ = mergeCmd.MarkFlagRequired("absorb")
}
