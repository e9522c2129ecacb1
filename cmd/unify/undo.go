package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atelieapp/unify/internal/storage"
	"github.com/atelieapp/unify/internal/unify"
)

var undoCmd = &cobra.Command{
	Use:   "undo <event-id>",
	Short: "Undo a past merge",
	Long: `Restore the records deleted by a merge, using the snapshots recorded in
history. Appointments that were re-pointed at the principal stay with the
principal; only the deleted records come back.

Find event ids with 'unify history'.

Example:
  unify undo 4f1c2a7e-...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		eventID := args[0]

		lockPath, err := storage.AcquireMergeLock(resolvedDBPath)
		if err != nil {
			return err
		}
		defer storage.ReleaseMergeLock(lockPath)

		result, err := engine.Undo(ctx, eventID)
		if err != nil {
			switch {
			case errors.Is(err, unify.ErrNotFound):
				return fmt.Errorf("no merge event with id %s", eventID)
			case errors.Is(err, unify.ErrAlreadyUndone):
				return fmt.Errorf("event %s was already undone", eventID)
			default:
				return err
			}
		}

		fmt.Printf("\n%s Restored %d record(s) from event %s\n", green("✓"), result.Restored, cyan(result.EventID))
		fmt.Printf("  %s\n\n", gray("Appointments moved by the merge stay with the principal"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(undoCmd)
}
