package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/atelieapp/unify/internal/seed"
	"github.com/atelieapp/unify/internal/storage"
)

var initSeed bool

var initCmd = &cobra.Command{
	Use:   "init [project-name]",
	Short: "Initialize a unify project in the current directory",
	Long: `Initialize a unify project by creating a .unify/ directory with a database.

This creates:
  - .unify/ directory
  - .unify/<project-name>.db (SQLite database)
  - .unify/config.yaml (default threshold and comparison field)

If no project name is provided, the current directory name is used.

Example:
  cd ~/salon
  unify init                # Creates .unify/salon.db
  unify init atelie         # Creates .unify/atelie.db
  unify init --seed         # Initialize and load sample data`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectName := ""
		if len(args) > 0 {
			projectName = args[0]
		}

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}

		dbPath, err := storage.InitProject(cwd, projectName)
		if err != nil {
			return err
		}

		ctx := context.Background()
		db, err := storage.NewStorage(ctx, &storage.Config{Path: dbPath})
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s Initialized unify project\n\n", green("✓"))
		fmt.Printf("  Database: %s\n", cyan(dbPath))
		fmt.Printf("  Project root: %s\n", cyan(cwd))

		if initSeed {
			counts, err := seed.Load(ctx, db)
			if err != nil {
				return fmt.Errorf("failed to load sample data: %w", err)
			}
			total := 0
			for _, n := range counts {
				total += n
			}
			fmt.Printf("  Sample data: %s\n", cyan(fmt.Sprintf("%d records", total)))
		}

		fmt.Println()
		fmt.Printf("%s Next steps:\n", gray("→"))
		fmt.Printf("  %s\n", gray("unify suggest --kind client"))
		fmt.Printf("  %s\n", gray("unify suggest --kind service"))
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initSeed, "seed", false, "Load sample data after initialization")
}
