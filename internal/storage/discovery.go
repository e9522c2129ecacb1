package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DiscoverDatabase looks for .unify/*.db in the current directory only.
// Returns the absolute path to the database file, or an error if not found.
//
// The UNIFY_DB_PATH environment variable takes precedence to allow test
// isolation and explicit overrides; special values like ":memory:" pass
// through unchanged.
func DiscoverDatabase() (string, error) {
	if dbPath := os.Getenv("UNIFY_DB_PATH"); dbPath != "" {
		return dbPath, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return discoverDatabaseInDir(dir)
}

// discoverDatabaseInDir checks for .unify/*.db in the specified directory
// only. Parent directories are never searched: a nested project must not
// silently pick up an enclosing project's database.
func discoverDatabaseInDir(dir string) (string, error) {
	unifyDir := filepath.Join(dir, ".unify")

	if info, err := os.Stat(unifyDir); err == nil && info.IsDir() {
		entries, err := os.ReadDir(unifyDir)
		if err == nil {
			for _, entry := range entries {
				if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".db") {
					dbPath := filepath.Join(unifyDir, entry.Name())
					absPath, err := filepath.Abs(dbPath)
					if err != nil {
						return "", fmt.Errorf("failed to get absolute path: %w", err)
					}
					return absPath, nil
				}
			}
		}
	}

	return "", fmt.Errorf(
		"no .unify/*.db found in %s\n"+
			"  Run 'unify init' to initialize a project in this directory\n"+
			"  Or use --db flag to specify database path explicitly",
		dir)
}

// GetProjectRoot returns the directory containing the .unify directory for
// a database path.
func GetProjectRoot(dbPath string) (string, error) {
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve database path: %w", err)
	}

	unifyDir := filepath.Dir(abs)
	if filepath.Base(unifyDir) != ".unify" {
		return "", fmt.Errorf("database %s is not inside a .unify directory", dbPath)
	}

	return filepath.Dir(unifyDir), nil
}
