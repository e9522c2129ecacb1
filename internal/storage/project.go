package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig is the per-project configuration stored next to the
// database in .unify/config.yaml. Values here are defaults; CLI flags and
// environment variables override them.
type ProjectConfig struct {
	Project          string `yaml:"project"`
	DefaultThreshold int    `yaml:"default_threshold"`
	ComparisonField  string `yaml:"comparison_field"`
}

// DefaultProjectConfig returns the config written by InitProject.
func DefaultProjectConfig(project string) ProjectConfig {
	return ProjectConfig{
		Project:          project,
		DefaultThreshold: 75,
		ComparisonField:  "name",
	}
}

// InitProject creates the .unify directory, an empty database file path, and
// a config.yaml. If projectName is empty the directory name is used.
// Returns the database path.
func InitProject(dir, projectName string) (string, error) {
	if projectName == "" {
		projectName = filepath.Base(dir)
	}

	unifyDir := filepath.Join(dir, ".unify")
	if err := os.MkdirAll(unifyDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create .unify directory: %w", err)
	}

	dbPath := filepath.Join(unifyDir, projectName+".db")

	configPath := filepath.Join(unifyDir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultProjectConfig(projectName)
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return "", fmt.Errorf("failed to marshal project config: %w", err)
		}
		if err := os.WriteFile(configPath, data, 0644); err != nil {
			return "", fmt.Errorf("failed to write project config: %w", err)
		}
	}

	return dbPath, nil
}

// LoadProjectConfig reads .unify/config.yaml for the project owning the
// database. Missing file or fields fall back to defaults rather than error:
// an older project without a config is still usable.
func LoadProjectConfig(dbPath string) (ProjectConfig, error) {
	cfg := DefaultProjectConfig("")

	root, err := GetProjectRoot(dbPath)
	if err != nil {
		// Not a .unify-managed path (e.g. ":memory:"); defaults apply
		return cfg, nil
	}

	configPath := filepath.Join(root, ".unify", "config.yaml")
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read project config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse project config: %w", err)
	}
	if cfg.DefaultThreshold == 0 {
		cfg.DefaultThreshold = 75
	}
	if cfg.ComparisonField == "" {
		cfg.ComparisonField = "name"
	}

	return cfg, nil
}
