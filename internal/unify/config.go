package unify

import (
	"fmt"
	"os"
	"strconv"

	"github.com/atelieapp/unify/internal/types"
)

// Config holds configuration for the unification engine
type Config struct {
	// Threshold is the minimum composite score (0-100) for two records to
	// be treated as merge candidates.
	// Higher values = fewer, safer suggestions
	// Lower values = more suggestions, more false positives
	// Default: 75
	Threshold int

	// ComparisonField is the record field compared during clustering and
	// term search. Records of every mergeable kind carry it.
	// Default: "name"
	ComparisonField string

	// Relationships declares which dependent collections reference merged
	// records by foreign key, so the executor knows what to rewrite.
	Relationships []types.Relationship
}

// DefaultConfig returns the default engine configuration
//
// The 75 threshold keeps casing/accent variants and one-letter typos in
// while keeping genuinely different short names out.
func DefaultConfig() Config {
	return Config{
		Threshold:       75,
		ComparisonField: "name",
		Relationships:   types.DefaultRelationships(),
	}
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 100 {
		return fmt.Errorf("threshold must be between 0 and 100 (got %d)", c.Threshold)
	}
	if c.ComparisonField == "" {
		return fmt.Errorf("comparison_field is required")
	}
	for i, rel := range c.Relationships {
		if !rel.Kind.IsValid() || !rel.DependentKind.IsValid() {
			return fmt.Errorf("relationship %d has an invalid kind", i)
		}
		if rel.ForeignField == "" {
			return fmt.Errorf("relationship %d is missing a foreign field", i)
		}
	}
	return nil
}

// String returns a human-readable representation of the config
func (c Config) String() string {
	return fmt.Sprintf("Config{Threshold: %d, Field: %s, Relationships: %d}",
		c.Threshold, c.ComparisonField, len(c.Relationships))
}

// ConfigFromEnv creates a Config from environment variables, falling back
// to defaults
//
// Environment variables:
//   - UNIFY_THRESHOLD: Minimum composite score (0-100) for merge candidacy (default: 75)
//   - UNIFY_COMPARISON_FIELD: Record field to compare (default: "name")
//
// Returns an error if any environment variable has an invalid value.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if err := parseEnvInt("UNIFY_THRESHOLD", &cfg.Threshold); err != nil {
		return cfg, err
	}
	if v := os.Getenv("UNIFY_COMPARISON_FIELD"); v != "" {
		cfg.ComparisonField = v
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration from environment: %w", err)
	}

	return cfg, nil
}

// parseEnvInt parses an int from an environment variable
func parseEnvInt(key string, dest *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}
