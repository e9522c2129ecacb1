package storage

import (
	"context"
	"time"

	"github.com/atelieapp/unify/internal/storage/sqlite"
	"github.com/atelieapp/unify/internal/types"
)

// ErrAlreadyUndone is returned when an undo targets a unification whose
// undo timestamp is already set.
var ErrAlreadyUndone = sqlite.ErrAlreadyUndone

// Storage defines the backing-store contract the engine consumes: per-kind
// record CRUD, dependent lookup, and the append-only unification history.
//
// Reads return (nil, nil) when the requested row does not exist; callers
// decide whether absence is an error.
//
// ApplyUnification and ApplyUndo are the engine's two multi-step mutations.
// Implementations must make each one atomic: if any write step fails, no
// earlier step in the same call may remain applied.
type Storage interface {
	// Records
	GetAll(ctx context.Context, kind types.Kind) ([]*types.Record, error)
	GetByID(ctx context.Context, kind types.Kind, id string) (*types.Record, error)
	AddRecord(ctx context.Context, kind types.Kind, rec *types.Record) (*types.Record, error)
	UpdateRecord(ctx context.Context, kind types.Kind, rec *types.Record) (*types.Record, error)
	DeleteRecord(ctx context.Context, kind types.Kind, id string) (bool, error)

	// Dependents
	FindDependents(ctx context.Context, kind types.Kind, foreignField, id string) ([]*types.Record, error)

	// Unification history (append-only; events are never deleted)
	ApplyUnification(ctx context.Context, event *types.UnificationEvent, rels []types.Relationship) (int, error)
	ApplyUndo(ctx context.Context, eventID string, undoneAt time.Time) (int, error)
	GetUnification(ctx context.Context, id string) (*types.UnificationEvent, error)
	ListUnifications(ctx context.Context, kind types.Kind) ([]*types.UnificationEvent, error)

	// Lifecycle
	Close() error
}

// Config holds database configuration
type Config struct {
	// Path is the SQLite database file path
	// Default: ".unify/unify.db"
	// Special value ":memory:" creates an in-memory database (useful for tests)
	Path string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Path: ".unify/unify.db",
	}
}

// NewStorage creates a new SQLite storage backend.
// The ctx parameter is currently unused but kept for API consistency.
func NewStorage(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Path == "" {
		cfg.Path = ".unify/unify.db"
	}

	return sqlite.New(cfg.Path)
}
