package unify

import (
	"errors"

	"github.com/atelieapp/unify/internal/storage"
)

// Engine failure taxonomy. Every merge/undo failure wraps one of these so
// callers can branch with errors.Is; the CLI owns user-facing wording.
var (
	// ErrInvalidInput covers malformed requests: blank kind or field,
	// threshold outside [0, 100], empty absorbed set.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means the principal, an absorbed record, or a history
	// event does not exist. Nothing was mutated.
	ErrNotFound = errors.New("not found")

	// ErrConflictingSelection means the principal id appears in its own
	// absorbed set. Nothing was mutated.
	ErrConflictingSelection = errors.New("principal cannot be in its own absorbed set")

	// ErrAlreadyUndone means undo was requested twice for the same event.
	ErrAlreadyUndone = storage.ErrAlreadyUndone
)
