package unify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atelieapp/unify/internal/storage"
	"github.com/atelieapp/unify/internal/types"
)

// Executor performs approved unifications against the backing store and
// records each one in the history. It assumes a single caller at a time;
// concurrent invocations must be excluded externally (see storage.MergeLock).
type Executor struct {
	store storage.Storage
	rels  []types.Relationship
}

// NewExecutor creates an executor using the given dependent-record registry.
func NewExecutor(store storage.Storage, rels []types.Relationship) *Executor {
	return &Executor{store: store, rels: rels}
}

// Merge absorbs the given records into the principal: dependent foreign
// keys are reassigned to the principal, the absorbed records are deleted,
// and one unification event with full snapshots is appended. The store
// mutations are applied as a single transaction; on failure nothing is
// left partially applied.
func (e *Executor) Merge(ctx context.Context, kind types.Kind, principalID string, absorbedIDs []string) (*types.MergeResult, error) {
	if !kind.IsValid() || !kind.IsMergeable() {
		return nil, fmt.Errorf("kind %q is not mergeable: %w", kind, ErrInvalidInput)
	}
	if principalID == "" || len(absorbedIDs) == 0 {
		return nil, fmt.Errorf("principal and at least one absorbed id are required: %w", ErrInvalidInput)
	}
	for _, id := range absorbedIDs {
		if id == principalID {
			return nil, fmt.Errorf("record %s: %w", principalID, ErrConflictingSelection)
		}
	}

	principal, err := e.store.GetByID(ctx, kind, principalID)
	if err != nil {
		return nil, fmt.Errorf("failed to load principal: %w", err)
	}
	if principal == nil {
		return nil, fmt.Errorf("%s %s: %w", kind, principalID, ErrNotFound)
	}

	// Snapshot every absorbed record by value before anything is deleted;
	// undo restores from these copies, not from the live rows.
	absorbed := make([]*types.Record, 0, len(absorbedIDs))
	seen := make(map[string]bool, len(absorbedIDs))
	for _, id := range absorbedIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		rec, err := e.store.GetByID(ctx, kind, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load absorbed record %s: %w", id, err)
		}
		if rec == nil {
			return nil, fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
		}
		absorbed = append(absorbed, rec.Clone())
	}

	event := &types.UnificationEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		Principal: principal.Clone(),
		Absorbed:  absorbed,
		MergedAt:  time.Now(),
	}

	dependentsUpdated, err := e.store.ApplyUnification(ctx, event, e.rels)
	if err != nil {
		return nil, fmt.Errorf("failed to apply unification: %w", err)
	}

	return &types.MergeResult{
		EventID:           event.ID,
		PrincipalID:       principal.ID,
		Removed:           len(absorbed),
		DependentsUpdated: dependentsUpdated,
	}, nil
}

// MergeSuggestion executes an approved suggestion.
func (e *Executor) MergeSuggestion(ctx context.Context, kind types.Kind, s types.Suggestion) (*types.MergeResult, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid suggestion: %w", ErrInvalidInput)
	}

	absorbedIDs := make([]string, 0, len(s.Cluster.Candidates))
	for _, rec := range s.Cluster.Candidates {
		absorbedIDs = append(absorbedIDs, rec.ID)
	}
	return e.Merge(ctx, kind, s.Cluster.Principal.ID, absorbedIDs)
}

// Undo restores the absorbed records of a past unification from their
// snapshots and stamps the event as undone. Foreign keys reassigned by the
// original merge are NOT reverted; dependents keep pointing at the
// principal. That asymmetry is part of the product contract, surfaced in
// the CLI messaging, not something to repair here.
func (e *Executor) Undo(ctx context.Context, eventID string) (*types.UndoResult, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event id is required: %w", ErrInvalidInput)
	}

	event, err := e.store.GetUnification(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unification: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("unification %s: %w", eventID, ErrNotFound)
	}
	if event.Undone() {
		return nil, fmt.Errorf("unification %s: %w", eventID, ErrAlreadyUndone)
	}

	restored, err := e.store.ApplyUndo(ctx, eventID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to apply undo: %w", err)
	}

	return &types.UndoResult{
		EventID:  eventID,
		Restored: restored,
	}, nil
}
