// Package unify is the record-deduplication and reversible-merge engine. It
// detects near-duplicate entries caused by typos, casing, or accent
// variation, proposes merge candidates ranked by confidence, executes
// approved merges while keeping dependent records pointed at a surviving
// principal, and keeps an undo-capable history of every merge performed.
//
// Suggestion generation is read-only and idempotent: it can be repeated at
// any time and is never persisted. Merges and undos mutate the store and
// are recorded in the append-only unification history.
package unify

import (
	"context"
	"fmt"

	"github.com/atelieapp/unify/internal/cluster"
	"github.com/atelieapp/unify/internal/storage"
	"github.com/atelieapp/unify/internal/suggest"
	"github.com/atelieapp/unify/internal/types"
)

// Engine is the surface the UI layer drives: generate, approve/reject,
// history, undo.
type Engine struct {
	store    storage.Storage
	cfg      Config
	executor *Executor
}

// NewEngine creates an engine over a backing store.
func NewEngine(store storage.Storage, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	return &Engine{
		store:    store,
		cfg:      cfg,
		executor: NewExecutor(store, cfg.Relationships),
	}, nil
}

// GenerateSuggestions clusters all records of a kind and returns pending
// merge suggestions. Invalid input (unmergeable kind, blank field, threshold
// outside [0, 100]) yields an empty result without touching the store for
// writes; store read errors propagate.
func (e *Engine) GenerateSuggestions(ctx context.Context, kind types.Kind, field string, threshold int) ([]types.Suggestion, error) {
	if !kind.IsValid() || !kind.IsMergeable() || field == "" || threshold < 0 || threshold > 100 {
		return nil, nil
	}

	records, err := e.store.GetAll(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s records: %w", kind, err)
	}

	return suggest.Generate(records, field, threshold), nil
}

// Approve executes an approved suggestion and returns the merge summary.
func (e *Engine) Approve(ctx context.Context, kind types.Kind, s types.Suggestion) (*types.MergeResult, error) {
	return e.executor.MergeSuggestion(ctx, kind, s)
}

// Reject marks a suggestion rejected. Suggestions are ephemeral, so this is
// bookkeeping for the caller's current list; no engine state changes.
func (e *Engine) Reject(s types.Suggestion) types.Suggestion {
	s.Status = types.SuggestionRejected
	return s
}

// Merge unifies explicit record ids without going through a suggestion.
func (e *Engine) Merge(ctx context.Context, kind types.Kind, principalID string, absorbedIDs []string) (*types.MergeResult, error) {
	return e.executor.Merge(ctx, kind, principalID, absorbedIDs)
}

// FindSimilar scores a term against all records of a kind, best match
// first. Useful for warning before creating an entry that likely exists.
func (e *Engine) FindSimilar(ctx context.Context, kind types.Kind, term string, threshold int) ([]cluster.Match, error) {
	if !kind.IsValid() || !kind.IsMergeable() || threshold < 0 || threshold > 100 {
		return nil, nil
	}

	records, err := e.store.GetAll(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s records: %w", kind, err)
	}

	return cluster.FindSimilar(term, records, e.cfg.ComparisonField, threshold), nil
}

// History lists unification events in insertion order, optionally filtered
// by kind ("" lists everything).
func (e *Engine) History(ctx context.Context, kind types.Kind) ([]*types.UnificationEvent, error) {
	return e.store.ListUnifications(ctx, kind)
}

// Undo reverses a past unification. See Executor.Undo for the foreign-key
// caveat.
func (e *Engine) Undo(ctx context.Context, eventID string) (*types.UndoResult, error) {
	return e.executor.Undo(ctx, eventID)
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}
