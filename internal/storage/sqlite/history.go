package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/atelieapp/unify/internal/types"
)

// ApplyUnification executes the store side of a merge as one transaction:
// rewrite dependent foreign keys to the principal, delete the absorbed
// records, and append the unification event. Returns the number of
// dependent records touched. If any step fails the whole merge rolls back.
//
// The event's DependentsUpdated is set from the rewrite count before the
// row is written; callers pass it in at zero.
func (s *SQLiteStorage) ApplyUnification(ctx context.Context, event *types.UnificationEvent, rels []types.Relationship) (int, error) {
	if err := event.Validate(); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Reassign dependent foreign keys from each absorbed id to the principal
	dependentsUpdated := 0
	for _, rel := range rels {
		if rel.Kind != event.Kind {
			continue
		}
		for _, absorbed := range event.Absorbed {
			result, err := tx.ExecContext(ctx, `
				UPDATE records
				SET fields = json_set(fields, ?, ?), updated_at = ?
				WHERE kind = ? AND json_extract(fields, ?) = ?
			`, jsonPath(rel.ForeignField), event.Principal.ID, time.Now(),
				rel.DependentKind, jsonPath(rel.ForeignField), absorbed.ID)
			if err != nil {
				return 0, fmt.Errorf("failed to reassign %s.%s from %s: %w",
					rel.DependentKind, rel.ForeignField, absorbed.ID, err)
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return 0, fmt.Errorf("failed to count reassigned dependents: %w", err)
			}
			dependentsUpdated += int(affected)
		}
	}

	// Remove the absorbed records. Every one must still exist: a missing row
	// means the store changed under the merge, so abort rather than record a
	// partial unification.
	ids := make([]any, 0, len(event.Absorbed)+1)
	ids = append(ids, event.Kind)
	for _, absorbed := range event.Absorbed {
		ids = append(ids, absorbed.ID)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(event.Absorbed)), ", ")
	result, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM records WHERE kind = ? AND id IN (%s)", placeholders), ids...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete absorbed records: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted records: %w", err)
	}
	if int(deleted) != len(event.Absorbed) {
		return 0, fmt.Errorf("expected to delete %d records, deleted %d", len(event.Absorbed), deleted)
	}

	// Append the history event with full snapshots
	event.DependentsUpdated = dependentsUpdated

	principalJSON, err := json.Marshal(event.Principal)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal principal snapshot: %w", err)
	}
	absorbedJSON, err := json.Marshal(event.Absorbed)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal absorbed snapshots: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO unifications (id, kind, principal, absorbed, dependents_updated, merged_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, event.ID, event.Kind, string(principalJSON), string(absorbedJSON),
		event.DependentsUpdated, event.MergedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to append unification event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit unification: %w", err)
	}

	return dependentsUpdated, nil
}

// ApplyUndo restores a unification's absorbed snapshots and stamps the event
// as undone, all in one transaction. Dependent foreign keys reassigned by
// the original merge are left pointing at the principal. Returns the number
// of records restored.
func (s *SQLiteStorage) ApplyUndo(ctx context.Context, eventID string, undoneAt time.Time) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var kind types.Kind
	var absorbedJSON string
	var undone sql.NullTime
	err = tx.QueryRowContext(ctx, `
		SELECT kind, absorbed, undone_at FROM unifications WHERE id = ?
	`, eventID).Scan(&kind, &absorbedJSON, &undone)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("unification %s not found", eventID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load unification %s: %w", eventID, err)
	}
	if undone.Valid {
		return 0, fmt.Errorf("unification %s: %w", eventID, ErrAlreadyUndone)
	}

	var absorbed []*types.Record
	if err := json.Unmarshal([]byte(absorbedJSON), &absorbed); err != nil {
		return 0, fmt.Errorf("failed to unmarshal absorbed snapshots: %w", err)
	}

	// Re-insert each snapshot with its original id
	now := time.Now()
	for _, rec := range absorbed {
		fieldsJSON, err := json.Marshal(rec.Fields)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal snapshot %s: %w", rec.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO records (id, kind, fields, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`, rec.ID, kind, string(fieldsJSON), now, now); err != nil {
			return 0, fmt.Errorf("failed to restore record %s: %w", rec.ID, err)
		}
	}

	// Guard against a concurrent undo of the same event
	result, err := tx.ExecContext(ctx, `
		UPDATE unifications SET undone_at = ? WHERE id = ? AND undone_at IS NULL
	`, undoneAt, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark unification undone: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check undo result: %w", err)
	}
	if affected == 0 {
		return 0, fmt.Errorf("unification %s: %w", eventID, ErrAlreadyUndone)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit undo: %w", err)
	}

	return len(absorbed), nil
}

// GetUnification retrieves one event by id, or (nil, nil) if absent.
func (s *SQLiteStorage) GetUnification(ctx context.Context, id string) (*types.UnificationEvent, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, principal, absorbed, dependents_updated, merged_at, undone_at
		FROM unifications
		WHERE id = ?
	`, id)

	event, err := scanUnification(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get unification %s: %w", id, err)
	}
	return event, nil
}

// ListUnifications returns events in insertion order, optionally filtered by
// kind. Pass "" to list everything. History only grows; there is no delete.
func (s *SQLiteStorage) ListUnifications(ctx context.Context, kind types.Kind) ([]*types.UnificationEvent, error) {
	query := `
		SELECT id, kind, principal, absorbed, dependents_updated, merged_at, undone_at
		FROM unifications
	`
	args := []any{}
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY rowid ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list unifications: %w", err)
	}
	defer rows.Close()

	var events []*types.UnificationEvent
	for rows.Next() {
		event, err := scanUnification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unification: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate unifications: %w", err)
	}
	return events, nil
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanUnification(row scanner) (*types.UnificationEvent, error) {
	var event types.UnificationEvent
	var principalJSON, absorbedJSON string
	var undoneAt sql.NullTime

	err := row.Scan(&event.ID, &event.Kind, &principalJSON, &absorbedJSON,
		&event.DependentsUpdated, &event.MergedAt, &undoneAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(principalJSON), &event.Principal); err != nil {
		return nil, fmt.Errorf("failed to unmarshal principal snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(absorbedJSON), &event.Absorbed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal absorbed snapshots: %w", err)
	}
	if undoneAt.Valid {
		event.UndoneAt = &undoneAt.Time
	}

	return &event, nil
}
