package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atelieapp/unify/internal/types"
)

// GetAll returns every record of a kind in insertion order.
func (s *SQLiteStorage) GetAll(ctx context.Context, kind types.Kind) ([]*types.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fields FROM records
		WHERE kind = ?
		ORDER BY rowid ASC
	`, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s records: %w", kind, err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetByID retrieves a record by id, or (nil, nil) if it does not exist.
func (s *SQLiteStorage) GetByID(ctx context.Context, kind types.Kind, id string) (*types.Record, error) {
	var fieldsJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT fields FROM records
		WHERE kind = ? AND id = ?
	`, kind, id).Scan(&fieldsJSON)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s record %s: %w", kind, id, err)
	}

	return recordFromRow(id, fieldsJSON)
}

// AddRecord inserts a record, assigning a uuid if the id is blank.
func (s *SQLiteStorage) AddRecord(ctx context.Context, kind types.Kind, rec *types.Record) (*types.Record, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid kind: %s", kind)
	}
	if rec == nil {
		return nil, fmt.Errorf("record is required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	fieldsJSON, err := json.Marshal(rec.Fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal fields: %w", err)
	}

	now := time.Now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (id, kind, fields, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, kind, string(fieldsJSON), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert %s record: %w", kind, err)
	}

	return rec, nil
}

// UpdateRecord replaces a record's field bag. The record must carry an
// existing id; (nil, nil) is returned if no row matched.
func (s *SQLiteStorage) UpdateRecord(ctx context.Context, kind types.Kind, rec *types.Record) (*types.Record, error) {
	if rec == nil || rec.ID == "" {
		return nil, fmt.Errorf("record with id is required")
	}

	fieldsJSON, err := json.Marshal(rec.Fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal fields: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE records SET fields = ?, updated_at = ?
		WHERE kind = ? AND id = ?
	`, string(fieldsJSON), time.Now(), kind, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s record %s: %w", kind, rec.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	return rec, nil
}

// DeleteRecord removes a record, reporting whether a row was removed.
func (s *SQLiteStorage) DeleteRecord(ctx context.Context, kind types.Kind, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM records WHERE kind = ? AND id = ?
	`, kind, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete %s record %s: %w", kind, id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}
	return affected > 0, nil
}

// FindDependents returns records of a kind whose JSON foreign-key field
// equals the given id, e.g. all appointments whose client_id points at a
// client about to be absorbed.
func (s *SQLiteStorage) FindDependents(ctx context.Context, kind types.Kind, foreignField, id string) ([]*types.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fields FROM records
		WHERE kind = ? AND json_extract(fields, ?) = ?
		ORDER BY rowid ASC
	`, kind, jsonPath(foreignField), id)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s dependents by %s: %w", kind, foreignField, err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// jsonPath builds the JSON1 path expression for a top-level field. Field
// names come from the relationship registry, never from user input.
func jsonPath(field string) string {
	return "$." + field
}

func scanRecords(rows *sql.Rows) ([]*types.Record, error) {
	var records []*types.Record
	for rows.Next() {
		var id, fieldsJSON string
		if err := rows.Scan(&id, &fieldsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec, err := recordFromRow(id, fieldsJSON)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}
	return records, nil
}

func recordFromRow(id, fieldsJSON string) (*types.Record, error) {
	rec := &types.Record{ID: id}
	if err := json.Unmarshal([]byte(fieldsJSON), &rec.Fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fields for record %s: %w", id, err)
	}
	return rec, nil
}
