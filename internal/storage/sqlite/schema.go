package sqlite

// schema defines the two tables the engine needs: a generic per-kind records
// table with a JSON field bag, and the append-only unification history.
// Snapshots in the unifications table are full JSON copies so undo never
// depends on the records table still holding the absorbed rows.
const schema = `
CREATE TABLE IF NOT EXISTS records (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	fields TEXT NOT NULL DEFAULT '{}',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind);

CREATE TABLE IF NOT EXISTS unifications (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	principal TEXT NOT NULL,
	absorbed TEXT NOT NULL,
	dependents_updated INTEGER NOT NULL DEFAULT 0,
	merged_at TIMESTAMP NOT NULL,
	undone_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_unifications_kind ON unifications(kind);
`
