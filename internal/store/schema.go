package store

// schemaSQL defines the SQLite schema for the export database.
// Tables:
//   - sources: one row per exported input file
//   - elements: extracted elements in source order, with their JSON encoding
//   - type_references: every TypeReference name used by an element
const schemaSQL = `
CREATE TABLE IF NOT EXISTS sources (
    path TEXT PRIMARY KEY,
    element_count INTEGER NOT NULL DEFAULT 0,
    exported_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS elements (
    source TEXT NOT NULL,
    position INTEGER NOT NULL,
    kind TEXT NOT NULL,
    name TEXT NOT NULL,
    summary TEXT NOT NULL DEFAULT '',
    literal TEXT NOT NULL DEFAULT '',
    data TEXT NOT NULL,
    PRIMARY KEY (source, position)
);

CREATE TABLE IF NOT EXISTS type_references (
    source TEXT NOT NULL,
    element TEXT NOT NULL,
    name TEXT NOT NULL,
    position INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_elements_name ON elements(name);
CREATE INDEX IF NOT EXISTS idx_elements_kind ON elements(kind);
CREATE INDEX IF NOT EXISTS idx_type_references_name ON type_references(name);
`

// initSchema creates the database tables and indexes if they don't exist.
func (s *Store) initSchema() error {
	_, err := s.db.Exec(schemaSQL)
	return err
}
