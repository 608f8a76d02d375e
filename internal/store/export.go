package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bigmistqke/readmi/internal/model"
)

// Row is one exported element as stored in the database.
type Row struct {
	Source   string
	Position int
	Kind     string
	Name     string
	Summary  string
	Literal  string
	// Data is the element's JSON encoding, identical to the json output format.
	Data json.RawMessage
}

// Referrer is an element that references a type name.
type Referrer struct {
	Source  string
	Element string
}

// Export replaces everything stored for source with elements, in a single
// transaction. Element order is kept in the position column.
func (s *Store) Export(ctx context.Context, source string, elements []model.Element) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"elements", "type_references"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE source = ?", source); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	elemStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO elements (source, position, kind, name, summary, literal, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare element insert: %w", err)
	}
	defer elemStmt.Close()

	refStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO type_references (source, element, name, position)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare reference insert: %w", err)
	}
	defer refStmt.Close()

	for i, el := range elements {
		data, err := json.Marshal(el)
		if err != nil {
			return fmt.Errorf("encode element %s: %w", el.ElementName(), err)
		}
		_, err = elemStmt.ExecContext(ctx, source, i, string(el.Kind()), el.ElementName(),
			el.Doc().Summary(), literalOf(el), string(data))
		if err != nil {
			return fmt.Errorf("insert element %s: %w", el.ElementName(), err)
		}

		for j, ref := range model.References(el) {
			if _, err := refStmt.ExecContext(ctx, source, ref.Element, ref.Name, j); err != nil {
				return fmt.Errorf("insert reference %s: %w", ref.Name, err)
			}
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sources (path, element_count, exported_at) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET element_count = excluded.element_count, exported_at = excluded.exported_at`,
		source, len(elements), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record source: %w", err)
	}

	return tx.Commit()
}

// Elements returns the rows exported for source in their original order.
func (s *Store) Elements(ctx context.Context, source string) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source, position, kind, name, summary, literal, data
		FROM elements WHERE source = ? ORDER BY position`, source)
	if err != nil {
		return nil, fmt.Errorf("query elements: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Lookup returns every exported element named name, across all sources.
func (s *Store) Lookup(ctx context.Context, name string) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source, position, kind, name, summary, literal, data
		FROM elements WHERE name = ? ORDER BY source, position`, name)
	if err != nil {
		return nil, fmt.Errorf("query elements: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Referrers returns the elements that reference the type name.
func (s *Store) Referrers(ctx context.Context, name string) ([]Referrer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT source, element FROM type_references
		WHERE name = ? ORDER BY source, element`, name)
	if err != nil {
		return nil, fmt.Errorf("query references: %w", err)
	}
	defer rows.Close()

	var result []Referrer
	for rows.Next() {
		var r Referrer
		if err := rows.Scan(&r.Source, &r.Element); err != nil {
			return nil, fmt.Errorf("scan reference: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// Sources returns the exported source paths.
func (s *Store) Sources(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT path FROM sources ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		result = append(result, path)
	}
	return result, rows.Err()
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	var result []Row
	for rows.Next() {
		var r Row
		var data string
		if err := rows.Scan(&r.Source, &r.Position, &r.Kind, &r.Name, &r.Summary, &r.Literal, &data); err != nil {
			return nil, fmt.Errorf("scan element: %w", err)
		}
		r.Data = json.RawMessage(data)
		result = append(result, r)
	}
	return result, rows.Err()
}

func literalOf(el model.Element) string {
	switch e := el.(type) {
	case model.Variable:
		return e.Literal
	case model.Function:
		return e.Literal
	case model.Class:
		return e.Literal
	case model.Enum:
		return e.Literal
	case model.TypeAlias:
		return e.Literal
	}
	return ""
}
