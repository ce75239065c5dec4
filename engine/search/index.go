// Package search maintains the SQLite projection used for free-text case
// lookup. It is a read-only view fed by case events; the graph store stays
// the single source of truth and the projection may lag it.
package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// CaseDoc is one indexed case summary. It doubles as the payload of the
// cases.created event.
type CaseDoc struct {
	ID         string `json:"id"`
	CaseTitle  string `json:"case_title"`
	CaseStatus string `json:"case_status"`
	CrimeType  string `json:"crime_type"`
	IndexedAt  string `json:"indexed_at,omitempty"`
}

// SubjectCaseCreated is the NATS subject carrying CaseDoc events.
const SubjectCaseCreated = "cases.created"

// Index is a SQLite-backed case title index.
type Index struct {
	db *sql.DB
}

// Open opens (or creates) the index database at path and initializes the
// schema. Use ":memory:" for an ephemeral index.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	schema := `CREATE TABLE IF NOT EXISTS cases (
		id TEXT PRIMARY KEY,
		case_title TEXT NOT NULL,
		case_status TEXT NOT NULL DEFAULT '',
		crime_type TEXT NOT NULL DEFAULT '',
		indexed_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_cases_title ON cases(case_title);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init index schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Put inserts or replaces one case summary.
func (ix *Index) Put(ctx context.Context, doc CaseDoc) error {
	if doc.ID == "" || doc.CaseTitle == "" {
		return fmt.Errorf("index: id and title are required")
	}
	indexedAt := doc.IndexedAt
	if indexedAt == "" {
		indexedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := ix.db.ExecContext(ctx, `
		INSERT INTO cases (id, case_title, case_status, crime_type, indexed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			case_title = excluded.case_title,
			case_status = excluded.case_status,
			crime_type = excluded.crime_type,
			indexed_at = excluded.indexed_at`,
		doc.ID, doc.CaseTitle, doc.CaseStatus, doc.CrimeType, indexedAt)
	if err != nil {
		return fmt.Errorf("index put: %w", err)
	}
	return nil
}

// Search returns cases whose title contains q, case-insensitively. instr is
// used instead of LIKE so wildcard characters in q stay literal.
func (ix *Index) Search(ctx context.Context, q string, limit int) ([]CaseDoc, error) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil, fmt.Errorf("index: empty query")
	}
	if limit <= 0 {
		limit = 25
	}
	rows, err := ix.db.QueryContext(ctx, `
		SELECT id, case_title, case_status, crime_type, indexed_at
		FROM cases
		WHERE instr(lower(case_title), ?) > 0
		ORDER BY indexed_at DESC
		LIMIT ?`, q, limit)
	if err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}
	defer rows.Close()

	var docs []CaseDoc
	for rows.Next() {
		var d CaseDoc
		if err := rows.Scan(&d.ID, &d.CaseTitle, &d.CaseStatus, &d.CrimeType, &d.IndexedAt); err != nil {
			return nil, fmt.Errorf("index scan: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Close releases the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}
