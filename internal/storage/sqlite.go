package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storybranch/internal/story"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

// Run is one recorded pipeline outcome.
type Run struct {
	ID        int64
	Source    string
	Name      string
	Topic     string
	Model     string
	Language  string
	NodeCount int
	Status    string
	Error     string
	CreatedAt time.Time
}

const (
	RunStatusOK     = "ok"
	RunStatusFailed = "failed"
)

// NewSQLiteStore creates or opens the run-history database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT,
			name TEXT,
			topic TEXT,
			model TEXT,
			language TEXT,
			node_count INTEGER,
			status TEXT,
			error TEXT,
			created_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS documents (
			name TEXT PRIMARY KEY,
			topic TEXT,
			enriched INTEGER,
			content JSON
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_topic ON runs(topic);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// RecordRun appends one pipeline outcome to the run history.
func (s *SQLiteStore) RecordRun(ctx context.Context, run Run) error {
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (source, name, topic, model, language, node_count, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.Source, run.Name, run.Topic, run.Model, run.Language, run.NodeCount, run.Status, run.Error, createdAt.Format(time.RFC3339))
	return err
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, name, topic, model, language, node_count, status, error, created_at
		FROM runs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Source, &r.Name, &r.Topic, &r.Model, &r.Language, &r.NodeCount, &r.Status, &r.Error, &createdAt); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// SaveDocument upserts a generated document keyed by its derived name.
func (s *SQLiteStore) SaveDocument(ctx context.Context, name string, doc *story.Document, enriched bool) error {
	content, err := story.Marshal(doc)
	if err != nil {
		return err
	}
	enrichedFlag := 0
	if enriched {
		enrichedFlag = 1
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (name, topic, enriched, content)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			topic=excluded.topic,
			enriched=excluded.enriched,
			content=excluded.content
	`, name, doc.Topic, enrichedFlag, string(content))
	return err
}

// LoadDocument retrieves a stored document by name. The bool reports
// whether the stored copy was enriched.
func (s *SQLiteStore) LoadDocument(ctx context.Context, name string) (*story.Document, bool, error) {
	var content string
	var enriched int
	err := s.db.QueryRowContext(ctx, `
		SELECT content, enriched FROM documents WHERE name = ?
	`, name).Scan(&content, &enriched)
	if err == sql.ErrNoRows {
		return nil, false, fmt.Errorf("document not found: %s", name)
	}
	if err != nil {
		return nil, false, err
	}

	doc, err := story.Decode(content)
	if err != nil {
		return nil, false, err
	}
	return doc, enriched == 1, nil
}
