// Package history persists a per-render event log. Session bookkeeping
// is a caller-side concern: the pipeline itself stays stateless, and this
// store records each render's request and outcome keyed by render id.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/yaaman18/intrinsic-existence-media-art/internal/activation"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/compose"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/resolve"
)

const schema = `
CREATE TABLE IF NOT EXISTS renders (
    id           TEXT PRIMARY KEY,
    created_at   TEXT NOT NULL,
    mode         TEXT NOT NULL,
    vector       TEXT NOT NULL,
    invocations  TEXT NOT NULL,
    applied      TEXT NOT NULL,
    skipped      TEXT NOT NULL,
    elapsed_ms   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_renders_created ON renders(created_at);
`

// ErrNotFound is returned when a render id has no record.
var ErrNotFound = errors.New("render not found")

// Record is one entry of the render event log.
type Record struct {
	ID          string
	CreatedAt   time.Time
	Mode        string
	Vector      activation.Vector
	Invocations []resolve.Invocation
	Applied     []string
	Skipped     []compose.Skip
	Elapsed     time.Duration
}

// Store is a SQLite-backed render history. SQLite works best with a
// single writer, so the connection pool is capped at one.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Append records one render.
func (s *Store) Append(ctx context.Context, rec Record) error {
	vector, err := json.Marshal(rec.Vector)
	if err != nil {
		return fmt.Errorf("failed to encode vector: %w", err)
	}
	invocations, err := json.Marshal(rec.Invocations)
	if err != nil {
		return fmt.Errorf("failed to encode invocations: %w", err)
	}
	applied, err := json.Marshal(rec.Applied)
	if err != nil {
		return fmt.Errorf("failed to encode applied list: %w", err)
	}
	skipped, err := json.Marshal(rec.Skipped)
	if err != nil {
		return fmt.Errorf("failed to encode skip list: %w", err)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO renders (id, created_at, mode, vector, invocations, applied, skipped, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, createdAt.Format(time.RFC3339Nano), rec.Mode,
		string(vector), string(invocations), string(applied), string(skipped),
		rec.Elapsed.Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to insert render record: %w", err)
	}
	return nil
}

// Get returns the record for a render id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, mode, vector, invocations, applied, skipped, elapsed_ms
		 FROM renders WHERE id = ?`, id)
	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

// List returns the most recent records, newest first, capped at limit.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, mode, vector, invocations, applied, skipped, elapsed_ms
		 FROM renders ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func scanRecord(scan func(dest ...any) error) (Record, error) {
	var (
		rec         Record
		createdAt   string
		vector      string
		invocations string
		applied     string
		skipped     string
		elapsedMS   int64
	)
	if err := scan(&rec.ID, &createdAt, &rec.Mode, &vector, &invocations, &applied, &skipped, &elapsedMS); err != nil {
		return Record{}, err
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Record{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	rec.CreatedAt = t
	rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond

	if err := json.Unmarshal([]byte(vector), &rec.Vector); err != nil {
		return Record{}, fmt.Errorf("failed to decode vector: %w", err)
	}
	if err := json.Unmarshal([]byte(invocations), &rec.Invocations); err != nil {
		return Record{}, fmt.Errorf("failed to decode invocations: %w", err)
	}
	if err := json.Unmarshal([]byte(applied), &rec.Applied); err != nil {
		return Record{}, fmt.Errorf("failed to decode applied list: %w", err)
	}
	if err := json.Unmarshal([]byte(skipped), &rec.Skipped); err != nil {
		return Record{}, fmt.Errorf("failed to decode skip list: %w", err)
	}
	return rec, nil
}
