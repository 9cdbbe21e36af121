package fetch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	pkgfetch "github.com/goliatone/go-graphview/pkg/fetch"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS things (
	id         TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	fetched_at TIMESTAMP NOT NULL
)`

// Snapshot stores raw thing payloads in SQLite so pages can be served
// offline.
type Snapshot struct {
	conn *sql.DB
	Path string
}

var _ pkgfetch.Source = (*Snapshot)(nil)

// OpenSnapshot opens (creating when needed) the snapshot database at path.
func OpenSnapshot(path string) (*Snapshot, error) {
	if path == "" {
		return nil, errors.New("fetch: snapshot path is required")
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("fetch: open snapshot: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("fetch: snapshot wal mode: %w", err)
	}
	if _, err := conn.Exec(snapshotSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("fetch: snapshot schema: %w", err)
	}
	return &Snapshot{conn: conn, Path: path}, nil
}

// Close closes the database.
func (s *Snapshot) Close() error {
	return s.conn.Close()
}

// Put stores or replaces the payload for id.
func (s *Snapshot) Put(ctx context.Context, id string, payload []byte) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO things (id, payload, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		id, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("fetch: store %s: %w", id, err)
	}
	return nil
}

// FetchRaw returns the stored payload for id.
func (s *Snapshot) FetchRaw(ctx context.Context, id string) ([]byte, error) {
	var payload string
	err := s.conn.QueryRowContext(ctx, `SELECT payload FROM things WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", pkgfetch.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch: load %s: %w", id, err)
	}
	return []byte(payload), nil
}

// IDs lists stored identities in order.
func (s *Snapshot) IDs(ctx context.Context) ([]string, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id FROM things ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("fetch: list snapshot: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("fetch: list snapshot: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
