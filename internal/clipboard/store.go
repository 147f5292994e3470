package clipboard

import (
	"context"
	"crypto/rand"
	"database/sql"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"pcb-editor/internal/errors"
)

// CurrentSchemaVersion is the latest store schema version.
const CurrentSchemaVersion = 1

// Entry is a stored snapshot.
type Entry struct {
	ID        string
	Board     string
	CreatedAt time.Time
	Snapshot  *Snapshot
}

// Store keeps copied snapshots in a SQLite database. It stands in for the
// system clipboard between editor invocations.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	entropy io.Reader
}

// OpenStore opens or creates the store at dir/clipboard.db.
func OpenStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create clipboard directory: %w", err)
	}
	dsn := filepath.Join(dir, "clipboard.db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open clipboard database: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, entropy: ulid.Monotonic(rand.Reader, 0)}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return fmt.Errorf("failed to get user_version: %w", err)
	}
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
		  id         TEXT PRIMARY KEY,
		  board      TEXT NOT NULL,
		  data       TEXT NOT NULL,
		  created_at INTEGER NOT NULL
		);`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", 1)); err != nil {
			return fmt.Errorf("failed to set user_version: %w", err)
		}
	}
	return nil
}

func (s *Store) newID(now time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(now), s.entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

// Put stores a snapshot and returns its entry id. Ids sort by creation.
func (s *Store) Put(ctx context.Context, snap *Snapshot) (string, error) {
	data, err := Marshal(snap)
	if err != nil {
		return "", err
	}
	now := time.Now()
	id, err := s.newID(now)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO snapshots (id, board, data, created_at) VALUES (?, ?, ?, ?)",
		id, snap.Board.String(), string(data), now.UnixMilli())
	if err != nil {
		return "", fmt.Errorf("failed to store snapshot: %w", err)
	}
	return id, nil
}

// Get returns the entry with the given id.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, board, data, created_at FROM snapshots WHERE id = ?", id)
	e, err := scanEntry(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFound("clipboard entry", id)
	}
	return e, err
}

// Latest returns the most recent entry.
func (s *Store) Latest(ctx context.Context) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, board, data, created_at FROM snapshots ORDER BY id DESC LIMIT 1")
	e, err := scanEntry(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFound("clipboard entry", "latest")
	}
	return e, err
}

// Len returns the number of stored entries.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM snapshots").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return n, nil
}

// Prune deletes all but the newest keep entries and returns how many were
// deleted.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM snapshots WHERE id NOT IN (
		  SELECT id FROM snapshots ORDER BY id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return n, nil
}

func scanEntry(row *sql.Row) (*Entry, error) {
	var (
		e       Entry
		data    string
		created int64
	)
	if err := row.Scan(&e.ID, &e.Board, &data, &created); err != nil {
		return nil, err
	}
	snap, err := Unmarshal([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	e.Snapshot = snap
	e.CreatedAt = time.UnixMilli(created)
	return &e, nil
}
