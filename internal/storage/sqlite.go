package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/frozen4917/What-Comes-At-Night/internal/models"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS saves (
	slot       TEXT PRIMARY KEY,
	state      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore keeps every slot as a row of a single SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (q *SQLiteStore) Save(ctx context.Context, slot string, s *models.GameState) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	_, err = q.db.ExecContext(ctx,
		`INSERT INTO saves (slot, state, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		slot, data, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save %q: %w", slot, err)
	}
	return nil
}

func (q *SQLiteStore) Load(ctx context.Context, slot string) (*models.GameState, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	var data []byte
	err := q.db.QueryRowContext(ctx, `SELECT state FROM saves WHERE slot = ?`, slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load %q: %w", slot, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", slot, err)
	}
	return models.UnmarshalState(data)
}

// List returns the slot names, most recently saved first.
func (q *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT slot FROM saves ORDER BY updated_at DESC, slot`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan save: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (q *SQLiteStore) Delete(ctx context.Context, slot string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	if _, err := q.db.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("delete %q: %w", slot, err)
	}
	return nil
}

// Close closes the database handle.
func (q *SQLiteStore) Close() error {
	if q == nil || q.db == nil {
		return nil
	}
	return q.db.Close()
}
