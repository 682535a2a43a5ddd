// Package sqlite provides a SQLite-backed document store for tournaments and backups.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/storage"
)

const (
	collectionTournaments = "tournaments"
	collectionBackups     = "backups"
)

const schema = `CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	body       BLOB NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (collection, id)
)`

// Storage persists tournament documents as JSON rows in SQLite
type Storage struct {
	sqlDB *sql.DB
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Open opens a SQLite store at path and creates the schema if needed
func Open(path string) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Storage{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle
func (s *Storage) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Tournament operations

func (s *Storage) SaveTournament(ctx context.Context, t *model.TournamentState) error {
	return s.put(ctx, collectionTournaments, t.ID, t, t.UpdatedAt)
}

func (s *Storage) GetTournament(ctx context.Context, id string) (*model.TournamentState, error) {
	var t model.TournamentState
	if err := s.get(ctx, collectionTournaments, id, &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrTournamentNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *Storage) DeleteTournament(ctx context.Context, id string) error {
	return s.delete(ctx, collectionTournaments, id)
}

func (s *Storage) TournamentExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM documents WHERE collection = ? AND id = ?`,
		collectionTournaments, id,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check tournament %s: %w", id, err)
	}
	return n > 0, nil
}

func (s *Storage) ListTournaments(ctx context.Context) ([]*model.TournamentState, error) {
	bodies, err := s.list(ctx, collectionTournaments)
	if err != nil {
		return nil, err
	}
	out := make([]*model.TournamentState, 0, len(bodies))
	for _, body := range bodies {
		var t model.TournamentState
		if err := json.Unmarshal(body, &t); err != nil {
			continue // Skip invalid data
		}
		out = append(out, &t)
	}
	return out, nil
}

// Backup operations

func (s *Storage) SaveBackup(ctx context.Context, b *model.BackupTournament) error {
	return s.put(ctx, collectionBackups, b.ID, b, b.RemovedAt)
}

func (s *Storage) GetBackup(ctx context.Context, id string) (*model.BackupTournament, error) {
	var b model.BackupTournament
	if err := s.get(ctx, collectionBackups, id, &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrBackupNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (s *Storage) DeleteBackup(ctx context.Context, id string) error {
	return s.delete(ctx, collectionBackups, id)
}

func (s *Storage) ListBackups(ctx context.Context) ([]*model.BackupTournament, error) {
	bodies, err := s.list(ctx, collectionBackups)
	if err != nil {
		return nil, err
	}
	out := make([]*model.BackupTournament, 0, len(bodies))
	for _, body := range bodies {
		var b model.BackupTournament
		if err := json.Unmarshal(body, &b); err != nil {
			continue // Skip invalid data
		}
		out = append(out, &b)
	}
	return out, nil
}

// Document helpers

func (s *Storage) put(ctx context.Context, collection, id string, doc any, updatedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO documents (collection, id, body, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		collection, id, body, toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("save %s %s: %w", collection, id, err)
	}
	return nil
}

func (s *Storage) get(ctx context.Context, collection, id string, out any) error {
	var body []byte
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", collection, id, err)
	}
	return nil
}

func (s *Storage) delete(ctx context.Context, collection, id string) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", collection, id, err)
	}
	return nil
}

func (s *Storage) list(ctx context.Context, collection string) ([][]byte, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT body FROM documents WHERE collection = ? ORDER BY id`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		out = append(out, body)
	}
	return out, rows.Err()
}
