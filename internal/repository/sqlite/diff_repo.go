// Package sqlite contains a SQLite implementation of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/and161185/bytediff/internal/errs"
	"github.com/and161185/bytediff/internal/migrate"
	"github.com/and161185/bytediff/internal/model"
)

const (
	upsertLeft = `
INSERT INTO diffs (id, left_data, updated_at) VALUES (?, ?, ?)
ON CONFLICT (id) DO UPDATE SET left_data=excluded.left_data, updated_at=excluded.updated_at`
	upsertRight = `
INSERT INTO diffs (id, right_data, updated_at) VALUES (?, ?, ?)
ON CONFLICT (id) DO UPDATE SET right_data=excluded.right_data, updated_at=excluded.updated_at`
	selectDiff = `
SELECT left_data IS NOT NULL, left_data, right_data IS NOT NULL, right_data, updated_at
FROM diffs WHERE id = ?`
	deleteDiff = `DELETE FROM diffs WHERE id = ?`
)

// Store is a SQLite-backed DiffRepository.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := migrate.Up(ctx, db, migrate.DialectSQLite); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveEndpoint upserts one side, leaving the other side untouched.
func (s *Store) SaveEndpoint(ctx context.Context, id int64, side model.Side, ep model.Endpoint) error {
	if !ep.Valid() {
		return fmt.Errorf("save %s side of diff %d: invalid endpoint", side, id)
	}
	q := upsertLeft
	if side == model.SideRight {
		q = upsertRight
	}
	data := ep.Data()
	if data == nil {
		data = []byte{}
	}
	if _, err := s.db.ExecContext(ctx, q, id, data, s.now().UnixNano()); err != nil {
		return fmt.Errorf("save %s side of diff %d: %w", side, id, err)
	}
	return nil
}

// Get loads a diff entity by id.
func (s *Store) Get(ctx context.Context, id int64) (*model.DiffEntity, error) {
	var (
		hasLeft, hasRight bool
		left, right       []byte
		updatedNs         int64
	)
	err := s.db.QueryRowContext(ctx, selectDiff, id).Scan(&hasLeft, &left, &hasRight, &right, &updatedNs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("get diff %d: %w", id, err)
	}

	d := model.NewDiffEntity(id)
	d.UpdatedAt = time.Unix(0, updatedNs)
	if hasLeft {
		d.SaveLeft(model.RestoreEndpoint(left))
	}
	if hasRight {
		d.SaveRight(model.RestoreEndpoint(right))
	}
	return d, nil
}

// Delete removes a diff entity.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, deleteDiff, id)
	if err != nil {
		return fmt.Errorf("delete diff %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}
