package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/bytediff/internal/errs"
	"github.com/and161185/bytediff/internal/model"
)

const (
	upsertLeft = `
INSERT INTO diffs (id, left_data, updated_at) VALUES ($1,$2,now())
ON CONFLICT (id) DO UPDATE SET left_data=EXCLUDED.left_data, updated_at=now()`
	upsertRight = `
INSERT INTO diffs (id, right_data, updated_at) VALUES ($1,$2,now())
ON CONFLICT (id) DO UPDATE SET right_data=EXCLUDED.right_data, updated_at=now()`
	selectDiff = `
SELECT left_data IS NOT NULL, left_data, right_data IS NOT NULL, right_data, updated_at
FROM diffs WHERE id=$1`
	deleteDiff = `DELETE FROM diffs WHERE id=$1`
)

// DiffRepo implements DiffRepository using PostgreSQL.
type DiffRepo struct{ db *DB }

// NewDiffRepo constructs a diff repository.
func NewDiffRepo(db *DB) *DiffRepo { return &DiffRepo{db: db} }

// SaveEndpoint upserts one side in a single statement, leaving the other side untouched.
func (r *DiffRepo) SaveEndpoint(ctx context.Context, id int64, side model.Side, ep model.Endpoint) error {
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
	if _, err := r.db.Pool.Exec(ctx, q, id, data); err != nil {
		return fmt.Errorf("save %s side of diff %d: %w", side, id, err)
	}
	return nil
}

// Get loads a diff entity by id.
func (r *DiffRepo) Get(ctx context.Context, id int64) (*model.DiffEntity, error) {
	var (
		hasLeft, hasRight bool
		left, right       []byte
		updatedAt         time.Time
	)
	err := r.db.Pool.QueryRow(ctx, selectDiff, id).Scan(&hasLeft, &left, &hasRight, &right, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	d := model.NewDiffEntity(id)
	d.UpdatedAt = updatedAt
	if hasLeft {
		d.SaveLeft(model.RestoreEndpoint(left))
	}
	if hasRight {
		d.SaveRight(model.RestoreEndpoint(right))
	}
	return d, nil
}

// Delete removes a diff entity.
func (r *DiffRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, deleteDiff, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
