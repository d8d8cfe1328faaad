// Package memory contains an in-process implementation of repository interfaces.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/and161185/bytediff/internal/errs"
	"github.com/and161185/bytediff/internal/model"
)

// DiffRepo implements DiffRepository over a map guarded by a mutex.
type DiffRepo struct {
	mu    sync.RWMutex
	diffs map[int64]*model.DiffEntity
	now   func() time.Time
}

// NewDiffRepo constructs an empty in-memory repository.
func NewDiffRepo() *DiffRepo {
	return &DiffRepo{diffs: make(map[int64]*model.DiffEntity), now: time.Now}
}

// SaveEndpoint replaces one side of entity id, creating the entity on first use.
func (r *DiffRepo) SaveEndpoint(ctx context.Context, id int64, side model.Side, ep model.Endpoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.diffs[id]
	if !ok {
		d = model.NewDiffEntity(id)
		r.diffs[id] = d
	}
	d.Save(side, ep)
	d.UpdatedAt = r.now()
	return nil
}

// Get returns a copy of entity id.
func (r *DiffRepo) Get(ctx context.Context, id int64) (*model.DiffEntity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.diffs[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return d.Clone(), nil
}

// Delete removes entity id.
func (r *DiffRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.diffs[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.diffs, id)
	return nil
}

// Len returns the number of stored entities.
func (r *DiffRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.diffs)
}
