// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/bytediff/internal/model"
)

// DiffRepository stores diff entities by id.
//
// Implementations create the entity lazily on the first save of either side
// and replace one side atomically without touching the other.
type DiffRepository interface {
	// SaveEndpoint replaces one side of entity id, creating the entity if needed.
	SaveEndpoint(ctx context.Context, id int64, side model.Side, ep model.Endpoint) error

	// Get loads entity id. Returns errs.ErrNotFound when it does not exist.
	Get(ctx context.Context, id int64) (*model.DiffEntity, error)

	// Delete removes entity id. Returns errs.ErrNotFound when it does not exist.
	Delete(ctx context.Context, id int64) error
}
