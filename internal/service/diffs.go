// Package service contains application services over diff entities.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/and161185/bytediff/internal/codec"
	"github.com/and161185/bytediff/internal/diff"
	"github.com/and161185/bytediff/internal/errs"
	"github.com/and161185/bytediff/internal/model"
	"github.com/and161185/bytediff/internal/repository"
)

// DiffService defines the operations exposed to the transport layer.
type DiffService interface {
	// SaveLeft decodes raw and stores it as the left side of id.
	// ok is false when the payload is absent or malformed; nothing is stored then.
	SaveLeft(ctx context.Context, id int64, raw *string) (ok bool, err error)
	// SaveRight decodes raw and stores it as the right side of id.
	SaveRight(ctx context.Context, id int64, raw *string) (ok bool, err error)
	// GetDiff compares both sides of id. found is false when id is unknown
	// or either side is missing or invalid.
	GetDiff(ctx context.Context, id int64) (res diff.Result, found bool, err error)
	// Delete removes id and both of its sides.
	Delete(ctx context.Context, id int64) error
}

type DiffServiceImpl struct {
	repo  repository.DiffRepository
	codec *codec.Codec
}

// NewDiffService constructs DiffService. A nil codec means default decoding rules.
func NewDiffService(repo repository.DiffRepository, c *codec.Codec) *DiffServiceImpl {
	if c == nil {
		c = codec.New()
	}
	return &DiffServiceImpl{repo: repo, codec: c}
}

// SaveLeft stores the left endpoint.
func (s *DiffServiceImpl) SaveLeft(ctx context.Context, id int64, raw *string) (bool, error) {
	return s.save(ctx, id, model.SideLeft, raw)
}

// SaveRight stores the right endpoint.
func (s *DiffServiceImpl) SaveRight(ctx context.Context, id int64, raw *string) (bool, error) {
	return s.save(ctx, id, model.SideRight, raw)
}

func (s *DiffServiceImpl) save(ctx context.Context, id int64, side model.Side, raw *string) (bool, error) {
	if err := validateID(id); err != nil {
		return false, err
	}
	ep := model.NewEndpoint(raw, s.codec)
	if !ep.Valid() {
		return false, nil
	}
	if err := s.repo.SaveEndpoint(ctx, id, side, ep); err != nil {
		return false, err
	}
	return true, nil
}

// GetDiff loads id and compares its sides.
func (s *DiffServiceImpl) GetDiff(ctx context.Context, id int64) (diff.Result, bool, error) {
	if err := validateID(id); err != nil {
		return diff.Result{}, false, err
	}
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return diff.Result{}, false, nil
		}
		return diff.Result{}, false, err
	}
	res, found := d.Diff()
	return res, found, nil
}

// Delete removes id.
func (s *DiffServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func validateID(id int64) error {
	if id < 0 {
		return fmt.Errorf("validation: negative id %d: %w", id, errs.ErrInvalidID)
	}
	return nil
}
