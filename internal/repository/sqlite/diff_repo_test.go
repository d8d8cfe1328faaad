package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/bytediff/internal/codec"
	"github.com/and161185/bytediff/internal/diff"
	"github.com/and161185/bytediff/internal/errs"
	"github.com/and161185/bytediff/internal/model"
	"github.com/and161185/bytediff/internal/repository"
)

var _ repository.DiffRepository = (*Store)(nil)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "db", "diffs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func endpoint(raw string) model.Endpoint { return model.NewEndpoint(&raw, codec.New()) }

func TestStore_SaveAndCompare(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.SaveEndpoint(ctx, 2, model.SideLeft, endpoint("AAAAAA==")))
	d, err := s.Get(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, d.Left)
	require.Nil(t, d.Right)
	require.False(t, d.UpdatedAt.IsZero())

	require.NoError(t, s.SaveEndpoint(ctx, 2, model.SideRight, endpoint("AQABAQ==")))
	d, err = s.Get(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "AAAAAA==", d.Left.Raw(), "right save must not clobber left")

	res, found := d.Diff()
	require.True(t, found)
	require.Equal(t, diff.ContentMismatch, res.Kind)
	require.Equal(t, []diff.Range{{Offset: 0, Length: 1}, {Offset: 2, Length: 2}}, res.Diffs)
}

func TestStore_ReplaceSide(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.SaveEndpoint(ctx, 6, model.SideLeft, endpoint("AAAAAA==")))
	require.NoError(t, s.SaveEndpoint(ctx, 6, model.SideRight, endpoint("AAAAAA==")))
	require.NoError(t, s.SaveEndpoint(ctx, 6, model.SideRight, endpoint("AAA=")))

	d, err := s.Get(ctx, 6)
	require.NoError(t, err)
	res, found := d.Diff()
	require.True(t, found)
	require.Equal(t, diff.SizeMismatch, res.Kind)
}

func TestStore_EmptyPayloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.SaveEndpoint(ctx, 9, model.SideLeft, endpoint("")))
	require.NoError(t, s.SaveEndpoint(ctx, 9, model.SideRight, endpoint("")))

	d, err := s.Get(ctx, 9)
	require.NoError(t, err)
	require.NotNil(t, d.Left)
	require.NotNil(t, d.Right)
	res, found := d.Diff()
	require.True(t, found)
	require.Equal(t, diff.Equal, res.Kind)
}

func TestStore_InvalidEndpointRejected(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	require.Error(t, s.SaveEndpoint(ctx, 1, model.SideLeft, endpoint("AAA==")))
	_, err := s.Get(ctx, 1)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	require.ErrorIs(t, s.Delete(ctx, 3), errs.ErrNotFound)
	require.NoError(t, s.SaveEndpoint(ctx, 3, model.SideLeft, endpoint("AAAA")))
	require.NoError(t, s.Delete(ctx, 3))
	_, err := s.Get(ctx, 3)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "diffs.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SaveEndpoint(ctx, 1, model.SideLeft, endpoint("AAAA")))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	d, err := s.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0}, d.Left.Data())
}
