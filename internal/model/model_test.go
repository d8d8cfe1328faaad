package model

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/bytediff/internal/codec"
	"github.com/and161185/bytediff/internal/diff"
)

func ptr(s string) *string { return &s }

func TestNewEndpoint(t *testing.T) {
	t.Parallel()
	c := codec.New()

	ep := NewEndpoint(ptr("AAAAAA=="), c)
	require.True(t, ep.Valid())
	require.Equal(t, "AAAAAA==", ep.Raw())
	require.Equal(t, []byte{0, 0, 0, 0}, ep.Data())

	bad := NewEndpoint(ptr("AAA=="), c)
	require.False(t, bad.Valid())
	require.Nil(t, bad.Data())
	require.Equal(t, "AAA==", bad.Raw())

	null := NewEndpoint(nil, c)
	require.False(t, null.Valid())
	require.Nil(t, null.Data())

	empty := NewEndpoint(ptr(""), c)
	require.True(t, empty.Valid(), "empty base64 counts as created")
	require.NotNil(t, empty.Data())
	require.Len(t, empty.Data(), 0)
}

func TestRestoreEndpoint(t *testing.T) {
	t.Parallel()

	ep := RestoreEndpoint([]byte{1, 0, 1, 1})
	require.True(t, ep.Valid())
	require.Equal(t, "AQABAQ==", ep.Raw())

	empty := RestoreEndpoint(nil)
	require.True(t, empty.Valid())
	require.NotNil(t, empty.Data())
}

func TestDiffEntity_SaveReplacesWholesale(t *testing.T) {
	t.Parallel()
	c := codec.New()
	d := NewDiffEntity(6)

	require.True(t, d.SaveLeft(NewEndpoint(ptr("AAAAAA=="), c)))
	require.True(t, d.SaveRight(NewEndpoint(ptr("AAAAAA=="), c)))
	prevRight := d.Right

	require.True(t, d.SaveRight(NewEndpoint(ptr("AQABAQ=="), c)))
	require.NotSame(t, prevRight, d.Right)
	require.Equal(t, []byte{0, 0, 0, 0}, prevRight.Data(), "old endpoint must not be mutated")

	res, found := d.Diff()
	require.True(t, found)
	require.Equal(t, diff.ContentMismatch, res.Kind)

	require.False(t, d.Save(SideRight, NewEndpoint(ptr("AAA=="), c)))
	require.False(t, d.Comparable())
}

func TestDiffEntity_Diff_Scenarios(t *testing.T) {
	t.Parallel()
	c := codec.New()

	build := func(left, right *string) *DiffEntity {
		d := NewDiffEntity(1)
		if left != nil {
			d.SaveLeft(NewEndpoint(left, c))
		}
		if right != nil {
			d.SaveRight(NewEndpoint(right, c))
		}
		return d
	}

	res, found := build(ptr("AAAAAA=="), ptr("AAAAAA==")).Diff()
	require.True(t, found)
	require.Equal(t, diff.Result{Kind: diff.Equal}, res)

	res, found = build(ptr("AAAAAA=="), ptr("AQABAQ==")).Diff()
	require.True(t, found)
	require.Equal(t, diff.ContentMismatch, res.Kind)
	require.Equal(t, []diff.Range{{Offset: 0, Length: 1}, {Offset: 2, Length: 2}}, res.Diffs)

	res, found = build(ptr("AAAAAA=="), ptr("AAA=")).Diff()
	require.True(t, found)
	require.Equal(t, diff.Result{Kind: diff.SizeMismatch}, res)

	_, found = build(ptr("AAAAAA=="), ptr("AAA==")).Diff()
	require.False(t, found, "invalid right side")

	_, found = build(ptr("AAAAAA=="), nil).Diff()
	require.False(t, found, "missing right side")

	_, found = NewDiffEntity(2).Diff()
	require.False(t, found)

	res, found = build(ptr(""), ptr("")).Diff()
	require.True(t, found)
	require.Equal(t, diff.Equal, res.Kind)
}

func TestDiffEntity_Clone(t *testing.T) {
	t.Parallel()
	c := codec.New()
	d := NewDiffEntity(3)
	d.SaveLeft(NewEndpoint(ptr("AAAA"), c))

	cp := d.Clone()
	require.Equal(t, d.ID, cp.ID)
	require.NotSame(t, d.Left, cp.Left)
	require.Nil(t, cp.Right)

	d.SaveLeft(NewEndpoint(ptr("AQAB"), c))
	require.Equal(t, "AAAA", cp.Left.Raw())
}

func TestSide_String(t *testing.T) {
	t.Parallel()
	require.Equal(t, "left", SideLeft.String())
	require.Equal(t, "right", SideRight.String())
}
