// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/and161185/bytediff/internal/codec"
	"github.com/and161185/bytediff/internal/diff"
)

// Side selects one endpoint slot of a DiffEntity.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// String returns "left" or "right".
func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// Endpoint is one submitted side of a comparison. It is an immutable value:
// saving a side always swaps in a new Endpoint.
type Endpoint struct {
	raw   string
	data  []byte
	valid bool
}

// NewEndpoint decodes raw with c and returns the resulting endpoint.
// A nil raw yields an invalid endpoint.
func NewEndpoint(raw *string, c *codec.Codec) Endpoint {
	ep := Endpoint{}
	if raw != nil {
		ep.raw = *raw
	}
	if data, ok := c.Decode(raw); ok {
		ep.data = data
		ep.valid = true
	}
	return ep
}

// RestoreEndpoint recreates a valid endpoint from persisted decoded bytes.
func RestoreEndpoint(data []byte) Endpoint {
	if data == nil {
		data = []byte{}
	}
	return Endpoint{raw: codec.Encode(data), data: data, valid: true}
}

// Raw returns the transport-encoded value as submitted.
func (e Endpoint) Raw() string { return e.raw }

// Data returns the decoded payload; nil when the endpoint is invalid.
func (e Endpoint) Data() []byte { return e.data }

// Valid reports whether decoding succeeded.
func (e Endpoint) Valid() bool { return e.valid }

// DiffEntity pairs at most one left and one right endpoint under a caller-supplied id.
type DiffEntity struct {
	ID        int64
	Left      *Endpoint
	Right     *Endpoint
	UpdatedAt time.Time // maintained by the repository
}

// NewDiffEntity returns an entity with both sides unset.
func NewDiffEntity(id int64) *DiffEntity { return &DiffEntity{ID: id} }

// SaveLeft replaces the left side and reports whether it is valid.
func (d *DiffEntity) SaveLeft(ep Endpoint) bool {
	d.Left = &ep
	return ep.Valid()
}

// SaveRight replaces the right side and reports whether it is valid.
func (d *DiffEntity) SaveRight(ep Endpoint) bool {
	d.Right = &ep
	return ep.Valid()
}

// Save replaces the given side.
func (d *DiffEntity) Save(side Side, ep Endpoint) bool {
	if side == SideRight {
		return d.SaveRight(ep)
	}
	return d.SaveLeft(ep)
}

// Comparable reports whether both sides are present and valid.
func (d *DiffEntity) Comparable() bool {
	return d.Left != nil && d.Right != nil && d.Left.Valid() && d.Right.Valid()
}

// Diff compares the two sides. found is false when the entity is not comparable,
// in which case no comparison is run.
func (d *DiffEntity) Diff() (res diff.Result, found bool) {
	if !d.Comparable() {
		return diff.Result{}, false
	}
	return diff.Compare(d.Left.Data(), d.Right.Data()), true
}

// Clone returns a copy that shares no endpoint pointers with d.
func (d *DiffEntity) Clone() *DiffEntity {
	out := &DiffEntity{ID: d.ID, UpdatedAt: d.UpdatedAt}
	if d.Left != nil {
		l := *d.Left
		out.Left = &l
	}
	if d.Right != nil {
		r := *d.Right
		out.Right = &r
	}
	return out
}
