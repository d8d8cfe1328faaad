// Package diff implements the fixed-offset byte comparison between two payloads.
package diff

import "fmt"

// Kind classifies a comparison result.
type Kind int

const (
	// Equal means both payloads have the same length and content.
	Equal Kind = iota
	// SizeMismatch means the payloads differ in length; no ranges are computed.
	SizeMismatch
	// ContentMismatch means the payloads have equal length but differ in at least one byte.
	ContentMismatch
)

// Wire names kept compatible with existing API consumers.
const (
	wireEqual           = "Equals"
	wireSizeMismatch    = "SizeDoNotMatch"
	wireContentMismatch = "ContentDoNotMatch"
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case Equal:
		return wireEqual
	case SizeMismatch:
		return wireSizeMismatch
	case ContentMismatch:
		return wireContentMismatch
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts a wire name back to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case wireEqual:
		return Equal, nil
	case wireSizeMismatch:
		return SizeMismatch, nil
	case wireContentMismatch:
		return ContentMismatch, nil
	default:
		return 0, fmt.Errorf("unknown diff kind %q", s)
	}
}

// Range is a maximal run of differing bytes.
type Range struct {
	Offset int64 // index of the first differing byte
	Length int64 // number of consecutive differing bytes (> 0)
}

// End returns the exclusive end offset of the run.
func (r Range) End() int64 { return r.Offset + r.Length }

// Result is the outcome of Compare. Diffs is nil unless Kind is ContentMismatch.
type Result struct {
	Kind  Kind
	Diffs []Range
}

// Compare classifies left against right.
//
// Payloads of different length are a SizeMismatch without any scan. Two
// zero-length payloads are Equal. Otherwise the payloads are scanned once and
// every maximal run of differing positions is reported in ascending order;
// consecutive runs are always separated by at least one matching byte.
func Compare(left, right []byte) Result {
	if len(left) != len(right) {
		return Result{Kind: SizeMismatch}
	}
	if len(left) == 0 {
		return Result{Kind: Equal}
	}

	var diffs []Range
	start, n := -1, 0
	for i := range left {
		if left[i] != right[i] {
			if start < 0 {
				start = i
			}
			n++
			continue
		}
		if start >= 0 {
			diffs = append(diffs, Range{Offset: int64(start), Length: int64(n)})
			start, n = -1, 0
		}
	}
	if start >= 0 {
		diffs = append(diffs, Range{Offset: int64(start), Length: int64(n)})
	}

	if len(diffs) == 0 {
		return Result{Kind: Equal}
	}
	return Result{Kind: ContentMismatch, Diffs: diffs}
}
