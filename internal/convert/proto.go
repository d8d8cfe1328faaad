// Package convert maps domain values to and from the protobuf messages used on the wire.
//
// The Diff service carries its messages in protobuf well-known types so no
// code generation step is needed:
//
//	save request:  Struct{"id": number, "data": string | null}
//	diff request:  Int64Value(id)
//	diff response: Struct{"diffResultType": string, "diffs": [{"offset": n, "length": n}]}
package convert

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/and161185/bytediff/internal/diff"
)

// Field names of the wire messages.
const (
	FieldID         = "id"
	FieldData       = "data"
	FieldResultType = "diffResultType"
	FieldDiffs      = "diffs"
	FieldOffset     = "offset"
	FieldLength     = "length"
)

// maxExactInt is the largest integer a JSON/structpb number represents exactly.
const maxExactInt = 1 << 53

// --- save (client -> server) ---

// ToProtoSaveRequest builds a save request. A nil data is sent as null.
func ToProtoSaveRequest(id int64, data *string) *structpb.Struct {
	fields := map[string]*structpb.Value{
		FieldID: structpb.NewNumberValue(float64(id)),
	}
	if data == nil {
		fields[FieldData] = structpb.NewNullValue()
	} else {
		fields[FieldData] = structpb.NewStringValue(*data)
	}
	return &structpb.Struct{Fields: fields}
}

// FromProtoSaveRequest extracts id and payload. A missing or null "data" yields a nil payload;
// a non-string "data" is an error.
func FromProtoSaveRequest(in *structpb.Struct) (int64, *string, error) {
	if in == nil {
		return 0, nil, errors.New("nil request")
	}
	id, err := intField(in, FieldID)
	if err != nil {
		return 0, nil, err
	}
	v, ok := in.GetFields()[FieldData]
	if !ok {
		return id, nil, nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return id, nil, nil
	case *structpb.Value_StringValue:
		s := k.StringValue
		return id, &s, nil
	default:
		return 0, nil, fmt.Errorf("field %q: want string or null", FieldData)
	}
}

// --- diff result (server -> client) ---

// ToProtoDiffResult converts a comparison result. Ranges are only emitted for a content mismatch.
func ToProtoDiffResult(res diff.Result) *structpb.Struct {
	fields := map[string]*structpb.Value{
		FieldResultType: structpb.NewStringValue(res.Kind.String()),
	}
	if res.Kind == diff.ContentMismatch && len(res.Diffs) > 0 {
		list := make([]*structpb.Value, 0, len(res.Diffs))
		for _, r := range res.Diffs {
			list = append(list, structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
				FieldOffset: structpb.NewNumberValue(float64(r.Offset)),
				FieldLength: structpb.NewNumberValue(float64(r.Length)),
			}}))
		}
		fields[FieldDiffs] = structpb.NewListValue(&structpb.ListValue{Values: list})
	}
	return &structpb.Struct{Fields: fields}
}

// FromProtoDiffResult parses a comparison result.
func FromProtoDiffResult(in *structpb.Struct) (diff.Result, error) {
	if in == nil {
		return diff.Result{}, errors.New("nil result")
	}
	kind, err := diff.ParseKind(in.GetFields()[FieldResultType].GetStringValue())
	if err != nil {
		return diff.Result{}, err
	}
	res := diff.Result{Kind: kind}

	list := in.GetFields()[FieldDiffs].GetListValue()
	for i, v := range list.GetValues() {
		s := v.GetStructValue()
		if s == nil {
			return diff.Result{}, fmt.Errorf("diffs[%d]: want object", i)
		}
		off, err := intField(s, FieldOffset)
		if err != nil {
			return diff.Result{}, fmt.Errorf("diffs[%d]: %w", i, err)
		}
		n, err := intField(s, FieldLength)
		if err != nil {
			return diff.Result{}, fmt.Errorf("diffs[%d]: %w", i, err)
		}
		res.Diffs = append(res.Diffs, diff.Range{Offset: off, Length: n})
	}
	return res, nil
}

// --- helpers ---

func intField(s *structpb.Struct, name string) (int64, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("missing field %q", name)
	}
	nv, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q: want number", name)
	}
	f := nv.NumberValue
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > maxExactInt {
		return 0, fmt.Errorf("field %q: not an integer", name)
	}
	return int64(f), nil
}
