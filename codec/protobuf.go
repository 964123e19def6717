package codec

import (
	"reflect"
	"sort"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/unkn0wn-root/tojson"
)

// Protobuf decodes a binary google.protobuf.Value message.
type Protobuf struct{}

func (Protobuf) Decode(b []byte) (tojson.Value, error) {
	var pv structpb.Value
	if err := proto.Unmarshal(b, &pv); err != nil {
		return tojson.Value{}, err
	}
	return FromStructpb(&pv)
}

// FromStructpb converts a structpb value tree. Struct fields are emitted in key
// order; numbers are always floats. A value with no kind set is unsupported.
func FromStructpb(v *structpb.Value) (tojson.Value, error) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return tojson.Null(), nil
	case *structpb.Value_BoolValue:
		return tojson.Bool(k.BoolValue), nil
	case *structpb.Value_NumberValue:
		return tojson.Float(k.NumberValue), nil
	case *structpb.Value_StringValue:
		return tojson.Text(k.StringValue), nil
	case *structpb.Value_ListValue:
		list := k.ListValue.GetValues()
		elems := make([]tojson.Value, len(list))
		for i, el := range list {
			ev, err := FromStructpb(el)
			if err != nil {
				return tojson.Value{}, err
			}
			elems[i] = ev
		}
		return tojson.Sequence(elems...), nil
	case *structpb.Value_StructValue:
		fields := k.StructValue.GetFields()
		keys := make([]string, 0, len(fields))
		for key := range fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		members := make([]tojson.Member, len(keys))
		for i, key := range keys {
			fv, err := FromStructpb(fields[key])
			if err != nil {
				return tojson.Value{}, err
			}
			members[i] = tojson.Member{Key: key, Value: fv}
		}
		return tojson.Mapping(members...), nil
	}
	return tojson.Value{}, &tojson.UnsupportedTypeError{Type: reflect.TypeOf(v)}
}
