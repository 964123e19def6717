package codec

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"github.com/unkn0wn-root/tojson"
)

// Msgpack decodes MessagePack payloads using vmihailenco/msgpack/v5.
// The zero value is ready to use.
//
// Map and array headers are walked directly so map order on the wire is kept.
// The whole payload is read before anything is converted, and every key of a
// map is checked before its values, matching tojson.From. Map keys must be
// strings; bin and ext values are rejected by tojson.From.
type Msgpack struct{}

// msgpackMap is a decoded map in wire order; keys are not yet validated.
type msgpackMap struct {
	keys []any
	vals []any
}

func (Msgpack) Decode(b []byte) (tojson.Value, error) {
	r := bytes.NewReader(b)
	d := msgpack.NewDecoder(r)
	x, err := readMsgpack(d)
	if err != nil {
		return tojson.Value{}, err
	}
	if r.Len() > 0 {
		return tojson.Value{}, fmt.Errorf("msgpack: %d trailing bytes", r.Len())
	}
	return convertMsgpack(x)
}

// readMsgpack returns scalars as decoded, arrays as []any and maps as
// *msgpackMap.
func readMsgpack(d *msgpack.Decoder) (any, error) {
	c, err := d.PeekCode()
	if err != nil {
		return nil, err
	}
	switch {
	case msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32:
		n, err := d.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		m := &msgpackMap{keys: make([]any, 0, n), vals: make([]any, 0, n)}
		for i := 0; i < n; i++ {
			k, err := d.DecodeInterface()
			if err != nil {
				return nil, err
			}
			v, err := readMsgpack(d)
			if err != nil {
				return nil, err
			}
			m.keys = append(m.keys, k)
			m.vals = append(m.vals, v)
		}
		return m, nil

	case msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32:
		n, err := d.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		elems := make([]any, 0, n)
		for i := 0; i < n; i++ {
			el, err := readMsgpack(d)
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
		}
		return elems, nil
	}
	return d.DecodeInterface()
}

func convertMsgpack(x any) (tojson.Value, error) {
	switch t := x.(type) {
	case *msgpackMap:
		members := make([]tojson.Member, len(t.keys))
		for i, k := range t.keys {
			s, ok := k.(string)
			if !ok {
				return tojson.Value{}, &tojson.UnsupportedKeyTypeError{Key: k}
			}
			members[i].Key = s
		}
		for i, v := range t.vals {
			val, err := convertMsgpack(v)
			if err != nil {
				return tojson.Value{}, err
			}
			members[i].Value = val
		}
		return tojson.Mapping(members...), nil
	case []any:
		elems := make([]tojson.Value, len(t))
		for i, el := range t {
			v, err := convertMsgpack(el)
			if err != nil {
				return tojson.Value{}, err
			}
			elems[i] = v
		}
		return tojson.Sequence(elems...), nil
	}
	return tojson.From(x)
}
