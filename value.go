package tojson

import (
	"reflect"
	"strconv"
)

// Kind is the variant of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindText
	KindSequence
	KindMapping
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one node of the encodable domain. The zero Value is Null.
//
// Values are immutable. Constructors copy their input and accessors return
// copies, so a Value can never reach itself.
type Value struct {
	kind Kind

	b       bool
	s       string // text, or the canonical decimal form of a number
	seq     []Value
	members []Member
}

// Member is one key/value pair of a Mapping.
type Member struct {
	Key   string
	Value Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns a number value for a signed integer.
func Int(n int64) Value { return Value{kind: KindNumber, s: strconv.FormatInt(n, 10)} }

// Uint returns a number value for an unsigned integer.
func Uint(n uint64) Value { return Value{kind: KindNumber, s: strconv.FormatUint(n, 10)} }

// Float returns a number value using Go's shortest round-trip formatting.
// NaN and infinities are not rejected.
func Float(f float64) Value { return float(f, 64) }

func float(f float64, bits int) Value {
	return Value{kind: KindNumber, s: strconv.FormatFloat(f, 'g', -1, bits)}
}

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Sequence returns an ordered collection of values.
func Sequence(elems ...Value) Value {
	return Value{kind: KindSequence, seq: append([]Value(nil), elems...)}
}

// Mapping returns an insertion-ordered mapping. A repeated key keeps the
// position of its first occurrence and takes the value of its last.
func Mapping(members ...Member) Value {
	out := make([]Member, 0, len(members))
	index := make(map[string]int, len(members))
	for _, m := range members {
		if i, ok := index[m.Key]; ok {
			out[i].Value = m.Value
			continue
		}
		index[m.Key] = len(out)
		out = append(out, m)
	}
	return Value{kind: KindMapping, members: out}
}

// Kind reports the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Truth returns the boolean held by v; false for any other kind.
func (v Value) Truth() bool { return v.kind == KindBool && v.b }

// Str returns the text of a Text value or the decimal form of a Number.
func (v Value) Str() string {
	if v.kind == KindText || v.kind == KindNumber {
		return v.s
	}
	return ""
}

// Len returns the number of elements or members; 0 for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return len(v.members)
	}
	return 0
}

// Elems returns a copy of the elements of a Sequence.
func (v Value) Elems() []Value {
	if v.kind != KindSequence {
		return nil
	}
	return append([]Value(nil), v.seq...)
}

// Members returns a copy of the members of a Mapping in insertion order.
func (v Value) Members() []Member {
	if v.kind != KindMapping {
		return nil
	}
	return append([]Member(nil), v.members...)
}

// Lookup returns the value stored under key in a Mapping.
func (v Value) Lookup(key string) (Value, bool) {
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Equal reports structural equality. Numbers compare by canonical text and
// mapping members compare in order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber, KindText:
		return v.s == o.s
	case KindSequence:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.members) != len(o.members) {
			return false
		}
		for i := range v.members {
			if v.members[i].Key != o.members[i].Key || !v.members[i].Value.Equal(o.members[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// String returns the JSON encoding of v, or a diagnostic if v cannot be encoded.
func (v Value) String() string {
	s, err := Encode(v)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}

var kindType = reflect.TypeOf(Kind(0))
