package tojson

import (
	"math"
	"math/big"
	"reflect"
	"sort"
	"strings"
)

// Valuer is implemented by types that convert themselves into a Value.
type Valuer interface {
	JSONValue() (Value, error)
}

// Object is an insertion-ordered mapping of native values. Use it instead of a
// Go map when member order matters.
type Object []Field

// Field is one member of an Object.
type Field struct {
	Key   string
	Value any
}

// Containers on the current path are tracked only past this depth.
const startDetectingCyclesAfter = 1000

// From converts native Go data into a Value.
//
// Maps keyed by strings become mappings with sorted keys; an Object keeps its
// order. A map[K]struct{} is a set and becomes a Sequence of its sorted keys. Maps with interface keys, such as those produced by msgpack or CBOR
// decoders, are accepted when every key holds a string. Byte slices, structs,
// channels, functions and complex numbers are rejected.
func From(x any) (Value, error) {
	var w walker
	return w.from(x)
}

type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

type walker struct {
	depth int
	seen  map[visit]struct{}
}

func (w *walker) from(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case Valuer:
		if rv := reflect.ValueOf(x); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return Null(), nil
		}
		return t.JSONValue()
	case bool:
		return Bool(t), nil
	case string:
		return Text(t), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint64:
		return Uint(t), nil
	case float64:
		return Float(t), nil
	case float32:
		return float(float64(t), 32), nil
	case []byte:
		return Value{}, &UnsupportedTypeError{Type: reflect.TypeOf(x)}
	case Object:
		return w.object(t)
	case []any:
		if t == nil {
			return Null(), nil
		}
		return w.enter(reflect.ValueOf(t), func() (Value, error) {
			out := make([]Value, len(t))
			for i, el := range t {
				v, err := w.from(el)
				if err != nil {
					return Value{}, err
				}
				out[i] = v
			}
			return Value{kind: KindSequence, seq: out}, nil
		})
	}
	return w.reflect(reflect.ValueOf(x))
}

func (w *walker) reflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil
	case reflect.Float32:
		return float(rv.Float(), 32), nil
	case reflect.Float64:
		return float(rv.Float(), 64), nil
	case reflect.String:
		return Text(rv.String()), nil
	case reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return w.from(rv.Elem().Interface())
	case reflect.Pointer:
		if rv.IsNil() {
			return Null(), nil
		}
		return w.enter(rv, func() (Value, error) { return w.from(rv.Elem().Interface()) })
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			break
		}
		if rv.IsNil() {
			return Null(), nil
		}
		return w.enter(rv, func() (Value, error) { return w.sequence(rv) })
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			break
		}
		return w.sequence(rv)
	case reflect.Map:
		if rv.IsNil() {
			return Null(), nil
		}
		if isSet(rv.Type()) {
			return w.enter(rv, func() (Value, error) { return w.set(rv) })
		}
		return w.enter(rv, func() (Value, error) { return w.mapping(rv) })
	}
	var t reflect.Type
	if rv.IsValid() {
		t = rv.Type()
	}
	return Value{}, &UnsupportedTypeError{Type: t}
}

func (w *walker) sequence(rv reflect.Value) (Value, error) {
	n := rv.Len()
	out := make([]Value, n)
	for i := 0; i < n; i++ {
		v, err := w.from(rv.Index(i).Interface())
		if err != nil {
			return Value{}, err
		}
		out[i] = v
	}
	return Value{kind: KindSequence, seq: out}, nil
}

// mapping validates every key before converting any value.
func (w *walker) mapping(rv reflect.Value) (Value, error) {
	keys := make([]string, 0, rv.Len())
	byKey := make(map[string]reflect.Value, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		if k.Kind() == reflect.Interface {
			if k.IsNil() {
				return Value{}, &UnsupportedKeyTypeError{Key: nil}
			}
			k = k.Elem()
		}
		if k.Kind() != reflect.String {
			return Value{}, &UnsupportedKeyTypeError{Key: k.Interface()}
		}
		keys = append(keys, k.String())
		byKey[k.String()] = iter.Value()
	}
	sort.Strings(keys)

	members := make([]Member, len(keys))
	for i, k := range keys {
		v, err := w.from(byKey[k].Interface())
		if err != nil {
			return Value{}, err
		}
		members[i] = Member{Key: k, Value: v}
	}
	return Value{kind: KindMapping, members: members}, nil
}

// isSet reports whether t is a map used as a set: map[K]struct{}.
func isSet(t reflect.Type) bool {
	e := t.Elem()
	return e.Kind() == reflect.Struct && e.NumField() == 0
}

// set converts the keys of a map[K]struct{} into a sorted Sequence.
func (w *walker) set(rv reflect.Value) (Value, error) {
	type elem struct {
		key reflect.Value
		v   Value
	}
	elems := make([]elem, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		v, err := w.from(k.Interface())
		if err != nil {
			return Value{}, err
		}
		if k.Kind() == reflect.Interface && !k.IsNil() {
			k = k.Elem()
		}
		elems = append(elems, elem{key: k, v: v})
	}
	sort.SliceStable(elems, func(i, j int) bool {
		a, b := elems[i], elems[j]
		if c := compareKeys(a.key, b.key); c != 0 {
			return c < 0
		}
		return a.v.String() < b.v.String()
	})

	out := make([]Value, len(elems))
	for i, e := range elems {
		out[i] = e.v
	}
	return Value{kind: KindSequence, seq: out}, nil
}

// Set keys order as booleans, then numbers, then strings, then anything
// else by its encoding.
const (
	rankBool = iota
	rankNumber
	rankString
	rankOther
)

func keyRank(k reflect.Value) int {
	switch k.Kind() {
	case reflect.Bool:
		return rankBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return rankNumber
	case reflect.String:
		return rankString
	}
	return rankOther
}

// compareKeys returns 0 when a and b are not ordered by value.
func compareKeys(a, b reflect.Value) int {
	ra, rb := keyRank(a), keyRank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case rankBool:
		switch {
		case a.Bool() == b.Bool():
			return 0
		case b.Bool():
			return -1
		}
		return 1
	case rankNumber:
		return compareNumbers(a, b)
	case rankString:
		return strings.Compare(a.String(), b.String())
	}
	return 0
}

// compareNumbers compares exactly across int, uint and float kinds.
// NaN sorts before every other number.
func compareNumbers(a, b reflect.Value) int {
	fa, nanA := exactNumber(a)
	fb, nanB := exactNumber(b)
	switch {
	case nanA && nanB:
		return 0
	case nanA:
		return -1
	case nanB:
		return 1
	}
	return fa.Cmp(fb)
}

func exactNumber(k reflect.Value) (*big.Float, bool) {
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return new(big.Float).SetInt64(k.Int()), false
	case reflect.Float32, reflect.Float64:
		f := k.Float()
		if math.IsNaN(f) {
			return nil, true
		}
		return new(big.Float).SetFloat64(f), false
	}
	return new(big.Float).SetUint64(k.Uint()), false
}

func (w *walker) object(o Object) (Value, error) {
	members := make([]Member, len(o))
	for i, f := range o {
		v, err := w.from(f.Value)
		if err != nil {
			return Value{}, err
		}
		members[i] = Member{Key: f.Key, Value: v}
	}
	return Mapping(members...), nil
}

// enter runs fn one level deeper, tracking rv's identity once the walk is deep
// enough that a cycle is plausible.
func (w *walker) enter(rv reflect.Value, fn func() (Value, error)) (Value, error) {
	w.depth++
	defer func() { w.depth-- }()
	if w.depth <= startDetectingCyclesAfter {
		return fn()
	}

	key := visit{ptr: rv.Pointer(), typ: rv.Type()}
	if rv.Kind() == reflect.Slice {
		key.len = rv.Len()
	}
	if _, ok := w.seen[key]; ok {
		return Value{}, &CycleError{Type: rv.Type()}
	}
	if w.seen == nil {
		w.seen = make(map[visit]struct{})
	}
	w.seen[key] = struct{}{}
	defer delete(w.seen, key)
	return fn()
}
