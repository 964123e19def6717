package tojson

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrUnsupportedType    = errors.New("tojson: unsupported type")
	ErrUnsupportedKeyType = errors.New("tojson: unsupported key type")
	ErrCycle              = errors.New("tojson: cycle detected")
)

// UnsupportedTypeError is returned for a value outside the
// null/bool/number/text/sequence/mapping domain.
type UnsupportedTypeError struct {
	Type  reflect.Type
	Value any // offending value, when it helps diagnosis
}

func (e *UnsupportedTypeError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("tojson: type not supported: %s (%v)", typeName(e.Type), e.Value)
	}
	return "tojson: type not supported: " + typeName(e.Type)
}

func (e *UnsupportedTypeError) Is(target error) bool { return target == ErrUnsupportedType }

// UnsupportedKeyTypeError is returned for a mapping whose key is not text.
type UnsupportedKeyTypeError struct {
	Key any
}

func (e *UnsupportedKeyTypeError) Error() string {
	return fmt.Sprintf("tojson: mapping keys must be text, got %T (%v)", e.Key, e.Key)
}

func (e *UnsupportedKeyTypeError) Is(target error) bool { return target == ErrUnsupportedKeyType }

// CycleError is returned by From when a container is reached again while it
// is still being converted.
type CycleError struct {
	Type reflect.Type
}

func (e *CycleError) Error() string {
	return "tojson: encountered a cycle via " + typeName(e.Type)
}

func (e *CycleError) Is(target error) bool { return target == ErrCycle }

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
