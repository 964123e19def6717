package codec

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/unkn0wn-root/tojson"
)

// CBOROptions bounds what a CBOR payload may contain. Zero fields use the
// fxamacker/cbor defaults.
type CBOROptions struct {
	MaxNestedLevels  int
	MaxArrayElements int
	MaxMapPairs      int
}

// CBOR decodes CBOR payloads using fxamacker/cbor.
// The zero value is NOT ready to use. Construct with NewCBOR or MustCBOR.
//
// Duplicate map keys are rejected so mappings stay unique. Maps arrive as Go
// maps, so member order follows tojson.From (sorted keys). Byte strings and
// tags are rejected as unsupported types.
type CBOR struct {
	dec cbor.DecMode
}

var _ Decoder = CBOR{}

func NewCBOR(o CBOROptions) (CBOR, error) {
	dm, err := cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		MaxNestedLevels:  o.MaxNestedLevels,
		MaxArrayElements: o.MaxArrayElements,
		MaxMapPairs:      o.MaxMapPairs,
	}.DecMode()
	if err != nil {
		return CBOR{}, err
	}
	return CBOR{dec: dm}, nil
}

// MustCBOR is like NewCBOR but panics on error.
// Handy for package-level variables and tests.
func MustCBOR(o CBOROptions) CBOR {
	c, err := NewCBOR(o)
	if err != nil {
		panic(err)
	}
	return c
}

// Decode decodes b using the configured DecMode. Trailing bytes are an error.
func (c CBOR) Decode(b []byte) (tojson.Value, error) {
	var x any
	if err := c.dec.Unmarshal(b, &x); err != nil {
		return tojson.Value{}, err
	}
	return tojson.From(x)
}
