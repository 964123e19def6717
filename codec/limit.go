package codec

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/tojson"
)

var ErrPayloadTooLarge = errors.New("codec: payload too large")

// Limit wraps another decoder and rejects payloads longer than MaxDecode
// bytes without invoking Inner. If MaxDecode <= 0, size limiting is disabled.
//
// Typical use: protect the encoder against oversized inputs read from stdin or
// a shared store.
type Limit struct {
	// Inner is the underlying decoder. It must be set.
	Inner     Decoder
	MaxDecode int
}

func (l Limit) Decode(b []byte) (tojson.Value, error) {
	if l.MaxDecode > 0 && len(b) > l.MaxDecode {
		return tojson.Value{}, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(b), l.MaxDecode)
	}
	return l.Inner.Decode(b)
}
