// Package codec turns binary payloads into tojson values. Each Decoder owns
// one input format; the result is handed to tojson.Encode by the caller.
package codec

import "github.com/unkn0wn-root/tojson"

// Decoder decodes a payload into a tojson.Value.
type Decoder interface {
	Decode([]byte) (tojson.Value, error)
}

// Format names understood by transcode and the CLI.
const (
	FormatMsgpack  = "msgpack"
	FormatCBOR     = "cbor"
	FormatProtobuf = "protobuf"
	FormatText     = "text"
)

// Defaults returns a decoder for every built-in format.
func Defaults() map[string]Decoder {
	return map[string]Decoder{
		FormatMsgpack:  Msgpack{},
		FormatCBOR:     MustCBOR(CBOROptions{}),
		FormatProtobuf: Protobuf{},
		FormatText:     Text{},
	}
}
