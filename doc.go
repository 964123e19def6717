// Package tojson encodes a closed set of values as compact JSON text.
// Values are null, booleans, numbers, text, sequences and insertion-ordered
// mappings with text keys. Encoding is a pure function; there is no parser.
//
// Components:
//   - Value: the tagged union (Null, Bool, Int/Uint/Float, Text, Sequence, Mapping).
//   - Encode: Value -> JSON text, or a typed error.
//   - From: native Go data -> Value. The only place runtime type inspection happens.
//
// Text escaping is minimal: only backslash and double quote are escaped.
//
//	v := tojson.Mapping(
//		tojson.Member{Key: "a", Value: tojson.Int(1)},
//		tojson.Member{Key: "b", Value: tojson.Sequence(tojson.Bool(true), tojson.Null())},
//	)
//	s, _ := tojson.Encode(v) // {"a":1,"b":[true,null]}
//
// Outer layers live in subpackages: codec (msgpack/CBOR/protobuf inputs),
// provider (byte stores), genstore (per-format cache generations), transcode
// (cached decode-then-encode) and cmd/tojson.
package tojson
