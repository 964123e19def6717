package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

const (
	version   byte = 1
	kindEntry byte = 1

	hdrLen = 4 + 1 + 1 + 8 + 1 // magic | ver | kind | gen | flen
)

var (
	ErrCorrupt = errors.New("tojson: corrupt cache entry")
	magic4     = [...]byte{'T', 'J', 'S', 'N'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Entry: magic(4) | ver(1) | kind(1=entry) | gen(u64 be) | flen(u8) | format(flen) | sum(u64 be) | tlen(u32 be) | text(tlen)
//
// gen is the format generation observed when the entry was written.
// sum is the xxhash64 of text. It catches foreign or torn writes that still
// carry a valid header.
func EncodeEntry(gen uint64, format string, text []byte) ([]byte, error) {
	if l := len(format); l == 0 || l > 0xFF {
		return nil, fmt.Errorf("tojson: invalid format length %d", l)
	}

	var buf bytes.Buffer
	buf.Grow(hdrLen + len(format) + 8 + 4 + len(text))

	var u8 [8]byte
	var u4 [4]byte

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindEntry)
	binary.BigEndian.PutUint64(u8[:], gen)
	buf.Write(u8[:])
	buf.WriteByte(byte(len(format)))
	buf.WriteString(format)

	binary.BigEndian.PutUint64(u8[:], xxhash.Sum64(text))
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(text)))
	buf.Write(u4[:])

	buf.Write(text)
	return buf.Bytes(), nil
}

// DecodeEntry validates b and returns its generation, format and a zero-copy
// text slice.
func DecodeEntry(b []byte) (gen uint64, format string, text []byte, err error) {
	if len(b) < hdrLen || !hasMagic(b) || b[4] != version || b[5] != kindEntry {
		return 0, "", nil, ErrCorrupt
	}
	off := 6
	gen = binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	flen := int(b[off])
	off++
	if flen == 0 || flen > len(b)-off {
		return 0, "", nil, ErrCorrupt
	}
	format = string(b[off : off+flen])
	off += flen

	if off+8+4 > len(b) {
		return 0, "", nil, ErrCorrupt
	}
	sum := binary.BigEndian.Uint64(b[off : off+8])
	off += 8
	tlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4

	if tlen < 0 || tlen != len(b)-off { // short, long and trailing bytes all fail
		return 0, "", nil, ErrCorrupt
	}
	text = b[off : off+tlen]
	if xxhash.Sum64(text) != sum {
		return 0, "", nil, ErrCorrupt
	}
	return gen, format, text, nil
}
