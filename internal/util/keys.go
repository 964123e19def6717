package util

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// ContentKey returns the storage key for payload decoded as format:
// enc:<ns>:<format>:<xxhash64 hex>.
func ContentKey(ns, format string, payload []byte) string {
	d := xxhash.New()
	_, _ = d.WriteString(format)
	_, _ = d.Write([]byte{0})
	_, _ = d.Write(payload)
	return "enc:" + ns + ":" + format + ":" + strconv.FormatUint(d.Sum64(), 16)
}
