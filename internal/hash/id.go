// Package hash computes the value hashes keying the table's lookup index.
package hash

import (
	"github.com/cespare/xxhash/v2"

	"github.com/arloliu/sst/format"
)

// Value computes the xxHash64 of a value's kind tag followed by its payload.
//
// The result equals Payload over the value's encoded payload: the code unit
// little-endian for chars, the UTF-8 bytes for strings, nothing for null.
func Value(kind format.Kind, char uint16, text string) uint64 {
	switch kind {
	case format.KindChar:
		return xxhash.Sum64([]byte{byte(kind), byte(char), byte(char >> 8)})
	case format.KindString:
		d := xxhash.New()
		_, _ = d.Write([]byte{byte(kind)})
		_, _ = d.WriteString(text)

		return d.Sum64()
	default:
		return xxhash.Sum64([]byte{byte(kind)})
	}
}

// Payload computes the xxHash64 of a kind tag followed by an encoded payload.
func Payload(kind format.Kind, payload []byte) uint64 {
	d := xxhash.New()
	_, _ = d.Write([]byte{byte(kind)})
	_, _ = d.Write(payload)

	return d.Sum64()
}
