package record

import (
	"bytes"
	"fmt"
	"math"

	"github.com/arloliu/sst/endian"
	"github.com/arloliu/sst/errs"
	"github.com/arloliu/sst/format"
	"github.com/arloliu/sst/internal/hash"
)

const (
	// HeaderSize is the fixed size of a record header: u32 payload length + u16 discriminator.
	HeaderSize = 6

	// CharPayloadSize is the payload size of a character record.
	CharPayloadSize = 2

	// MaxPayloadSize is the largest payload the u32 length field may carry.
	// Kept at the signed 32-bit range so readers on any platform can index it.
	MaxPayloadSize = math.MaxInt32

	// DiscChar marks a character record. It is not a valid folded UTF-16 length.
	DiscChar uint16 = 0x8000

	// DiscNull marks a null record.
	DiscNull uint16 = 0x8001

	// DiscFolded replaces string lengths whose low 16 bits collide with a reserved discriminator.
	DiscFolded uint16 = 0x7FFF
)

var engine = endian.GetLittleEndianEngine()

// Discriminator returns the discriminator stored for a string with the given UTF-16 length.
//
// The length is truncated to 16 bits; values colliding with DiscChar or DiscNull
// are stored as DiscFolded.
func Discriminator(utf16Len int) uint16 {
	d := uint16(utf16Len) //nolint:gosec
	if d == DiscChar || d == DiscNull {
		return DiscFolded
	}

	return d
}

// Size returns the encoded size of v in bytes, header included.
func Size(v Value) int {
	switch v.Kind() {
	case format.KindChar:
		return HeaderSize + CharPayloadSize
	case format.KindString:
		return HeaderSize + len(v.str)
	default:
		return HeaderSize
	}
}

// AppendEncoded appends the encoded record of v to dst.
//
// Encoding format:
//   - 4 bytes: payload length (little-endian)
//   - 2 bytes: discriminator (DiscChar, DiscNull, or the folded UTF-16 length)
//   - N bytes: payload (code unit for chars, UTF-8 bytes for strings, empty for null)
//
// Parameters:
//   - dst: Destination slice, may be nil
//   - v: Value to encode
//
// Returns:
//   - []byte: dst extended by Size(v) bytes
//   - error: errs.ErrValueTooLarge if the string payload exceeds MaxPayloadSize
func AppendEncoded(dst []byte, v Value) ([]byte, error) {
	switch v.Kind() {
	case format.KindChar:
		dst = engine.AppendUint32(dst, CharPayloadSize)
		dst = engine.AppendUint16(dst, DiscChar)
		dst = engine.AppendUint16(dst, v.char)
	case format.KindString:
		if len(v.str) > MaxPayloadSize {
			return dst, fmt.Errorf("%w: %d bytes", errs.ErrValueTooLarge, len(v.str))
		}
		dst = engine.AppendUint32(dst, uint32(len(v.str))) //nolint:gosec
		dst = engine.AppendUint16(dst, Discriminator(UTF16Len(v.str)))
		dst = append(dst, v.str...)
	default:
		dst = engine.AppendUint32(dst, 0)
		dst = engine.AppendUint16(dst, DiscNull)
	}

	return dst, nil
}

// Encode returns the encoded record of v in a new slice.
func Encode(v Value) ([]byte, error) {
	return AppendEncoded(make([]byte, 0, Size(v)), v)
}

// PayloadLen returns the declared payload length of the record at the start of buf.
// The caller must ensure len(buf) >= 4.
func PayloadLen(buf []byte) int {
	return int(engine.Uint32(buf[0:4]))
}

// RecordLen returns the full length of the record at the start of buf, or -1
// when buf does not yet hold the record header.
func RecordLen(buf []byte) int {
	if len(buf) < HeaderSize {
		return -1
	}

	return HeaderSize + PayloadLen(buf)
}

// HasFullRecord reports whether buf starts with a complete record: the header
// is present and the declared payload fits in the remaining bytes.
func HasFullRecord(buf []byte) bool {
	n := RecordLen(buf)
	return n >= 0 && n <= len(buf)
}

// Decode decodes the record at the start of buf.
//
// Parameters:
//   - buf: Bytes starting at a record boundary
//
// Returns:
//   - Value: Decoded value (the string is copied out of buf)
//   - int: Number of bytes consumed
//   - error: errs.ErrShortRecord if buf holds a partial record,
//     errs.ErrInvalidRecord if the payload length contradicts the discriminator
func Decode(buf []byte) (Value, int, error) {
	if !HasFullRecord(buf) {
		return Value{}, 0, errs.ErrShortRecord
	}

	n := PayloadLen(buf)
	disc := engine.Uint16(buf[4:6])
	total := HeaderSize + n

	switch disc {
	case DiscChar:
		if n != CharPayloadSize {
			return Value{}, 0, fmt.Errorf("%w: char record with %d byte payload", errs.ErrInvalidRecord, n)
		}

		return Char(engine.Uint16(buf[HeaderSize:total])), total, nil
	case DiscNull:
		if n != 0 {
			return Value{}, 0, fmt.Errorf("%w: null record with %d byte payload", errs.ErrInvalidRecord, n)
		}

		return Null(), total, nil
	default:
		return String(string(buf[HeaderSize:total])), total, nil
	}
}

// Matcher compares encoded records against a query value without decoding them.
//
// A char query matches only char records with the same code unit. A string
// query matches only string records whose discriminator equals the query's,
// then compares the UTF-8 payload byte by byte, stopping at the first
// difference. A null query matches only null records.
type Matcher struct {
	kind    format.Kind
	disc    uint16
	char    uint16
	payload []byte
}

// NewMatcher builds a Matcher for v.
func NewMatcher(v Value) Matcher {
	m := Matcher{kind: v.Kind()}

	switch m.kind {
	case format.KindChar:
		m.disc = DiscChar
		m.char = v.char
	case format.KindString:
		m.disc = Discriminator(UTF16Len(v.str))
		m.payload = []byte(v.str)
	default:
		m.disc = DiscNull
	}

	return m
}

// Match reports whether the complete record at the start of buf equals the query.
// The caller must ensure HasFullRecord(buf).
//
// Returns:
//   - bool: true on a match
//   - int: length of the inspected record, to advance past it
func (m *Matcher) Match(buf []byte) (bool, int) {
	n := PayloadLen(buf)
	total := HeaderSize + n

	disc := engine.Uint16(buf[4:6])
	if disc != m.disc {
		return false, total
	}

	switch m.kind {
	case format.KindChar:
		return n == CharPayloadSize && engine.Uint16(buf[HeaderSize:total]) == m.char, total
	case format.KindString:
		return n == len(m.payload) && bytes.Equal(buf[HeaderSize:total], m.payload), total
	default:
		return n == 0, total
	}
}

// HashEncoded returns the same hash as Value.Hash for the complete record at
// the start of buf. The caller must ensure HasFullRecord(buf).
func HashEncoded(buf []byte) uint64 {
	total := HeaderSize + PayloadLen(buf)
	payload := buf[HeaderSize:total]

	switch engine.Uint16(buf[4:6]) {
	case DiscChar:
		return hash.Payload(format.KindChar, payload)
	case DiscNull:
		return hash.Payload(format.KindNull, payload)
	default:
		return hash.Payload(format.KindString, payload)
	}
}
