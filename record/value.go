package record

import (
	"unicode/utf16"

	"github.com/arloliu/sst/format"
	"github.com/arloliu/sst/internal/hash"
)

// Value is a tagged union of the three kinds of entries a table stores:
// a single UTF-16 code unit, a string, or null.
//
// The zero Value is Null.
type Value struct {
	kind format.Kind
	char uint16
	str  string
}

// Char returns a character value holding one UTF-16 code unit.
func Char(c uint16) Value {
	return Value{kind: format.KindChar, char: c}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: format.KindString, str: s}
}

// Null returns the null value.
func Null() Value {
	return Value{kind: format.KindNull}
}

// Kind returns the value's kind.
func (v Value) Kind() format.Kind {
	if v.kind == 0 {
		return format.KindNull
	}

	return v.kind
}

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool {
	return v.Kind() == format.KindNull
}

// Char returns the code unit of a character value, or 0 for other kinds.
func (v Value) Char() uint16 {
	return v.char
}

// Text returns the textual form of the value.
//
// A character value yields a one-character string (an unpaired surrogate
// degrades to U+FFFD), a string value yields itself and null yields "".
func (v Value) Text() string {
	switch v.Kind() {
	case format.KindChar:
		return string(utf16.Decode([]uint16{v.char}))
	case format.KindString:
		return v.str
	default:
		return ""
	}
}

// Equal reports whether v and o have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.Kind() != o.Kind() {
		return false
	}

	switch v.Kind() {
	case format.KindChar:
		return v.char == o.char
	case format.KindString:
		return v.str == o.str
	default:
		return true
	}
}

// Hash returns the xxHash64 of the value's kind and payload.
func (v Value) Hash() uint64 {
	return hash.Value(v.Kind(), v.char, v.str)
}

// UTF16Len returns the number of UTF-16 code units needed to represent s.
//
// Invalid UTF-8 bytes count as one code unit each, matching how range
// decodes them to utf8.RuneError.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}

	return n
}
