package format

import "strings"

type (
	Kind            uint8
	CompressionType uint8
)

const (
	KindChar   Kind = 0x1 // KindChar represents a single UTF-16 code unit.
	KindString Kind = 0x2 // KindString represents a UTF-8 encoded string.
	KindNull   Kind = 0x3 // KindNull represents an absent value.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (k Kind) String() string {
	switch k {
	case KindChar:
		return "Char"
	case KindString:
		return "String"
	case KindNull:
		return "Null"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression maps a case-insensitive compression name to its type.
// The empty string maps to CompressionNone.
func ParseCompression(name string) (CompressionType, bool) {
	switch strings.ToLower(name) {
	case "", "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
