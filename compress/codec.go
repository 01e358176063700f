package compress

import (
	"errors"
	"fmt"

	"github.com/arloliu/sst/format"
)

// ErrIncompressible is returned by a Compressor that cannot shrink its input.
// Callers store such blocks uncompressed.
var ErrIncompressible = errors.New("compress: incompressible input")

// Compressor compresses one block at a time.
type Compressor interface {
	// Compress appends the compressed form of src to dst and returns the
	// extended slice. src is not modified and must not overlap dst.
	Compress(dst, src []byte) ([]byte, error)
}

// Decompressor reverses a Compressor.
type Decompressor interface {
	// Decompress appends the decompressed form of src to dst.
	//
	// rawSize is the exact decompressed size when the caller knows it, or 0.
	// Codecs use it to size the output once; a mismatch is an error.
	Decompress(dst, src []byte, rawSize int) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// Stats summarizes a compression run.
type Stats struct {
	// Algorithm identifies the codec used.
	Algorithm format.CompressionType

	// OriginalSize is the number of bytes before compression.
	OriginalSize int64

	// CompressedSize is the number of bytes after compression, framing excluded.
	CompressedSize int64

	// Blocks is the number of blocks written.
	Blocks int
}

// Add accounts for one block.
func (s *Stats) Add(raw, compressed int) {
	s.OriginalSize += int64(raw)
	s.CompressedSize += int64(compressed)
	s.Blocks++
}

// CompressionRatio returns compressed size / original size, or 0 for empty input.
func (s Stats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space saved as a percentage.
func (s Stats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.CompressionRatio()) * 100.0
}

// CreateCodec returns a new codec for compressionType.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//   - target: Description of target usage (for error messages)
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the shared built-in codec for compressionType.
// Built-in codecs are safe for concurrent use.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// checkSize verifies a decompressed block against the size the caller expects.
func checkSize(got, rawSize int) error {
	if rawSize > 0 && got != rawSize {
		return fmt.Errorf("decompressed %d bytes, expected %d", got, rawSize)
	}

	return nil
}
