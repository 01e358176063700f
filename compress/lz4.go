package compress

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool reuses block compressors and their hash tables.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// maxLZ4BlockSize bounds the output of a decompression without a known size.
const maxLZ4BlockSize = 128 * 1024 * 1024

// LZ4Compressor is an LZ4 block codec, the fastest to restore.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress appends the LZ4 block encoding of src to dst.
// It returns ErrIncompressible when LZ4 cannot shrink src.
func (c LZ4Compressor) Compress(dst, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return dst, nil
	}

	bound := lz4.CompressBlockBound(len(src))
	start := len(dst)
	dst = slices.Grow(dst, bound)

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(src, dst[start:start+bound])
	if err != nil {
		return dst[:start], err
	}
	if n == 0 {
		return dst[:start], ErrIncompressible
	}

	return dst[:start+n], nil
}

// Decompress appends the decoded LZ4 block src to dst.
//
// Without rawSize the output buffer starts at four times the input and
// doubles until the block fits, up to 128MiB.
func (c LZ4Compressor) Decompress(dst, src []byte, rawSize int) ([]byte, error) {
	if len(src) == 0 {
		return dst, checkSize(0, rawSize)
	}

	size := rawSize
	if size <= 0 {
		size = len(src) * 4
	}

	start := len(dst)
	for size <= maxLZ4BlockSize {
		dst = slices.Grow(dst[:start], size)
		n, err := lz4.UncompressBlock(src, dst[start:start+size])
		if err == nil {
			if err := checkSize(n, rawSize); err != nil {
				return dst[:start], err
			}

			return dst[:start+n], nil
		}

		if rawSize > 0 || !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
			return dst[:start], fmt.Errorf("lz4 decompression failed: %w", err)
		}
		size *= 2
	}

	return dst[:start], lz4.ErrInvalidSourceShortBuffer
}
