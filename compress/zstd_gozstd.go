//go:build gozstd

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"
)

// Compress appends the Zstandard frame of src to dst.
func (c ZstdCompressor) Compress(dst, src []byte) ([]byte, error) {
	return gozstd.CompressLevel(dst, src, zstdLevel), nil
}

// Decompress appends the decoded Zstandard frame src to dst.
func (c ZstdCompressor) Decompress(dst, src []byte, rawSize int) ([]byte, error) {
	if len(src) == 0 {
		return dst, checkSize(0, rawSize)
	}

	start := len(dst)
	out, err := gozstd.Decompress(dst, src)
	if err != nil {
		return dst, fmt.Errorf("zstd decompression failed: %w", err)
	}
	if err := checkSize(len(out)-start, rawSize); err != nil {
		return dst, err
	}

	return out, nil
}
