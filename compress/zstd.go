package compress

// zstdLevel is the compression level shared by both Zstandard backends.
const zstdLevel = 3

// ZstdCompressor is a Zstandard block codec with the best compression ratio,
// suited to snapshots kept for a long time.
//
// The pure Go implementation from klauspost/compress is used by default;
// building with the gozstd tag switches to the cgo binding valyala/gozstd.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
