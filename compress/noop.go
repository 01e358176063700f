package compress

// NoOpCompressor stores blocks unchanged.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a pass-through codec.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress appends src to dst.
func (c NoOpCompressor) Compress(dst, src []byte) ([]byte, error) {
	return append(dst, src...), nil
}

// Decompress appends src to dst.
func (c NoOpCompressor) Decompress(dst, src []byte, rawSize int) ([]byte, error) {
	if err := checkSize(len(src), rawSize); err != nil {
		return dst, err
	}

	return append(dst, src...), nil
}
