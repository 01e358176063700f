package section

import (
	"github.com/arloliu/sst/endian"
	"github.com/arloliu/sst/errs"
	"github.com/arloliu/sst/format"
)

// SnapshotHeader is the fixed 12-byte header of a compressed table snapshot.
//
// Layout:
//   - Magic (4 bytes, offset 0-3): "SSTZ"
//   - Version (1 byte, offset 4)
//   - Compression (1 byte, offset 5)
//   - Reserved (2 bytes, offset 6-7), must be zero
//   - Count (4 bytes, offset 8-11): record count of the source table
type SnapshotHeader struct {
	Version     uint8
	Compression format.CompressionType
	Reserved    [2]byte
	Count       uint32
}

// NewSnapshotHeader creates a version 1 header.
func NewSnapshotHeader(compression format.CompressionType, count uint32) *SnapshotHeader {
	return &SnapshotHeader{
		Version:     SnapshotVersion,
		Compression: compression,
		Count:       count,
	}
}

// Parse parses the header from a byte slice.
// It returns an error if the data is not exactly SnapshotHeaderSize bytes,
// the magic number does not match, or the version is newer than supported.
func (h *SnapshotHeader) Parse(data []byte) error {
	if len(data) != SnapshotHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	if string(data[0:4]) != SnapshotMagic {
		return errs.ErrInvalidMagicNumber
	}

	h.Version = data[4]
	h.Compression = format.CompressionType(data[5])
	copy(h.Reserved[:], data[6:8])
	h.Count = endian.GetLittleEndianEngine().Uint32(data[8:12])

	if h.Version == 0 || h.Version > SnapshotVersion {
		return errs.ErrUnsupportedVersion
	}

	return nil
}

// Bytes serializes the SnapshotHeader into a byte slice.
func (h *SnapshotHeader) Bytes() []byte {
	b := make([]byte, 0, SnapshotHeaderSize)
	b = append(b, SnapshotMagic...)
	b = append(b, h.Version, uint8(h.Compression))
	b = append(b, h.Reserved[:]...)

	return endian.GetLittleEndianEngine().AppendUint32(b, h.Count)
}

// BlockHeader precedes every compressed block of a snapshot.
// A block with RawSize zero terminates the block stream.
type BlockHeader struct {
	RawSize        uint32 // 4 bytes, offset 0-3
	CompressedSize uint32 // 4 bytes, offset 4-7
}

// Parse parses the block header from a byte slice.
func (h *BlockHeader) Parse(data []byte) error {
	if len(data) != BlockHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	engine := endian.GetLittleEndianEngine()
	h.RawSize = engine.Uint32(data[0:4])
	h.CompressedSize = engine.Uint32(data[4:8])

	return nil
}

// AppendBytes appends the serialized block header to dst.
func (h *BlockHeader) AppendBytes(dst []byte) []byte {
	engine := endian.GetLittleEndianEngine()
	dst = engine.AppendUint32(dst, h.RawSize)

	return engine.AppendUint32(dst, h.CompressedSize)
}

// IsEnd reports whether h terminates the block stream.
func (h *BlockHeader) IsEnd() bool {
	return h.RawSize == 0
}
