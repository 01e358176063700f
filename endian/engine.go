// Package endian provides the byte order used by the value table's on-disk format.
//
// The table header and every record length/discriminator field are stored
// little-endian. EndianEngine combines binary.ByteOrder and
// binary.AppendByteOrder so encoders can append directly into pooled buffers:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, uint32(len(payload)))
//	buf = engine.AppendUint16(buf, disc)
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine used by the table format.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
