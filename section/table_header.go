package section

import (
	"github.com/arloliu/sst/endian"
	"github.com/arloliu/sst/errs"
)

// TableHeader is the fixed 4-byte header at offset 0 of a table file.
//
// Count is only meaningful after the table was committed; while a table is
// being written the on-disk value is zero or stale.
type TableHeader struct {
	// Count is the number of records in the log.
	Count uint32 // 4 bytes, offset 0-3
}

// Parse parses the header from a byte slice.
// It returns an error if the data is not exactly TableHeaderSize bytes.
func (h *TableHeader) Parse(data []byte) error {
	if len(data) != TableHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	h.Count = endian.GetLittleEndianEngine().Uint32(data[0:4])

	return nil
}

// Bytes serializes the TableHeader into a byte slice.
func (h *TableHeader) Bytes() []byte {
	return h.AppendBytes(make([]byte, 0, TableHeaderSize))
}

// AppendBytes appends the serialized header to dst.
func (h *TableHeader) AppendBytes(dst []byte) []byte {
	return endian.GetLittleEndianEngine().AppendUint32(dst, h.Count)
}

// ParseTableHeader parses the header at the start of data.
// Data shorter than the header yields a zero count.
func ParseTableHeader(data []byte) TableHeader {
	var h TableHeader
	if len(data) < TableHeaderSize {
		return h
	}
	_ = h.Parse(data[:TableHeaderSize])

	return h
}
