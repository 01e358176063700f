package section

// offsets and section sizes in the table file
const (
	TableHeaderSize = 4               // fixed header size in bytes, holds the record count
	LogOffset       = TableHeaderSize // byte offset where the record log starts
)

// snapshot layout
const (
	SnapshotMagic      = "SSTZ"
	SnapshotVersion    = 1
	SnapshotHeaderSize = 12
	BlockHeaderSize    = 8
	MaxBlockSize       = 1 << 20 // upper bound on the raw size of one snapshot block
)
