// Package sst provides an append-only, disk-backed value table for building
// and reading large spreadsheet documents.
//
// A table hands out a stable sequential index for every value pushed into it
// (a UTF-16 character, a string or null) while keeping memory flat: encoded
// values are spilled to a scratch file through a small write buffer. Indices
// are recovered by scanning the file, or through an optional in-memory hash
// index; values are recovered in push order with an iterator.
//
// # Core Features
//
//   - Sequential indices, first occurrence wins on lookup
//   - Constant memory regardless of table size (hash index optional)
//   - Self-describing file: a 4-byte record count followed by the record log
//   - Reopen a committed file and keep appending
//   - Compressed snapshots (None, Zstd, S2, LZ4), written atomically
//
// # Basic Usage
//
//	t, err := sst.NewDefault()
//	if err != nil {
//	    return err
//	}
//	defer t.Close()
//
//	t.PushString("Name")   // 0
//	t.PushString("Amount") // 1
//	t.PushChar('x')        // 2
//
//	idx, _ := t.FindString("Amount") // 1
//
//	for text, err := range t.All() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(text)
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the table and
// snapshot packages. For fine-grained control use those packages directly;
// the record package exposes the on-disk record codec.
package sst

import (
	"github.com/arloliu/sst/compress"
	"github.com/arloliu/sst/record"
	"github.com/arloliu/sst/snapshot"
	"github.com/arloliu/sst/table"
)

// NotFound is the index reported for a value that is not in a table.
const NotFound = table.NotFound

// New creates a table backed by a scratch file that is deleted on Close.
//
// Parameters:
//   - opts: Optional table configuration (buffer size, temp dir, hash index, logger, ...)
//
// Returns:
//   - *table.Table: Empty table
//   - error: Invalid option or I/O failure
//
// Example:
//
//	t, err := sst.New(
//	    table.WithTempDir("/var/tmp"),
//	    table.WithHashIndex(true),
//	)
func New(opts ...table.Option) (*table.Table, error) {
	return table.New(opts...)
}

// NewDefault creates a table with the default configuration: a 2KiB write
// buffer, scratch file in os.TempDir and scan-based lookups.
func NewDefault() (*table.Table, error) {
	return table.New()
}

// NewIndexed creates a table whose lookups go through an in-memory hash
// index instead of scanning the file.
func NewIndexed(opts ...table.Option) (*table.Table, error) {
	return table.New(append(opts, table.WithHashIndex(true))...)
}

// Open reopens a committed table file. The file is kept on Close unless
// table.WithDeleteOnClose(true) is given.
func Open(path string, opts ...table.Option) (*table.Table, error) {
	return table.Open(path, opts...)
}

// Save writes a compressed snapshot of t to path. See snapshot.Save.
func Save(t *table.Table, path string, opts ...snapshot.Option) (compress.Stats, error) {
	return snapshot.Save(t, path, opts...)
}

// Load restores the snapshot at path into a scratch table deleted on Close.
func Load(path string, opts ...table.Option) (*table.Table, error) {
	return snapshot.Load(path, "", opts...)
}

// ValueHash returns the 64-bit xxHash of a value, the key of the table hash index.
func ValueHash(v record.Value) uint64 {
	return v.Hash()
}
