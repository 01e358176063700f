// Package fs provides the filesystem abstraction the table uses for its
// backing file.
//
// The main types are:
//   - [FS]: interface for the filesystem operations a table needs
//   - [File]: interface for an open backing file (satisfied by [os.File])
//   - [Real]: production implementation using the [os] package
//   - [Faulty]: testing implementation that fails chosen operations
//
// Paths use OS semantics, like the os package and path/filepath.
package fs

import (
	"io"
	"os"
)

// File represents an open backing file.
//
// Tables write with positioned writes and read with positioned reads, so a
// File never relies on a shared seek offset. [File] is satisfied by [os.File].
type File interface {
	io.Reader
	io.ReaderAt
	io.WriterAt
	io.Closer

	// Name returns the name of the file as presented to Open. See [os.File.Name].
	Name() string

	// Stat returns the [os.FileInfo] for this file. See [os.File.Stat].
	Stat() (os.FileInfo, error)

	// Sync commits the file's contents to disk. See [os.File.Sync].
	Sync() error
}

// FS defines the filesystem operations needed to create, reopen and delete
// backing files.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type FS interface {
	// CreateTemp creates a new uniquely named file opened for reading and
	// writing. See [os.CreateTemp].
	CreateTemp(dir, pattern string) (File, error)

	// Open opens a file for reading. See [os.Open].
	Open(path string) (File, error)

	// OpenFile opens a file with specified flags and permissions. See [os.OpenFile].
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// Stat returns file info. See [os.Stat].
	Stat(path string) (os.FileInfo, error)

	// Remove deletes a file. See [os.Remove].
	Remove(path string) error
}

// Compile-time interface checks.
var (
	_ File = (*os.File)(nil)
	_ FS   = (*Real)(nil)
)
