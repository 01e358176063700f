// Package errs defines the errors returned by the value table packages.
//
// Callers should use [errors.Is] and [errors.As] to check error types:
//
//	idx, err := t.Find(record.String("abc"))
//	if errors.Is(err, errs.ErrIO) {
//	    // the table is in an undefined state, close and discard it
//	}
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrIO is matched by every [IOError]. A table that returned it must be closed.
	ErrIO = errors.New("sst: i/o failure")

	// ErrInvalidMark is returned by a cursor reset without a prior mark.
	ErrInvalidMark = errors.New("sst: reset without mark")

	// ErrClosed is returned by operations on a closed table or iterator.
	ErrClosed = errors.New("sst: closed")

	// ErrReadOnly is returned by Push and Commit on a table opened with WithReadOnly.
	ErrReadOnly = errors.New("sst: table is read-only")

	// ErrInconsistentLog is returned when a reopened file's record log does not
	// hold exactly the records its header counts.
	ErrInconsistentLog = errors.New("sst: record log does not match header count")

	// ErrTableFull is returned when the record count would overflow the 32-bit header.
	ErrTableFull = errors.New("sst: table full")

	// ErrValueTooLarge is returned when an encoded value exceeds the payload length field.
	ErrValueTooLarge = errors.New("sst: value too large")

	// ErrShortRecord is returned when a buffer holds an incomplete record.
	ErrShortRecord = errors.New("sst: short record")

	// ErrInvalidRecord is returned when a record's header contradicts its discriminator.
	ErrInvalidRecord = errors.New("sst: invalid record")

	// ErrInvalidHeaderSize is returned when a table header is not exactly 4 bytes.
	ErrInvalidHeaderSize = errors.New("sst: invalid header size")

	// ErrInvalidBufferSize is returned for a write buffer smaller than the minimum.
	ErrInvalidBufferSize = errors.New("sst: invalid buffer size")

	// ErrInvalidMagicNumber is returned when a snapshot does not start with the snapshot magic.
	ErrInvalidMagicNumber = errors.New("sst: invalid magic number")

	// ErrUnsupportedVersion is returned for a snapshot written by a newer format version.
	ErrUnsupportedVersion = errors.New("sst: unsupported snapshot version")

	// ErrCorruptSnapshot is returned when a snapshot block or trailer is inconsistent.
	ErrCorruptSnapshot = errors.New("sst: corrupt snapshot")
)

// IOError records a failed backing-store operation.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// NewIOError wraps err, returning nil when err is nil.
func NewIOError(op, path string, err error) error {
	if err == nil {
		return nil
	}

	return &IOError{Op: op, Path: path, Err: err}
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("sst: %s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("sst: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Is reports ErrIO as a match so callers need not know the concrete type.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}
