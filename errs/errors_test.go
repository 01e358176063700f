package errs

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIOError(t *testing.T) {
	require.NoError(t, NewIOError("read", "x", nil))

	err := NewIOError("read", "/tmp/a.sst", io.ErrUnexpectedEOF)
	require.ErrorIs(t, err, ErrIO)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	require.Equal(t, "sst: read /tmp/a.sst: unexpected EOF", err.Error())

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	require.Equal(t, "read", ioErr.Op)
	require.Equal(t, "/tmp/a.sst", ioErr.Path)
}

func TestIOError_NoPath(t *testing.T) {
	err := NewIOError("flush", "", io.ErrShortWrite)
	require.Equal(t, "sst: flush: short write", err.Error())
	require.NotErrorIs(t, err, ErrClosed)
}
