package fs

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReal_CreateTempReadWrite(t *testing.T) {
	fsys := NewReal()

	f, err := fsys.CreateTemp(t.TempDir(), "+*.sst")
	require.NoError(t, err)

	_, err = f.WriteAt([]byte("hello"), 4)
	require.NoError(t, err)

	buf := make([]byte, 5)
	_, err = f.ReadAt(buf, 4)
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf))

	info, err := f.Stat()
	require.NoError(t, err)
	require.Equal(t, int64(9), info.Size())

	name := f.Name()
	require.NoError(t, f.Close())
	require.NoError(t, fsys.Remove(name))

	_, err = fsys.Stat(name)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFaulty_FailAt(t *testing.T) {
	fsys := NewFaulty(NewReal())
	path := filepath.Join(t.TempDir(), "data")

	f, err := fsys.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	require.NoError(t, err)
	defer f.Close()

	fsys.FailAt(OpWrite, 2)

	_, err = f.WriteAt([]byte("a"), 0)
	require.NoError(t, err)

	_, err = f.WriteAt([]byte("b"), 1)
	require.Error(t, err)
	require.True(t, errors.Is(err, syscall.EIO))
	require.ErrorIs(t, err, ErrInjected)
	require.Equal(t, 2, fsys.Calls(OpWrite))

	// only the armed call fails
	_, err = f.WriteAt([]byte("c"), 1)
	require.NoError(t, err)

	fsys.FailAt(OpRead, 1)
	_, err = f.ReadAt(make([]byte, 1), 0)
	require.ErrorIs(t, err, ErrInjected)

	fsys.FailAt(OpRead, 0)
	_, err = f.ReadAt(make([]byte, 1), 0)
	require.NoError(t, err)
}

func TestFaulty_Open(t *testing.T) {
	fsys := NewFaulty(NewReal())
	fsys.FailAt(OpOpen, 1)

	_, err := fsys.CreateTemp(t.TempDir(), "x")
	require.ErrorIs(t, err, ErrInjected)
	require.Equal(t, "open", OpOpen.String())
}
