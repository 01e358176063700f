package sst

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/sst/format"
	"github.com/arloliu/sst/record"
	"github.com/arloliu/sst/snapshot"
	"github.com/arloliu/sst/table"
)

func TestNewDefault(t *testing.T) {
	tbl, err := NewDefault()
	require.NoError(t, err)
	defer tbl.Close()

	require.False(t, tbl.Indexed())
	require.Equal(t, 0, tbl.Size())
}

func TestNewIndexed(t *testing.T) {
	tbl, err := NewIndexed(table.WithTempDir(t.TempDir()))
	require.NoError(t, err)
	defer tbl.Close()

	require.True(t, tbl.Indexed())

	idx, err := tbl.PushString("Amount")
	require.NoError(t, err)
	found, err := tbl.FindString("Amount")
	require.NoError(t, err)
	require.Equal(t, idx, found)

	found, err = tbl.FindString("missing")
	require.NoError(t, err)
	require.Equal(t, NotFound, found)
}

func TestNewOpenRoundTrip(t *testing.T) {
	tbl, err := New(table.WithTempDir(t.TempDir()), table.WithDeleteOnClose(false))
	require.NoError(t, err)

	for _, s := range []string{"Name", "Amount", "Total"} {
		_, err := tbl.PushString(s)
		require.NoError(t, err)
	}
	path := tbl.Path()
	require.NoError(t, tbl.Close())

	reopened, err := Open(path, table.WithDeleteOnClose(true))
	require.NoError(t, err)
	defer reopened.Close()

	var got []string
	for s, err := range reopened.All() {
		require.NoError(t, err)
		got = append(got, s)
	}
	require.Equal(t, []string{"Name", "Amount", "Total"}, got)
}

func TestSaveLoad(t *testing.T) {
	tbl, err := New(table.WithTempDir(t.TempDir()))
	require.NoError(t, err)
	defer tbl.Close()

	_, err = tbl.PushString("α")
	require.NoError(t, err)
	_, err = tbl.PushNull()
	require.NoError(t, err)

	snap := filepath.Join(t.TempDir(), "t.sstz")
	stats, err := Save(tbl, snap, snapshot.WithCompression(format.CompressionS2))
	require.NoError(t, err)
	require.Equal(t, 1, stats.Blocks)

	loaded, err := Load(snap, table.WithHashIndex(true))
	require.NoError(t, err)
	defer loaded.Close()

	found, err := loaded.Find(record.Null())
	require.NoError(t, err)
	require.Equal(t, 1, found)
}

func TestValueHash(t *testing.T) {
	require.Equal(t, ValueHash(record.String("a")), ValueHash(record.String("a")))
	require.NotEqual(t, ValueHash(record.String("a")), ValueHash(record.Char('a')))
	require.NotEqual(t, ValueHash(record.Null()), ValueHash(record.String("")))
}
