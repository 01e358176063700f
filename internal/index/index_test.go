package index

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndex_Candidates(t *testing.T) {
	ix := New()
	ix.Add(1, Entry{Ordinal: 0, Offset: 0})
	ix.Add(2, Entry{Ordinal: 1, Offset: 8})
	ix.Add(1, Entry{Ordinal: 2, Offset: 17})
	ix.Add(1, Entry{Ordinal: 3, Offset: 25})

	require.Equal(t, 4, ix.Len())
	require.Equal(t, 2, ix.Distinct())

	got := slices.Collect(ix.Candidates(1, 0))
	require.Equal(t, []Entry{{0, 0}, {2, 17}, {3, 25}}, got)

	got = slices.Collect(ix.Candidates(1, 1))
	require.Equal(t, []Entry{{2, 17}, {3, 25}}, got)

	got = slices.Collect(ix.Candidates(1, 26))
	require.Empty(t, got)

	require.Empty(t, slices.Collect(ix.Candidates(99, 0)))
}

func TestIndex_OrdinalAt(t *testing.T) {
	ix := New()
	require.Equal(t, 0, ix.OrdinalAt(0))

	ix.Add(1, Entry{Ordinal: 0, Offset: 0})
	ix.Add(2, Entry{Ordinal: 1, Offset: 8})
	ix.Add(3, Entry{Ordinal: 2, Offset: 17})

	require.Equal(t, 0, ix.OrdinalAt(0))
	require.Equal(t, 1, ix.OrdinalAt(1))
	require.Equal(t, 1, ix.OrdinalAt(8))
	require.Equal(t, 2, ix.OrdinalAt(9))
	require.Equal(t, 3, ix.OrdinalAt(18))
}

func TestIndex_CandidatesStopEarly(t *testing.T) {
	ix := New()
	for i := range 10 {
		ix.Add(7, Entry{Ordinal: i, Offset: int64(i * 8)})
	}

	var seen []int
	for e := range ix.Candidates(7, 0) {
		seen = append(seen, e.Ordinal)
		if len(seen) == 3 {
			break
		}
	}
	require.Equal(t, []int{0, 1, 2}, seen)
}

func TestIndex_Reset(t *testing.T) {
	ix := New()
	ix.Add(1, Entry{Ordinal: 0})
	ix.Reset()

	require.Equal(t, 0, ix.Len())
	require.Equal(t, 0, ix.Distinct())
	require.Empty(t, slices.Collect(ix.Candidates(1, 0)))
}
