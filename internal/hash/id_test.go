package hash

import (
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/sst/format"
)

func TestValue_IsXXHash(t *testing.T) {
	require.Equal(t, xxhash.Sum64([]byte{byte(format.KindNull)}), Value(format.KindNull, 0, ""))
}

func TestValue(t *testing.T) {
	require.Equal(t, Value(format.KindString, 0, "abc"), Value(format.KindString, 0, "abc"))
	require.NotEqual(t, Value(format.KindString, 0, "a"), Value(format.KindChar, 'a', ""))
	require.NotEqual(t, Value(format.KindString, 0, ""), Value(format.KindNull, 0, ""))
	require.NotEqual(t, Value(format.KindChar, 'a', ""), Value(format.KindChar, 'b', ""))

	// text is ignored for chars and nulls
	require.Equal(t, Value(format.KindNull, 0, ""), Value(format.KindNull, 0, "ignored"))
	require.Equal(t, Value(format.KindChar, 'z', ""), Value(format.KindChar, 'z', "ignored"))
}

func TestPayload_MatchesValue(t *testing.T) {
	require.Equal(t, Value(format.KindChar, 0x963F, ""), Payload(format.KindChar, []byte{0x3F, 0x96}))
	require.Equal(t, Value(format.KindString, 0, "阿里"), Payload(format.KindString, []byte("阿里")))
	require.Equal(t, Value(format.KindString, 0, ""), Payload(format.KindString, nil))
	require.Equal(t, Value(format.KindNull, 0, ""), Payload(format.KindNull, nil))
}
