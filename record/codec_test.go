package record

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/sst/errs"
	"github.com/arloliu/sst/format"
)

func TestAppendEncoded_Char(t *testing.T) {
	buf, err := Encode(Char('a'))
	require.NoError(t, err)
	require.Equal(t, []byte{2, 0, 0, 0, 0x00, 0x80, 'a', 0}, buf)
	require.Equal(t, Size(Char('a')), len(buf))
}

func TestAppendEncoded_String(t *testing.T) {
	buf, err := Encode(String("abc"))
	require.NoError(t, err)
	require.Equal(t, []byte{3, 0, 0, 0, 3, 0, 'a', 'b', 'c'}, buf)

	// "阿" is 3 UTF-8 bytes but one UTF-16 code unit
	buf, err = Encode(String("阿"))
	require.NoError(t, err)
	require.Equal(t, 3, PayloadLen(buf))
	require.Equal(t, uint16(1), engine.Uint16(buf[4:6]))

	// a supplementary rune needs a surrogate pair
	buf, err = Encode(String("😀"))
	require.NoError(t, err)
	require.Equal(t, 4, PayloadLen(buf))
	require.Equal(t, uint16(2), engine.Uint16(buf[4:6]))
}

func TestAppendEncoded_Null(t *testing.T) {
	buf, err := Encode(Null())
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0, 0x01, 0x80}, buf)

	var zero Value
	zeroBuf, err := Encode(zero)
	require.NoError(t, err)
	require.Equal(t, buf, zeroBuf)
}

func TestAppendEncoded_EmptyString(t *testing.T) {
	buf, err := Encode(String(""))
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0, 0, 0}, buf)

	v, n, err := Decode(buf)
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.Equal(t, format.KindString, v.Kind())
	require.False(t, v.IsNull())
}

func TestAppendEncoded_Appends(t *testing.T) {
	buf, err := AppendEncoded(nil, String("ab"))
	require.NoError(t, err)
	buf, err = AppendEncoded(buf, Char('z'))
	require.NoError(t, err)
	require.Len(t, buf, Size(String("ab"))+Size(Char('z')))

	v, n, err := Decode(buf)
	require.NoError(t, err)
	require.Equal(t, "ab", v.Text())

	v, _, err = Decode(buf[n:])
	require.NoError(t, err)
	require.Equal(t, uint16('z'), v.Char())
}

func TestDiscriminator(t *testing.T) {
	require.Equal(t, uint16(0), Discriminator(0))
	require.Equal(t, uint16(5), Discriminator(5))
	require.Equal(t, DiscFolded, Discriminator(0x8000))
	require.Equal(t, DiscFolded, Discriminator(0x8001))
	require.Equal(t, uint16(0x8002), Discriminator(0x8002))
	require.Equal(t, DiscFolded, Discriminator(0x18000))
	require.Equal(t, uint16(4), Discriminator(0x10004))
}

func TestDecode_RoundTrip(t *testing.T) {
	values := []Value{
		Char('a'),
		Char('阿'),
		Char(0xD800),
		String(""),
		String("abc"),
		String("привет мир"),
		String("日本語テキスト"),
		String(strings.Repeat("x", 0x8000)),
		Null(),
	}

	for _, want := range values {
		buf, err := Encode(want)
		require.NoError(t, err)

		got, n, err := Decode(buf)
		require.NoError(t, err)
		require.Equal(t, len(buf), n)
		require.True(t, want.Equal(got), "want %v got %v", want, got)
	}
}

func TestDecode_Short(t *testing.T) {
	buf, err := Encode(String("hello"))
	require.NoError(t, err)

	for i := range len(buf) {
		require.False(t, HasFullRecord(buf[:i]))
		_, _, err := Decode(buf[:i])
		require.ErrorIs(t, err, errs.ErrShortRecord)
	}
	require.True(t, HasFullRecord(buf))
	require.Equal(t, -1, RecordLen(buf[:5]))
	require.Equal(t, len(buf), RecordLen(buf))
}

func TestDecode_Invalid(t *testing.T) {
	// char discriminator with a 3 byte payload
	_, _, err := Decode([]byte{3, 0, 0, 0, 0x00, 0x80, 1, 2, 3})
	require.ErrorIs(t, err, errs.ErrInvalidRecord)

	// null discriminator with a payload
	_, _, err = Decode([]byte{1, 0, 0, 0, 0x01, 0x80, 1})
	require.ErrorIs(t, err, errs.ErrInvalidRecord)
}

func TestMatcher(t *testing.T) {
	encode := func(v Value) []byte {
		buf, err := Encode(v)
		require.NoError(t, err)

		return buf
	}

	tests := []struct {
		name   string
		query  Value
		stored Value
		want   bool
	}{
		{"char equal", Char('a'), Char('a'), true},
		{"char differs", Char('a'), Char('z'), false},
		{"char vs string", Char('a'), String("a"), false},
		{"string equal", String("abc"), String("abc"), true},
		{"string prefix", String("ab"), String("abc"), false},
		{"string longer", String("abc"), String("ab"), false},
		{"string same length", String("abd"), String("abc"), false},
		{"string vs char", String("a"), Char('a'), false},
		{"multibyte equal", String("阿里"), String("阿里"), true},
		{"same bytes different utf16 len", String("阿"), String("abc"), false},
		{"empty string", String(""), String(""), true},
		{"empty vs null", String(""), Null(), false},
		{"null equal", Null(), Null(), true},
		{"null vs empty", Null(), String(""), false},
		{"folded equal", String(strings.Repeat("q", 0x8000)), String(strings.Repeat("q", 0x8000)), true},
		{"folded differs", String(strings.Repeat("q", 0x8000)), String(strings.Repeat("q", 0x7FFF)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatcher(tt.query)
			buf := encode(tt.stored)
			matched, n := m.Match(buf)
			require.Equal(t, tt.want, matched)
			require.Equal(t, len(buf), n)
		})
	}
}

func TestValue_Text(t *testing.T) {
	require.Equal(t, "a", Char('a').Text())
	require.Equal(t, "阿", Char('阿').Text())
	require.Equal(t, "�", Char(0xD800).Text())
	require.Equal(t, "abc", String("abc").Text())
	require.Equal(t, "", Null().Text())
	require.True(t, Null().IsNull())
	require.False(t, String("").IsNull())
}

func TestValue_Equal(t *testing.T) {
	require.True(t, Char('a').Equal(Char('a')))
	require.False(t, Char('a').Equal(String("a")))
	require.True(t, Null().Equal(Value{}))
	require.False(t, String("").Equal(Null()))
	require.Equal(t, Char('a').Hash(), Char('a').Hash())
	require.NotEqual(t, Char('a').Hash(), String("a").Hash())
}

func TestHashEncoded(t *testing.T) {
	for _, v := range []Value{Char('a'), Char('阿'), String(""), String("abc"), String("阿里"), Null()} {
		buf, err := Encode(v)
		require.NoError(t, err)
		require.Equal(t, v.Hash(), HashEncoded(buf), "kind %s", v.Kind())
	}
}

func TestUTF16Len(t *testing.T) {
	require.Equal(t, 0, UTF16Len(""))
	require.Equal(t, 3, UTF16Len("abc"))
	require.Equal(t, 2, UTF16Len("阿里"))
	require.Equal(t, 2, UTF16Len("😀"))
	require.Equal(t, 1, UTF16Len("\xff"))
}

func BenchmarkMatcher_String(b *testing.B) {
	buf, _ := Encode(String("abcdefghijklmn"))
	m := NewMatcher(String("abcdefghijklmx"))

	b.ReportAllocs()
	for b.Loop() {
		m.Match(buf)
	}
}
