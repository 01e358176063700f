package compress

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/sst/format"
)

var allTypes = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
}

// recordLike builds a block resembling a record log: short, repetitive strings.
func recordLike(n int) []byte {
	var buf bytes.Buffer
	for i := 0; buf.Len() < n; i++ {
		fmt.Fprintf(&buf, "\x0b\x00\x00\x00\x0b\x00cell-%05d", i%300)
	}

	return buf.Bytes()[:n]
}

func randomBytes(n int) []byte {
	rng := rand.New(rand.NewPCG(11, 13))
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(rng.UintN(256))
	}

	return data
}

func TestCodec_RoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"empty":  {},
		"small":  []byte("hello"),
		"record": recordLike(64 * 1024),
	}

	for _, ct := range allTypes {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		for name, input := range inputs {
			t.Run(ct.String()+"/"+name, func(t *testing.T) {
				compressed, err := codec.Compress(nil, input)
				if err == ErrIncompressible {
					return
				}
				require.NoError(t, err)

				decompressed, err := codec.Decompress(nil, compressed, len(input))
				require.NoError(t, err)
				require.Equal(t, len(input), len(decompressed))
				require.True(t, bytes.Equal(input, decompressed))
			})
		}
	}
}

func TestCodec_AppendsToDestination(t *testing.T) {
	input := recordLike(4096)
	prefix := []byte("prefix")

	for _, ct := range allTypes {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := CreateCodec(ct, "test")
			require.NoError(t, err)

			dst := append([]byte(nil), prefix...)
			compressed, err := codec.Compress(dst, input)
			require.NoError(t, err)
			require.Equal(t, prefix, compressed[:len(prefix)])

			out := append([]byte(nil), prefix...)
			out, err = codec.Decompress(out, compressed[len(prefix):], len(input))
			require.NoError(t, err)
			require.Equal(t, prefix, out[:len(prefix)])
			require.Equal(t, input, out[len(prefix):])
		})
	}
}

func TestCodec_CompressesRecordData(t *testing.T) {
	input := recordLike(64 * 1024)

	for _, ct := range allTypes[1:] {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(nil, input)
			require.NoError(t, err)
			require.Less(t, len(compressed), len(input)/2)
		})
	}
}

func TestCodec_SizeMismatch(t *testing.T) {
	input := recordLike(1024)

	for _, ct := range allTypes {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(nil, input)
			require.NoError(t, err)

			_, err = codec.Decompress(nil, compressed, len(input)+1)
			require.Error(t, err)
		})
	}
}

func TestLZ4_UnknownRawSize(t *testing.T) {
	input := bytes.Repeat([]byte("a"), 100_000)
	codec := NewLZ4Compressor()

	compressed, err := codec.Compress(nil, input)
	require.NoError(t, err)

	out, err := codec.Decompress(nil, compressed, 0)
	require.NoError(t, err)
	require.Equal(t, input, out)
}

func TestLZ4_Incompressible(t *testing.T) {
	codec := NewLZ4Compressor()

	out, err := codec.Compress([]byte("keep"), randomBytes(4096))
	if err != nil {
		require.ErrorIs(t, err, ErrIncompressible)
		require.Equal(t, []byte("keep"), out)
	}
}

func TestCodec_CorruptInput(t *testing.T) {
	garbage := []byte{0xff, 0xfe, 0xfd, 0xfc, 0xfb, 0xfa, 0xf9, 0xf8}

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2} {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			_, err = codec.Decompress(nil, garbage, 100)
			require.Error(t, err)
		})
	}
}

func TestCreateCodec_Invalid(t *testing.T) {
	_, err := CreateCodec(format.CompressionType(0x7f), "snapshot")
	require.ErrorContains(t, err, "invalid snapshot compression")

	_, err = GetCodec(format.CompressionType(0x7f))
	require.Error(t, err)
}

func TestStats(t *testing.T) {
	var s Stats
	require.Zero(t, s.CompressionRatio())
	require.Zero(t, s.SpaceSavings())

	s.Add(1000, 250)
	s.Add(1000, 250)
	require.Equal(t, 2, s.Blocks)
	require.InDelta(t, 0.25, s.CompressionRatio(), 1e-9)
	require.InDelta(t, 75.0, s.SpaceSavings(), 1e-9)
}

func BenchmarkCodec_Compress(b *testing.B) {
	input := recordLike(64 * 1024)

	for _, ct := range allTypes {
		b.Run(ct.String(), func(b *testing.B) {
			codec, _ := GetCodec(ct)
			dst := make([]byte, 0, len(input)*2)

			b.SetBytes(int64(len(input)))
			b.ReportAllocs()
			for b.Loop() {
				dst, _ = codec.Compress(dst[:0], input)
			}
		})
	}
}

func BenchmarkCodec_Decompress(b *testing.B) {
	input := recordLike(64 * 1024)

	for _, ct := range allTypes {
		b.Run(ct.String(), func(b *testing.B) {
			codec, _ := GetCodec(ct)
			compressed, _ := codec.Compress(nil, input)
			dst := make([]byte, 0, len(input))

			b.SetBytes(int64(len(input)))
			b.ReportAllocs()
			for b.Loop() {
				dst, _ = codec.Decompress(dst[:0], compressed, len(input))
			}
		})
	}
}
