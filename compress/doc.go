// Package compress provides the block codecs used by table snapshots.
//
// Every codec appends to a caller-supplied destination so snapshot writers
// and readers can reuse pooled buffers across blocks:
//
//	codec, err := compress.GetCodec(format.CompressionS2)
//	if err != nil {
//	    return err
//	}
//	block, err := codec.Compress(buf[:0], raw)
//
// Available codecs:
//   - None: stores blocks as-is
//   - Zstd: best ratio; pure Go (klauspost/compress) by default, cgo
//     (valyala/gozstd) when built with the gozstd tag
//   - S2: fast Snappy-compatible compression (klauspost/compress/s2)
//   - LZ4: fastest decompression (pierrec/lz4)
//
// Record logs are dominated by short strings that repeat across rows, which
// all of the codecs above compress well.
package compress
