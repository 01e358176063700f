package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/natefinch/atomic"

	"github.com/arloliu/sst/compress"
	"github.com/arloliu/sst/endian"
	"github.com/arloliu/sst/errs"
	"github.com/arloliu/sst/internal/pool"
	"github.com/arloliu/sst/section"
	"github.com/arloliu/sst/table"
)

// errClosedPipe is reported to a block stream whose destination stopped reading.
var errClosedPipe = errors.New("snapshot: destination closed")

// Save commits t and writes a compressed snapshot of it to dst.
// A read-only table is exported as it stands, without a commit.
//
// The snapshot is streamed block by block and replaces dst atomically, so a
// failed Save never leaves a partial file behind. The table stays open.
//
// Parameters:
//   - t: Table to export
//   - dst: Destination path
//   - opts: Optional compression, block size and logger
//
// Returns:
//   - compress.Stats: Raw and compressed byte counts
//   - error: Invalid option, table error, or an errs.IOError
func Save(t *table.Table, dst string, opts ...Option) (compress.Stats, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return compress.Stats{}, err
	}

	if !t.ReadOnly() {
		if err := t.Commit(); err != nil {
			return compress.Stats{}, err
		}
	}

	src, err := os.Open(t.Path())
	if err != nil {
		return compress.Stats{}, errs.NewIOError("open", t.Path(), err)
	}
	defer src.Close()

	pos := t.Position()
	log := io.NewSectionReader(src, section.LogOffset, pos.Offset)
	header := section.NewSnapshotHeader(cfg.compression, uint32(pos.Index)) //nolint:gosec

	var (
		stats compress.Stats
		werr  error
	)
	pr, pw := io.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		stats, werr = writeSnapshot(pw, log, header, cfg)
		_ = pw.CloseWithError(werr)
	}()

	err = atomic.WriteFile(dst, pr)
	// unblock the writer if WriteFile gave up early
	_ = pr.CloseWithError(errClosedPipe)
	<-done
	if werr != nil && !errors.Is(werr, errClosedPipe) {
		return compress.Stats{}, werr
	}
	if err != nil {
		return compress.Stats{}, errs.NewIOError("write", dst, err)
	}

	cfg.logger.Info("snapshot saved",
		"source", t.Path(),
		"path", dst,
		"count", pos.Index,
		"compression", cfg.compression.String(),
		"blocks", stats.Blocks,
		"raw_bytes", stats.OriginalSize,
		"stored_bytes", stats.CompressedSize,
	)

	return stats, nil
}

// writeSnapshot streams header, blocks, end marker and checksum to w.
func writeSnapshot(w io.Writer, log io.Reader, header *section.SnapshotHeader, cfg *config) (compress.Stats, error) {
	stats := compress.Stats{Algorithm: header.Compression}

	codec, err := compress.GetCodec(header.Compression)
	if err != nil {
		return stats, err
	}

	if _, err := w.Write(header.Bytes()); err != nil {
		return stats, err
	}

	raw := pool.GetSnapshotBuffer()
	defer pool.PutSnapshotBuffer(raw)
	out := pool.GetSnapshotBuffer()
	defer pool.PutSnapshotBuffer(out)

	raw.Grow(cfg.blockSize)
	digest := xxhash.New()

	for {
		n, rerr := io.ReadFull(log, raw.B[:cfg.blockSize])
		if n > 0 {
			block := raw.B[:n]
			_, _ = digest.Write(block)

			if err := writeBlock(w, codec, out, block, &stats); err != nil {
				return stats, err
			}
		}

		if errors.Is(rerr, io.EOF) || errors.Is(rerr, io.ErrUnexpectedEOF) {
			break
		}
		if rerr != nil {
			return stats, fmt.Errorf("read table log: %w", rerr)
		}
	}

	end := section.BlockHeader{}
	trailer := end.AppendBytes(make([]byte, 0, section.BlockHeaderSize+8))
	trailer = endian.GetLittleEndianEngine().AppendUint64(trailer, digest.Sum64())
	_, err = w.Write(trailer)

	return stats, err
}

// writeBlock compresses block into out and writes it framed to w.
// Blocks the codec cannot shrink are stored raw.
func writeBlock(w io.Writer, codec compress.Codec, out *pool.ByteBuffer, block []byte, stats *compress.Stats) error {
	out.Reset()
	out.Grow(section.BlockHeaderSize)
	out.B = out.B[:section.BlockHeaderSize]

	compressed, err := codec.Compress(out.B, block)
	switch {
	case errors.Is(err, compress.ErrIncompressible), err == nil && len(compressed)-section.BlockHeaderSize >= len(block):
		out.B = compressed[:section.BlockHeaderSize]
		out.MustWrite(block)
	case err != nil:
		return err
	default:
		out.B = compressed
	}

	stored := out.Len() - section.BlockHeaderSize
	bh := section.BlockHeader{RawSize: uint32(len(block)), CompressedSize: uint32(stored)} //nolint:gosec
	bh.AppendBytes(out.B[:0])
	stats.Add(len(block), stored)

	_, err = out.WriteTo(w)

	return err
}
