package snapshot

import (
	"bufio"
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

// ReadHeader reads and validates the header of the snapshot at path.
func ReadHeader(path string) (section.SnapshotHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return section.SnapshotHeader{}, errs.NewIOError("open", path, err)
	}
	defer f.Close()

	return readHeader(f)
}

func readHeader(r io.Reader) (section.SnapshotHeader, error) {
	var (
		h   section.SnapshotHeader
		buf [section.SnapshotHeaderSize]byte
	)
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return h, fmt.Errorf("%w: header: %w", errs.ErrCorruptSnapshot, err)
	}
	if err := h.Parse(buf[:]); err != nil {
		return h, err
	}

	return h, nil
}

// Restore rebuilds the table file dst from the snapshot src.
//
// The restored file is committed (its header holds the record count) and
// replaces dst atomically.
//
// Returns:
//   - int: Record count of the restored table
//   - error: errs.ErrInvalidMagicNumber, errs.ErrUnsupportedVersion,
//     errs.ErrCorruptSnapshot, or an errs.IOError
func Restore(src, dst string, opts ...Option) (int, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return 0, err
	}

	f, err := os.Open(src)
	if err != nil {
		return 0, errs.NewIOError("open", src, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	header, err := readHeader(r)
	if err != nil {
		return 0, err
	}

	pr, pw := io.Pipe()
	done := make(chan struct{})
	var (
		stats compress.Stats
		rerr  error
	)
	go func() {
		defer close(done)
		stats, rerr = restoreTo(pw, r, header)
		_ = pw.CloseWithError(rerr)
	}()

	err = atomic.WriteFile(dst, pr)
	_ = pr.CloseWithError(errClosedPipe)
	<-done
	if rerr != nil && !errors.Is(rerr, errClosedPipe) {
		return 0, rerr
	}
	if err != nil {
		return 0, errs.NewIOError("write", dst, err)
	}

	cfg.logger.Info("snapshot restored",
		"source", src,
		"path", dst,
		"count", header.Count,
		"compression", header.Compression.String(),
		"blocks", stats.Blocks,
	)

	return int(header.Count), nil
}

// restoreTo writes the table file encoded by the snapshot body in r to w.
func restoreTo(w io.Writer, r io.Reader, header section.SnapshotHeader) (compress.Stats, error) {
	stats := compress.Stats{Algorithm: header.Compression}

	codec, err := compress.GetCodec(header.Compression)
	if err != nil {
		return stats, fmt.Errorf("%w: %w", errs.ErrCorruptSnapshot, err)
	}

	th := section.TableHeader{Count: header.Count}
	if _, err := w.Write(th.Bytes()); err != nil {
		return stats, err
	}

	in := pool.GetSnapshotBuffer()
	defer pool.PutSnapshotBuffer(in)
	out := pool.GetSnapshotBuffer()
	defer pool.PutSnapshotBuffer(out)

	digest := xxhash.New()
	var hdr [section.BlockHeaderSize]byte

	for {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return stats, fmt.Errorf("%w: block header: %w", errs.ErrCorruptSnapshot, err)
		}

		var bh section.BlockHeader
		if err := bh.Parse(hdr[:]); err != nil {
			return stats, err
		}
		if bh.IsEnd() {
			break
		}
		if bh.RawSize > section.MaxBlockSize || bh.CompressedSize > bh.RawSize {
			return stats, fmt.Errorf("%w: block sizes %d/%d", errs.ErrCorruptSnapshot, bh.RawSize, bh.CompressedSize)
		}

		in.Reset()
		in.Grow(int(bh.CompressedSize))
		in.B = in.B[:bh.CompressedSize]
		if _, err := io.ReadFull(r, in.B); err != nil {
			return stats, fmt.Errorf("%w: block data: %w", errs.ErrCorruptSnapshot, err)
		}

		block := in.B
		if bh.CompressedSize < bh.RawSize {
			out.Reset()
			block, err = codec.Decompress(out.B, in.B, int(bh.RawSize))
			if err != nil {
				return stats, fmt.Errorf("%w: %w", errs.ErrCorruptSnapshot, err)
			}
			out.B = block
		}

		_, _ = digest.Write(block)
		stats.Add(len(block), int(bh.CompressedSize))
		if _, err := w.Write(block); err != nil {
			return stats, err
		}
	}

	var sum [8]byte
	if _, err := io.ReadFull(r, sum[:]); err != nil {
		return stats, fmt.Errorf("%w: checksum: %w", errs.ErrCorruptSnapshot, err)
	}
	if want := endian.GetLittleEndianEngine().Uint64(sum[:]); want != digest.Sum64() {
		return stats, fmt.Errorf("%w: checksum mismatch", errs.ErrCorruptSnapshot)
	}

	return stats, nil
}

// Load restores src into a scratch file in dir and opens it as a table.
// The scratch file is deleted when the table is closed. An empty dir selects
// os.TempDir.
func Load(src, dir string, opts ...table.Option) (*table.Table, error) {
	f, err := os.CreateTemp(dir, "+*.sst")
	if err != nil {
		return nil, errs.NewIOError("create", dir, err)
	}
	path := f.Name()
	_ = f.Close()

	if _, err := Restore(src, path); err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	opts = append(opts, table.WithDeleteOnClose(true))
	t, err := table.Open(path, opts...)
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	return t, nil
}
