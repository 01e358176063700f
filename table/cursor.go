package table

import (
	"errors"
	"io"

	"github.com/arloliu/sst/errs"
	"github.com/arloliu/sst/internal/pool"
	"github.com/arloliu/sst/record"
	"github.com/arloliu/sst/section"
)

const noMark = -1

// cursor is the read position used by lookups. It is independent of the
// append offset owned by the backing store.
type cursor struct {
	pos  int64 // absolute file offset
	mark int64
}

func newCursor() cursor {
	return cursor{pos: section.LogOffset, mark: noMark}
}

// setMark remembers the current position.
func (c *cursor) setMark() {
	c.mark = c.pos
}

// reset returns to the marked position and clears the mark.
func (c *cursor) reset() error {
	if c.mark == noMark {
		return errs.ErrInvalidMark
	}
	c.pos = c.mark
	c.mark = noMark

	return nil
}

// skip positions the cursor at off bytes past the start of the record log.
func (c *cursor) skip(off int64) {
	c.pos = section.LogOffset + off
}

// scanner yields complete records from a file region, refilling its window
// with positioned reads. A trailing partial record ends the scan.
type scanner struct {
	r     io.ReaderAt
	limit int64
	path  string
	buf   *pool.ByteBuffer
	base  int64 // file offset of buf.B[0]
	head  int   // consumed bytes in buf
	eof   bool
}

// newScanner reads records in [start, limit) from r.
func newScanner(r io.ReaderAt, path string, start, limit int64) *scanner {
	return &scanner{
		r:     io.NewSectionReader(r, 0, limit),
		limit: limit,
		path:  path,
		buf:   pool.GetScanBuffer(),
		base:  start,
	}
}

// next returns the next record and its absolute file offset.
// The returned slice is only valid until the following call.
// At the end of the region it returns a nil record and a nil error.
func (s *scanner) next() ([]byte, int64, error) {
	for {
		window := s.buf.B[s.head:]
		if record.HasFullRecord(window) {
			n := record.RecordLen(window)
			off := s.base + int64(s.head)
			s.head += n

			return window[:n], off, nil
		}

		if s.eof {
			return nil, 0, nil
		}

		if err := s.refill(); err != nil {
			return nil, 0, err
		}
	}
}

// offset returns the absolute file offset of the next unread record.
func (s *scanner) offset() int64 {
	return s.base + int64(s.head)
}

// refill drops consumed bytes, grows the window for an oversized record
// and reads more of the region. A record running past the region end is
// partial and ends the scan without being read.
func (s *scanner) refill() error {
	s.base += int64(s.head)
	s.buf.Compact(s.head)
	s.head = 0

	if need := record.RecordLen(s.buf.B); need > s.buf.Cap() {
		if int64(need) > s.limit-s.base {
			s.eof = true
			return nil
		}
		s.buf.Grow(need - s.buf.Len())
	}

	_, err := s.buf.Fill(s.r, s.base+int64(s.buf.Len()))
	if errors.Is(err, io.EOF) {
		s.eof = true
		return nil
	}

	return errs.NewIOError("read", s.path, err)
}

// release returns the window to the pool. The scanner must not be used afterwards.
func (s *scanner) release() {
	pool.PutScanBuffer(s.buf)
	s.buf = nil
}
