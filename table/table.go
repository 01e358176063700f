package table

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/arloliu/sst/errs"
	"github.com/arloliu/sst/internal/index"
	"github.com/arloliu/sst/internal/pool"
	"github.com/arloliu/sst/record"
	"github.com/arloliu/sst/section"
)

// MaxRecords is the largest number of records the 32-bit count header can describe.
const MaxRecords = math.MaxUint32

// Position identifies a record boundary in the log.
type Position struct {
	Offset int64 // byte offset relative to the first record
	Index  int   // number of records before Offset
}

// Table is an append-only value table backed by a file.
type Table struct {
	cfg    *config
	logger *slog.Logger
	store  *backing
	cur    cursor
	wbuf   *pool.ByteBuffer
	index  *index.Index
	count  int
	remove bool
	closed bool

	verifyErr error
}

// New creates a table backed by a fresh scratch file.
//
// The file is created in the configured temp directory (os.TempDir by
// default) and deleted by Close unless WithDeleteOnClose(false) is given.
//
// Parameters:
//   - opts: Optional configuration (buffer size, temp dir, hash index, logger, ...)
//
// Returns:
//   - *Table: Empty table ready for Push
//   - error: Invalid option, or an errs.IOError if the file cannot be created
func New(opts ...Option) (*Table, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	if cfg.readOnly {
		return nil, fmt.Errorf("%w: New creates a writable scratch file", errs.ErrReadOnly)
	}

	f, err := cfg.fsys.CreateTemp(cfg.tempDir, filePattern)
	if err != nil {
		return nil, errs.NewIOError("create", cfg.tempDir, err)
	}

	t := newTable(cfg, &backing{fsys: cfg.fsys, file: f, path: f.Name(), end: section.LogOffset}, 0)
	t.remove = cfg.deleteOnClose == nil || *cfg.deleteOnClose
	t.logger.Debug("table created", "path", t.store.path)

	return t, nil
}

// Open reopens an existing table file for reading and appending.
//
// The record count is read from the header and the whole log is scanned
// once to check it. With WithHashIndex(true) the same scan rebuilds the
// index. New records are appended at the end of the file.
//
// A writable table needs a log holding exactly the counted records; other
// files are rejected with errs.ErrInconsistentLog, or errs.ErrInvalidHeaderSize
// for a non-empty file shorter than the header. An empty file is an empty
// table. With WithReadOnly(true) such files still open: the problem is logged
// and reported by Verify, and reads stop after the last committed record.
func Open(path string, opts ...Option) (*Table, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	flag := os.O_RDWR
	if cfg.readOnly {
		flag = os.O_RDONLY
	}
	f, err := cfg.fsys.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, errs.NewIOError("open", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errs.NewIOError("stat", path, err)
	}

	size := info.Size()
	hdr := make([]byte, section.TableHeaderSize)
	if size >= section.TableHeaderSize {
		if _, err := f.ReadAt(hdr, 0); err != nil {
			_ = f.Close()
			return nil, errs.NewIOError("read header", path, err)
		}
	}
	header := section.ParseTableHeader(hdr)

	end := max(size, section.LogOffset)
	t := newTable(cfg, &backing{fsys: cfg.fsys, file: f, path: path, end: end}, int(header.Count))
	t.remove = cfg.deleteOnClose != nil && *cfg.deleteOnClose

	layout, err := t.survey(size)
	if err == nil {
		t.verifyErr = layout.check(t.count)
		if t.verifyErr != nil && !cfg.readOnly {
			err = t.verifyErr
		}
	}
	if err != nil {
		_ = f.Close()
		pool.PutWriteBuffer(t.wbuf)

		return nil, err
	}

	if cfg.readOnly {
		t.store.end = layout.committed
	}
	if t.verifyErr != nil {
		t.logger.Warn("table log inconsistent", "path", path, "error", t.verifyErr)
	}

	t.logger.Debug("table opened", "path", path, "count", t.count, "size", size, "read_only", cfg.readOnly)

	return t, nil
}

func newTable(cfg *config, store *backing, count int) *Table {
	t := &Table{
		cfg:    cfg,
		logger: cfg.logger,
		store:  store,
		cur:    newCursor(),
		wbuf:   pool.GetWriteBuffer(cfg.bufferSize),
		count:  count,
	}
	if cfg.hashIndex {
		t.index = index.New()
	}

	return t
}

// logLayout describes the records physically present in a table file.
type logLayout struct {
	size      int64 // file size
	records   int   // complete records in the log
	committed int64 // absolute offset just past the last counted record
	partial   int64 // bytes of a trailing partial record
}

// survey scans the whole log, indexing the first count records when the
// hash index is enabled.
func (t *Table) survey(size int64) (logLayout, error) {
	l := logLayout{size: size, committed: section.LogOffset}

	sc := newScanner(t.store.file, t.store.path, section.LogOffset, t.store.end)
	defer sc.release()

	for {
		rec, off, err := sc.next()
		if err != nil {
			return l, err
		}
		if rec == nil {
			break
		}

		if l.records < t.count {
			if t.index != nil {
				t.index.Add(record.HashEncoded(rec), index.Entry{Ordinal: l.records, Offset: off - section.LogOffset})
			}
			l.committed = off + int64(len(rec))
		}
		l.records++
	}
	l.partial = t.store.end - sc.offset()

	return l, nil
}

// check reports whether the layout is a committed table of count records.
func (l logLayout) check(count int) error {
	switch {
	case l.size > 0 && l.size < section.TableHeaderSize:
		return fmt.Errorf("%w: %d byte file", errs.ErrInvalidHeaderSize, l.size)
	case l.partial > 0:
		return fmt.Errorf("%w: %d byte partial record after %d records, header counts %d",
			errs.ErrInconsistentLog, l.partial, l.records, count)
	case l.records != count:
		return fmt.Errorf("%w: header counts %d records, log holds %d", errs.ErrInconsistentLog, count, l.records)
	}

	return nil
}

// Push appends v and returns its index.
//
// The encoded record goes to the write buffer; the buffer is flushed first
// when it lacks room. A record larger than the whole buffer is written
// directly to the file.
//
// Returns:
//   - int: Index of v (the count before the push)
//   - error: errs.ErrClosed, errs.ErrReadOnly, errs.ErrTableFull, errs.ErrValueTooLarge or an errs.IOError
func (t *Table) Push(v record.Value) (int, error) {
	if t.closed {
		return 0, errs.ErrClosed
	}
	if t.cfg.readOnly {
		return 0, errs.ErrReadOnly
	}
	if int64(t.count) >= MaxRecords {
		return 0, errs.ErrTableFull
	}

	size := record.Size(v)
	if size-record.HeaderSize > record.MaxPayloadSize {
		return 0, fmt.Errorf("%w: %d bytes", errs.ErrValueTooLarge, size-record.HeaderSize)
	}

	off := t.appendOffset()

	if t.wbuf.Free() < size {
		if err := t.flush(); err != nil {
			return 0, err
		}
	}

	if size > t.wbuf.Cap() {
		enc, err := record.Encode(v)
		if err != nil {
			return 0, err
		}
		if err := t.store.append(enc); err != nil {
			return 0, err
		}
	} else {
		buf, err := record.AppendEncoded(t.wbuf.B, v)
		if err != nil {
			return 0, err
		}
		t.wbuf.B = buf
	}

	idx := t.count
	t.count++
	if t.index != nil {
		t.index.Add(v.Hash(), index.Entry{Ordinal: idx, Offset: off})
	}

	return idx, nil
}

// PushChar appends a single UTF-16 code unit.
func (t *Table) PushChar(c uint16) (int, error) {
	return t.Push(record.Char(c))
}

// PushString appends a string.
func (t *Table) PushString(s string) (int, error) {
	return t.Push(record.String(s))
}

// PushNull appends a null value.
func (t *Table) PushNull() (int, error) {
	return t.Push(record.Null())
}

// Size returns the number of records in the table.
func (t *Table) Size() int {
	return t.count
}

// Path returns the path of the backing file.
func (t *Table) Path() string {
	return t.store.path
}

// Position returns the position just past the last record, buffered records included.
func (t *Table) Position() Position {
	return Position{Offset: t.appendOffset(), Index: t.count}
}

// ReadOnly reports whether the table was opened with WithReadOnly(true).
func (t *Table) ReadOnly() bool {
	return t.cfg.readOnly
}

// Verify returns the problem Open found in the file's record log, or nil when
// the file held exactly the records its header counts. Tables created by New
// always verify.
func (t *Table) Verify() error {
	return t.verifyErr
}

// Indexed reports whether lookups use the hash index.
func (t *Table) Indexed() bool {
	return t.index != nil
}

// appendOffset returns the log-relative offset where the next record starts.
func (t *Table) appendOffset() int64 {
	off := t.store.end - section.LogOffset
	if t.wbuf != nil {
		off += int64(t.wbuf.Len())
	}

	return off
}

// flush writes the buffered records to the file and empties the buffer.
func (t *Table) flush() error {
	if t.wbuf.Len() == 0 {
		return nil
	}

	n := t.wbuf.Len()
	if err := t.store.append(t.wbuf.B); err != nil {
		return err
	}
	t.wbuf.Reset()
	t.logger.Debug("table flushed", "path", t.store.path, "bytes", n, "end", t.store.end)

	return nil
}

// mark flushes pending records and remembers the cursor position.
func (t *Table) mark() error {
	if err := t.flush(); err != nil {
		return err
	}
	t.cur.setMark()

	return nil
}

// Commit flushes buffered records and writes the record count to the header.
//
// The table stays writable; a later Push is followed by another Commit or Close.
func (t *Table) Commit() error {
	if t.closed {
		return errs.ErrClosed
	}
	if t.cfg.readOnly {
		return errs.ErrReadOnly
	}

	return t.commit()
}

func (t *Table) commit() error {
	if err := t.flush(); err != nil {
		return err
	}
	if err := t.store.writeHeader(uint32(t.count), t.cfg.syncOnCommit); err != nil { //nolint:gosec
		return err
	}
	t.logger.Debug("table committed", "path", t.store.path, "count", t.count)

	return nil
}

// Close commits the table, closes the file and deletes it if the table owns it.
//
// The file is closed (and removed) even if the commit fails; all failures
// are joined into the returned error. A read-only table is closed without a
// commit. Closing a closed table is a no-op.
func (t *Table) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	var err error
	if !t.cfg.readOnly {
		err = t.commit()
	}
	err = errors.Join(err, t.store.close(t.remove))

	pool.PutWriteBuffer(t.wbuf)
	t.wbuf = nil
	if t.index != nil {
		t.index.Reset()
	}

	t.logger.Debug("table closed", "path", t.store.path, "removed", t.remove, "error", err)

	return err
}

// readRecordAt reads the complete record at the log-relative offset off into buf.
func (t *Table) readRecordAt(buf *pool.ByteBuffer, off int64) ([]byte, error) {
	abs := section.LogOffset + off

	buf.Reset()
	buf.Grow(record.HeaderSize)
	buf.B = buf.B[:record.HeaderSize]
	if _, err := t.store.readAt(buf.B, abs); err != nil {
		return nil, readError(t.store.path, err)
	}

	n := record.RecordLen(buf.B)
	buf.Grow(n - record.HeaderSize)
	buf.B = buf.B[:n]
	if _, err := t.store.readAt(buf.B[record.HeaderSize:], abs+record.HeaderSize); err != nil {
		return nil, readError(t.store.path, err)
	}

	return buf.B, nil
}

func readError(path string, err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}

	return errs.NewIOError("read", path, err)
}
