package table

import (
	"errors"
	"io"
	"iter"

	"github.com/arloliu/sst/errs"
	"github.com/arloliu/sst/internal/fs"
	"github.com/arloliu/sst/record"
	"github.com/arloliu/sst/section"
)

// Iterator walks the records of a table in push order.
//
// It reads through its own read-only handle, so pushes and lookups on the
// table do not disturb it. The records visible to an iterator are those
// present when it was created.
//
// Usage:
//
//	it, err := t.Iterator()
//	if err != nil {
//	    return err
//	}
//	defer it.Close()
//
//	for it.Next() {
//	    fmt.Println(it.Index(), it.Text())
//	}
//	if err := it.Err(); err != nil {
//	    return err
//	}
type Iterator struct {
	file   fs.File
	sc     *scanner
	limit  int
	idx    int
	cur    record.Value
	err    error
	closed bool
}

// Iterator flushes pending records and returns an iterator over the table.
// The caller must Close the iterator.
func (t *Table) Iterator() (*Iterator, error) {
	if t.closed {
		return nil, errs.ErrClosed
	}
	if err := t.flush(); err != nil {
		return nil, err
	}

	f, err := t.store.fsys.Open(t.store.path)
	if err != nil {
		return nil, errs.NewIOError("open", t.store.path, err)
	}

	// The header is not authoritative until commit; it is skipped, not trusted.
	var hdr [section.TableHeaderSize]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil && !errors.Is(err, io.EOF) {
		_ = f.Close()
		return nil, readError(t.store.path, err)
	}

	return &Iterator{
		file:  f,
		sc:    newScanner(f, t.store.path, section.LogOffset, t.store.end),
		limit: t.count,
		idx:   -1,
	}, nil
}

// Next advances to the next record. It returns false at the end of the
// table, on error, or after Close.
func (it *Iterator) Next() bool {
	if it.closed || it.err != nil || it.idx+1 >= it.limit {
		return false
	}

	rec, _, err := it.sc.next()
	if err != nil {
		it.err = err
		return false
	}
	if rec == nil {
		return false
	}

	v, _, err := record.Decode(rec)
	if err != nil {
		it.err = err
		return false
	}

	it.idx++
	it.cur = v

	return true
}

// Value returns the current record.
func (it *Iterator) Value() record.Value {
	return it.cur
}

// Text returns the textual form of the current record; null yields "".
func (it *Iterator) Text() string {
	return it.cur.Text()
}

// Index returns the index of the current record, or -1 before the first Next.
func (it *Iterator) Index() int {
	return it.idx
}

// Err returns the first error encountered during iteration.
func (it *Iterator) Err() error {
	return it.err
}

// Close releases the iterator's file handle. Closing twice is a no-op.
func (it *Iterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.sc.release()

	return errs.NewIOError("close", it.file.Name(), it.file.Close())
}

// All yields the text of each remaining record. An error is yielded once,
// as the last element.
func (it *Iterator) All() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for it.Next() {
			if !yield(it.Text(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield("", err)
		}
	}
}

// All iterates over the text of every record in push order, closing the
// underlying iterator when the loop ends.
func (t *Table) All() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		it, err := t.Iterator()
		if err != nil {
			yield("", err)
			return
		}
		defer it.Close()

		for s, err := range it.All() {
			if !yield(s, err) {
				return
			}
		}
	}
}
