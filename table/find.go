package table

import (
	"github.com/arloliu/sst/errs"
	"github.com/arloliu/sst/internal/pool"
	"github.com/arloliu/sst/record"
)

// NotFound is the index reported for a value that is not in the table.
const NotFound = -1

// Find returns the index of the first record equal to v, or NotFound.
func (t *Table) Find(v record.Value) (int, error) {
	return t.FindFrom(v, Position{})
}

// FindChar returns the index of the first character record equal to c, or NotFound.
func (t *Table) FindChar(c uint16) (int, error) {
	return t.Find(record.Char(c))
}

// FindString returns the index of the first string record equal to s, or NotFound.
func (t *Table) FindString(s string) (int, error) {
	return t.Find(record.String(s))
}

// FindFrom searches for v starting at the record boundary pos.Offset.
//
// The result is pos.Index plus the number of records between pos.Offset and
// the match, so FindFrom(v, Position{Offset: off}) yields the ordinal
// relative to off. A result is only reported when it is below Size().
//
// Pending records are flushed before the search. Lookups use the hash index
// when it is enabled and fall back to a scan otherwise.
//
// Returns:
//   - int: Index of the match, or NotFound
//   - error: errs.ErrClosed or an errs.IOError; a missing value is not an error
func (t *Table) FindFrom(v record.Value, pos Position) (int, error) {
	if t.closed {
		return NotFound, errs.ErrClosed
	}
	if pos.Offset < 0 {
		pos.Offset = 0
	}

	if err := t.mark(); err != nil {
		return NotFound, err
	}
	defer t.cur.reset() //nolint:errcheck

	t.cur.skip(pos.Offset)

	var (
		rel   int
		found bool
		err   error
	)
	if t.index != nil {
		rel, found, err = t.lookup(v, pos.Offset)
	} else {
		rel, found, err = t.scan(v)
	}
	if err != nil || !found {
		return NotFound, err
	}

	if idx := pos.Index + rel; idx < t.count {
		return idx, nil
	}

	return NotFound, nil
}

// scan walks the records from the cursor to the append offset, returning
// the ordinal of the first match relative to the starting position.
func (t *Table) scan(v record.Value) (int, bool, error) {
	m := record.NewMatcher(v)

	sc := newScanner(t.store.file, t.store.path, t.cur.pos, t.store.end)
	defer sc.release()

	for i := 0; ; i++ {
		rec, _, err := sc.next()
		if err != nil {
			return 0, false, err
		}
		if rec == nil {
			t.cur.pos = sc.offset()
			return 0, false, nil
		}

		if ok, _ := m.Match(rec); ok {
			t.cur.pos = sc.offset()
			return i, true, nil
		}
	}
}

// lookup verifies the index candidates for v at or after the log-relative
// offset from, in append order.
func (t *Table) lookup(v record.Value, from int64) (int, bool, error) {
	m := record.NewMatcher(v)

	buf := pool.GetScanBuffer()
	defer pool.PutScanBuffer(buf)

	for e := range t.index.Candidates(v.Hash(), from) {
		if e.Ordinal >= t.count {
			break
		}

		rec, err := t.readRecordAt(buf, e.Offset)
		if err != nil {
			return 0, false, err
		}

		if ok, _ := m.Match(rec); ok {
			return e.Ordinal - t.index.OrdinalAt(from), true, nil
		}
	}

	return 0, false, nil
}
