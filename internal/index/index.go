// Package index implements the optional in-memory lookup accelerator of a table.
//
// The index maps the hash of each record's kind and payload to the locations
// of every record carrying that hash, in append order. Hash equality only
// nominates candidates: the table confirms each one against the record bytes.
package index

import (
	"iter"
	"sort"
)

// Entry locates one record in the log.
type Entry struct {
	Ordinal int   // record index
	Offset  int64 // byte offset of the record, relative to the start of the log
}

// Index tracks record locations by value hash.
type Index struct {
	byHash  map[uint64][]Entry
	offsets []int64 // record offsets by ordinal
}

// New creates an empty index.
func New() *Index {
	return &Index{
		byHash: make(map[uint64][]Entry),
	}
}

// Add records that the value with the given hash was appended at e.
// Entries must be added in append order.
func (ix *Index) Add(hash uint64, e Entry) {
	ix.byHash[hash] = append(ix.byHash[hash], e)
	ix.offsets = append(ix.offsets, e.Offset)
}

// OrdinalAt returns the ordinal of the first record starting at or after
// offset, or Len() if there is none.
func (ix *Index) OrdinalAt(offset int64) int {
	return sort.Search(len(ix.offsets), func(i int) bool {
		return ix.offsets[i] >= offset
	})
}

// Candidates yields the entries for hash whose offset is at least minOffset,
// in append order.
func (ix *Index) Candidates(hash uint64, minOffset int64) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		entries := ix.byHash[hash]
		start := sort.Search(len(entries), func(i int) bool {
			return entries[i].Offset >= minOffset
		})

		for _, e := range entries[start:] {
			if !yield(e) {
				return
			}
		}
	}
}

// Len returns the number of indexed records.
func (ix *Index) Len() int {
	return len(ix.offsets)
}

// Distinct returns the number of distinct hashes.
func (ix *Index) Distinct() int {
	return len(ix.byHash)
}

// Reset clears the index but keeps the map allocated.
func (ix *Index) Reset() {
	for k := range ix.byHash {
		delete(ix.byHash, k)
	}
	ix.offsets = ix.offsets[:0]
}
