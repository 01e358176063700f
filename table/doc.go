// Package table implements an append-only, disk-backed value table.
//
// A Table assigns every pushed value (a UTF-16 code unit, a string or null)
// a sequential index starting at 0 and spills the encoded values to a
// scratch file through a small write buffer. Indices are recovered with a
// forward scan ([Table.Find]) or, optionally, through an in-memory hash index
// ([WithHashIndex]); values are recovered in push order with an [Iterator].
//
// File layout:
//
//	+-------------------+------------------------------------------------+
//	| count (u32, LE)   | records...                                     |
//	+-------------------+------------------------------------------------+
//	| 4 bytes           | [u32 payload_len][u16 disc][payload] ...       |
//	+-------------------+------------------------------------------------+
//
// The count header is only written by [Table.Commit] (and [Table.Close]);
// while a table is being filled, the in-memory count is authoritative.
//
// Appends and scans use separate offsets: the backing store writes at its
// append offset, scans read through a cursor with its own position, so a
// lookup in the middle of a fill never disturbs the next append.
//
// A Table is not safe for concurrent use.
//
// Basic usage:
//
//	t, err := table.New()
//	if err != nil {
//	    return err
//	}
//	defer t.Close()
//
//	idx, _ := t.PushString("Hello")
//	found, _ := t.FindString("Hello") // found == idx
package table
