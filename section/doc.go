// Package section defines the fixed-size binary structures of the table file
// and of table snapshots.
//
// # Table File
//
//	┌───────────────────────────────────────────┐
//	│ TableHeader (4 bytes): record count (LE)  │
//	├───────────────────────────────────────────┤
//	│ Record log (variable), see package record │
//	└───────────────────────────────────────────┘
//
// The count is written only when the table is committed.
//
// # Snapshot File
//
//	┌───────────────────────────────────────────┐
//	│ SnapshotHeader (12 bytes)                 │
//	├───────────────────────────────────────────┤
//	│ BlockHeader (8 bytes) + compressed block  │
//	│ ...                                       │
//	├───────────────────────────────────────────┤
//	│ BlockHeader with RawSize == 0             │
//	├───────────────────────────────────────────┤
//	│ xxHash64 of the record log (8 bytes, LE)  │
//	└───────────────────────────────────────────┘
//
// Decompressing the blocks in order reproduces the record log byte for byte.
package section
