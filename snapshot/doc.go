// Package snapshot exports committed tables as compressed, atomically
// written files and restores them.
//
// Snapshot layout:
//
//	+------------------------------+
//	| header (12 bytes)            |  "SSTZ", version, compression, reserved, count
//	+------------------------------+
//	| block header (8 bytes)       |  raw size, stored size
//	| block data                   |  compressed, or raw when stored size == raw size
//	+------------------------------+
//	| ...                          |
//	+------------------------------+
//	| end block (8 bytes)          |  raw size 0, stored size 0
//	| checksum (8 bytes)           |  xxHash64 of the record log
//	+------------------------------+
//
// The blocks hold the record log of the table (the file without its count
// header). Restoring rebuilds the table file byte for byte.
package snapshot
