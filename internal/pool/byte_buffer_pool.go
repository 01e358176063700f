package pool

import (
	"io"
	"sync"
)

// Buffer sizes used by the value table.
const (
	WriteBufferDefaultSize = 1 << 11 // 2KiB, the table's write buffer
	ScanBufferDefaultSize  = 1 << 13 // 8KiB, lookup and iterator read-ahead
	ScanBufferMaxThreshold = 1 << 20 // 1MiB, larger scan buffers are not pooled
	SnapshotBlockSize      = 1 << 16 // 64KiB, raw snapshot block
	SnapshotMaxThreshold   = 1 << 20 // 1MiB
)

// ByteBuffer is a byte slice with explicit length/capacity bookkeeping.
//
// The table uses it both as a fixed-capacity write buffer (records are
// appended until Free reports too little room) and as a sliding read window
// (Fill appends bytes from a file, Compact drops the consumed prefix).
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, capacity),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Free returns the number of bytes that can be appended without reallocating.
func (bb *ByteBuffer) Free() int {
	return cap(bb.B) - len(bb.B)
}

// MustWrite writes data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// Grow ensures the buffer can hold requiredBytes more bytes without reallocating.
// If the buffer has sufficient capacity, Grow does nothing; otherwise the
// capacity at least doubles.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	if bb.Free() >= requiredBytes {
		return
	}

	newCap := 2 * cap(bb.B)
	if newCap < len(bb.B)+requiredBytes {
		newCap = len(bb.B) + requiredBytes
	}

	newBuf := make([]byte, len(bb.B), newCap)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Compact discards the first n bytes, moving the remainder to the front.
func (bb *ByteBuffer) Compact(n int) {
	if n <= 0 {
		return
	}
	if n >= len(bb.B) {
		bb.B = bb.B[:0]
		return
	}

	m := copy(bb.B, bb.B[n:])
	bb.B = bb.B[:m]
}

// Fill reads from r at offset off into the free capacity of the buffer.
//
// Returns:
//   - int: number of bytes appended
//   - error: the reader's error; io.EOF is returned only when no byte was read
func (bb *ByteBuffer) Fill(r io.ReaderAt, off int64) (int, error) {
	start := len(bb.B)
	free := bb.B[start:cap(bb.B)]
	if len(free) == 0 {
		return 0, nil
	}

	n, err := r.ReadAt(free, off)
	bb.B = bb.B[:start+n]
	if err == io.EOF && n > 0 {
		err = nil
	}

	return n, err
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// It uses sync.Pool internally to manage the buffers.
// The pool can be configured with a maximum size threshold to avoid retaining
// overly large buffers that could lead to memory bloat.
type ByteBufferPool struct {
	pool         sync.Pool
	defaultSize  int
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		defaultSize:  defaultSize,
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// GetSized retrieves an empty ByteBuffer with exactly the given capacity.
// Only buffers of the pool's default size are served from the pool.
func (bbp *ByteBufferPool) GetSized(capacity int) *ByteBuffer {
	if capacity != bbp.defaultSize {
		return NewByteBuffer(capacity)
	}

	bb := bbp.Get()
	if bb.Cap() != capacity {
		return NewByteBuffer(capacity)
	}

	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		// Discard overly large buffers to prevent memory bloat
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	writeDefaultPool    = NewByteBufferPool(WriteBufferDefaultSize, WriteBufferDefaultSize)
	scanDefaultPool     = NewByteBufferPool(ScanBufferDefaultSize, ScanBufferMaxThreshold)
	snapshotDefaultPool = NewByteBufferPool(SnapshotBlockSize, SnapshotMaxThreshold)
)

// GetWriteBuffer retrieves a write buffer with exactly the given capacity.
func GetWriteBuffer(capacity int) *ByteBuffer {
	return writeDefaultPool.GetSized(capacity)
}

// PutWriteBuffer returns a write buffer to the pool.
func PutWriteBuffer(bb *ByteBuffer) {
	writeDefaultPool.Put(bb)
}

// GetScanBuffer retrieves a read-ahead buffer from the scan pool.
func GetScanBuffer() *ByteBuffer {
	return scanDefaultPool.Get()
}

// PutScanBuffer returns a read-ahead buffer to the scan pool.
func PutScanBuffer(bb *ByteBuffer) {
	scanDefaultPool.Put(bb)
}

// GetSnapshotBuffer retrieves a block buffer from the snapshot pool.
func GetSnapshotBuffer() *ByteBuffer {
	return snapshotDefaultPool.Get()
}

// PutSnapshotBuffer returns a block buffer to the snapshot pool.
func PutSnapshotBuffer(bb *ByteBuffer) {
	snapshotDefaultPool.Put(bb)
}
