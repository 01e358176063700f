package fs

import (
	"errors"
	"os"
	"sync"
	"syscall"
)

// ErrInjected is wrapped by every failure [Faulty] injects.
var ErrInjected = errors.New("fs: injected fault")

// Op names a file operation [Faulty] can fail.
type Op uint8

const (
	OpRead Op = iota + 1
	OpWrite
	OpOpen
	OpRemove
	OpSync
)

// Faulty wraps an [FS] and fails the n-th call of chosen operations.
//
// Counting starts at 1 and covers calls on every file the wrapper opened.
// A failed operation returns an *os.PathError wrapping EIO and [ErrInjected].
type Faulty struct {
	inner FS

	mu     sync.Mutex
	calls  map[Op]int
	failAt map[Op]int
}

// NewFaulty wraps inner. With no FailAt calls it behaves exactly like inner.
func NewFaulty(inner FS) *Faulty {
	return &Faulty{
		inner:  inner,
		calls:  make(map[Op]int),
		failAt: make(map[Op]int),
	}
}

// FailAt makes the n-th call of op, counted from now, fail. n <= 0 disarms op.
func (f *Faulty) FailAt(op Op, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[op] = 0
	if n <= 0 {
		delete(f.failAt, op)
		return
	}
	f.failAt[op] = n
}

// Calls returns how many times op was called since it was last armed.
func (f *Faulty) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[op]
}

func (f *Faulty) hit(op Op, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[op]++
	if n, ok := f.failAt[op]; ok && f.calls[op] == n {
		return &os.PathError{Op: op.String(), Path: name, Err: errors.Join(syscall.EIO, ErrInjected)}
	}

	return nil
}

func (f *Faulty) CreateTemp(dir, pattern string) (File, error) {
	if err := f.hit(OpOpen, dir); err != nil {
		return nil, err
	}

	file, err := f.inner.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}

	return &faultyFile{File: file, fs: f}, nil
}

func (f *Faulty) Open(path string) (File, error) {
	if err := f.hit(OpOpen, path); err != nil {
		return nil, err
	}

	file, err := f.inner.Open(path)
	if err != nil {
		return nil, err
	}

	return &faultyFile{File: file, fs: f}, nil
}

func (f *Faulty) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	if err := f.hit(OpOpen, path); err != nil {
		return nil, err
	}

	file, err := f.inner.OpenFile(path, flag, perm)
	if err != nil {
		return nil, err
	}

	return &faultyFile{File: file, fs: f}, nil
}

func (f *Faulty) Stat(path string) (os.FileInfo, error) {
	return f.inner.Stat(path)
}

func (f *Faulty) Remove(path string) error {
	if err := f.hit(OpRemove, path); err != nil {
		return err
	}

	return f.inner.Remove(path)
}

type faultyFile struct {
	File
	fs *Faulty
}

func (ff *faultyFile) Read(p []byte) (int, error) {
	if err := ff.fs.hit(OpRead, ff.Name()); err != nil {
		return 0, err
	}

	return ff.File.Read(p)
}

func (ff *faultyFile) ReadAt(p []byte, off int64) (int, error) {
	if err := ff.fs.hit(OpRead, ff.Name()); err != nil {
		return 0, err
	}

	return ff.File.ReadAt(p, off)
}

func (ff *faultyFile) WriteAt(p []byte, off int64) (int, error) {
	if err := ff.fs.hit(OpWrite, ff.Name()); err != nil {
		return 0, err
	}

	return ff.File.WriteAt(p, off)
}

func (ff *faultyFile) Sync() error {
	if err := ff.fs.hit(OpSync, ff.Name()); err != nil {
		return err
	}

	return ff.File.Sync()
}

func (o Op) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpWrite:
		return "write"
	case OpOpen:
		return "open"
	case OpRemove:
		return "remove"
	case OpSync:
		return "sync"
	default:
		return "unknown"
	}
}
