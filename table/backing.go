package table

import (
	"errors"

	"github.com/arloliu/sst/errs"
	"github.com/arloliu/sst/internal/fs"
	"github.com/arloliu/sst/section"
)

// backing owns the table file and its append offset.
//
// Writes always land at end; reads never move it.
type backing struct {
	fsys fs.FS
	file fs.File
	path string
	end  int64 // absolute append offset
}

// append writes p at the append offset and advances it by the bytes written.
func (b *backing) append(p []byte) error {
	n, err := b.file.WriteAt(p, b.end)
	b.end += int64(n)

	return errs.NewIOError("write", b.path, err)
}

func (b *backing) readAt(p []byte, off int64) (int, error) {
	return b.file.ReadAt(p, off)
}

// writeHeader stores count at offset 0, leaving the append offset untouched.
func (b *backing) writeHeader(count uint32, sync bool) error {
	h := section.TableHeader{Count: count}
	if _, err := b.file.WriteAt(h.Bytes(), 0); err != nil {
		return errs.NewIOError("write header", b.path, err)
	}

	if sync {
		return errs.NewIOError("sync", b.path, b.file.Sync())
	}

	return nil
}

// close closes the file and, when remove is set, deletes it.
// Removal is attempted even if closing failed.
func (b *backing) close(remove bool) error {
	err := errs.NewIOError("close", b.path, b.file.Close())
	if remove {
		err = errors.Join(err, errs.NewIOError("remove", b.path, b.fsys.Remove(b.path)))
	}

	return err
}
