package table

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/sst/errs"
	"github.com/arloliu/sst/internal/fs"
	"github.com/arloliu/sst/internal/options"
	"github.com/arloliu/sst/internal/pool"
)

const (
	// DefaultBufferSize is the default capacity of the write buffer.
	DefaultBufferSize = pool.WriteBufferDefaultSize

	// MinBufferSize is the smallest accepted write buffer capacity.
	MinBufferSize = 64

	// filePattern names scratch files created by New: a "+" prefix and a ".sst" suffix.
	filePattern = "+*.sst"
)

// Option configures a Table.
type Option = options.Option[*config]

type config struct {
	fsys          fs.FS
	bufferSize    int
	tempDir       string
	hashIndex     bool
	logger        *slog.Logger
	deleteOnClose *bool
	syncOnCommit  bool
	readOnly      bool
}

func defaultConfig() *config {
	return &config{
		fsys:       fs.NewReal(),
		bufferSize: DefaultBufferSize,
		logger:     slog.New(slog.DiscardHandler),
	}
}

func newConfig(opts []Option) (*config, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithBufferSize sets the write buffer capacity in bytes.
//
// Records larger than the buffer are written straight through after a flush.
// Sizes below MinBufferSize are rejected with errs.ErrInvalidBufferSize.
func WithBufferSize(size int) Option {
	return options.New(func(c *config) error {
		if size < MinBufferSize {
			return fmt.Errorf("%w: %d < %d", errs.ErrInvalidBufferSize, size, MinBufferSize)
		}
		c.bufferSize = size

		return nil
	})
}

// WithTempDir sets the directory scratch files are created in.
// The empty string selects os.TempDir.
func WithTempDir(dir string) Option {
	return options.NoError(func(c *config) {
		c.tempDir = dir
	})
}

// WithHashIndex enables the in-memory hash index.
//
// With the index enabled, lookups read only the records whose value hash
// matches the query instead of scanning the file. The index costs about 40
// bytes of memory per record.
func WithHashIndex(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.hashIndex = enabled
	})
}

// WithLogger sets the logger for debug events (flush, commit, close).
// A nil logger keeps the default, which discards everything.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithDeleteOnClose controls whether Close removes the backing file.
//
// Tables created by New delete their scratch file by default; tables opened
// with Open keep it.
func WithDeleteOnClose(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.deleteOnClose = &enabled
	})
}

// WithSync makes Commit fsync the backing file after writing the header.
func WithSync(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.syncOnCommit = enabled
	})
}

// WithReadOnly makes Open use a read-only file handle.
//
// A read-only table never writes to its file: Push and Commit return
// errs.ErrReadOnly and Close skips the commit. New rejects the option.
func WithReadOnly(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.readOnly = enabled
	})
}

// withFS replaces the filesystem, used by tests to inject faults.
func withFS(fsys fs.FS) Option {
	return options.NoError(func(c *config) {
		c.fsys = fsys
	})
}
