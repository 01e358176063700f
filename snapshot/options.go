package snapshot

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/sst/compress"
	"github.com/arloliu/sst/format"
	"github.com/arloliu/sst/internal/options"
	"github.com/arloliu/sst/internal/pool"
	"github.com/arloliu/sst/section"
)

// MinBlockSize is the smallest accepted raw block size.
const MinBlockSize = 1 << 10

// Option configures Save and Restore.
type Option = options.Option[*config]

type config struct {
	compression format.CompressionType
	blockSize   int
	logger      *slog.Logger
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{
		compression: format.CompressionZstd,
		blockSize:   pool.SnapshotBlockSize,
		logger:      slog.New(slog.DiscardHandler),
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithCompression selects the block codec. The default is Zstd.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(c *config) error {
		if _, err := compress.GetCodec(ct); err != nil {
			return err
		}
		c.compression = ct

		return nil
	})
}

// WithBlockSize sets the raw size of each block, between MinBlockSize and
// section.MaxBlockSize. Larger blocks compress better and use more memory.
func WithBlockSize(size int) Option {
	return options.New(func(c *config) error {
		if size < MinBlockSize || size > section.MaxBlockSize {
			return fmt.Errorf("snapshot block size %d out of range [%d, %d]", size, MinBlockSize, section.MaxBlockSize)
		}
		c.blockSize = size

		return nil
	})
}

// WithLogger sets the logger for save and restore summaries.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	})
}
