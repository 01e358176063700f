package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/tailscale/hujson"

	"github.com/arloliu/sst/format"
	"github.com/arloliu/sst/internal/pool"
	"github.com/arloliu/sst/table"
)

var (
	errConfigInvalid      = errors.New("invalid config")
	errConfigFileNotFound = errors.New("config file not found")
)

// Config holds all configuration options.
type Config struct {
	Compression string `json:"compression"`
	BlockSize   int    `json:"block_size"`  //nolint:tagliatelle // snake_case for config file
	BufferSize  int    `json:"buffer_size"` //nolint:tagliatelle // snake_case for config file
	HashIndex   bool   `json:"hash_index"`  //nolint:tagliatelle // snake_case for config file
	TempDir     string `json:"temp_dir,omitempty"`
	Log         struct {
		Format string `json:"format"`
		Level  string `json:"level"`
	} `json:"log"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	cfg := Config{
		Compression: "zstd",
		BlockSize:   pool.SnapshotBlockSize,
		BufferSize:  table.DefaultBufferSize,
	}
	cfg.Log.Format = "text"
	cfg.Log.Level = "warn"

	return cfg
}

// globalFlags are the flags shared by every command.
type globalFlags struct {
	configPath  string
	compression string
	blockSize   int
	bufferSize  int
	hashIndex   bool
	logFormat   string
	logLevel    string
}

func (g *globalFlags) register(fs *flag.FlagSet) {
	def := DefaultConfig()
	fs.StringVarP(&g.configPath, "config", "c", "", "JSONC config `file`")
	fs.StringVar(&g.compression, "compression", def.Compression, "snapshot compression: none, zstd, s2, lz4")
	fs.IntVar(&g.blockSize, "block-size", def.BlockSize, "snapshot block size in bytes")
	fs.IntVar(&g.bufferSize, "buffer-size", def.BufferSize, "table write buffer size in bytes")
	fs.BoolVar(&g.hashIndex, "hash-index", def.HashIndex, "use an in-memory hash index for lookups")
	fs.StringVar(&g.logFormat, "log-format", def.Log.Format, "log format: text or json")
	fs.StringVar(&g.logLevel, "log-level", def.Log.Level, "log level: debug, info, warn, error")
}

// LoadConfig resolves the configuration with the following precedence
// (highest wins): defaults, the config file, flags set on the command line.
func LoadConfig(fs *flag.FlagSet, g *globalFlags) (Config, error) {
	cfg := DefaultConfig()

	if g.configPath != "" {
		data, err := os.ReadFile(g.configPath)
		if err != nil {
			if os.IsNotExist(err) {
				return Config{}, fmt.Errorf("%w: %s", errConfigFileNotFound, g.configPath)
			}

			return Config{}, fmt.Errorf("read config %s: %w", g.configPath, err)
		}

		if cfg, err = parseConfig(data, cfg); err != nil {
			return Config{}, fmt.Errorf("%w %s: %w", errConfigInvalid, g.configPath, err)
		}
	}

	if fs.Changed("compression") {
		cfg.Compression = g.compression
	}
	if fs.Changed("block-size") {
		cfg.BlockSize = g.blockSize
	}
	if fs.Changed("buffer-size") {
		cfg.BufferSize = g.bufferSize
	}
	if fs.Changed("hash-index") {
		cfg.HashIndex = g.hashIndex
	}
	if fs.Changed("log-format") {
		cfg.Log.Format = g.logFormat
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", errConfigInvalid, err)
	}

	return cfg, nil
}

// parseConfig overlays the JSONC document data on base. Fields absent from
// the document keep their base value.
func parseConfig(data []byte, base Config) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	if err := json.Unmarshal(standardized, &base); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return base, nil
}

func validateConfig(cfg Config) error {
	if _, ok := format.ParseCompression(cfg.Compression); !ok {
		return fmt.Errorf("unknown compression %q", cfg.Compression)
	}
	if cfg.BufferSize < table.MinBufferSize {
		return fmt.Errorf("buffer_size %d below %d", cfg.BufferSize, table.MinBufferSize)
	}

	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}

	return nil
}

// CompressionType returns the parsed compression; the config must be valid.
func (c Config) CompressionType() format.CompressionType {
	ct, _ := format.ParseCompression(c.Compression)
	return ct
}

// TableOptions returns the table options selected by the config.
func (c Config) TableOptions(logger *slog.Logger) []table.Option {
	opts := []table.Option{
		table.WithBufferSize(c.BufferSize),
		table.WithHashIndex(c.HashIndex),
		table.WithLogger(logger),
	}
	if c.TempDir != "" {
		opts = append(opts, table.WithTempDir(c.TempDir))
	}

	return opts
}

// FormatConfig returns the config as formatted JSON.
func FormatConfig(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}

	return string(data), nil
}
