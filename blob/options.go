package blob

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/pixstore/errs"
	"github.com/arloliu/pixstore/internal/options"
)

// StorageConfig holds the settings a Storage is created with.
type StorageConfig struct {
	blockSize   int
	memoryLimit int64
	logger      *slog.Logger
	mmap        bool
	dedup       bool
}

func newStorageConfig() *StorageConfig {
	return &StorageConfig{
		blockSize: DefaultBlockSize,
		logger:    slog.Default(),
	}
}

// BlockSize returns the payload capacity requested for new blocks.
func (c *StorageConfig) BlockSize() int {
	return c.blockSize
}

// MemoryLimit returns the block memory cap in bytes, 0 meaning unlimited.
func (c *StorageConfig) MemoryLimit() int64 {
	return c.memoryLimit
}

// setBlockSize sets the default block size.
func (c *StorageConfig) setBlockSize(n int) error {
	if n <= 0 || n > MaxBlockSize {
		return fmt.Errorf("%w: block size %d out of range (0, %d]", errs.ErrInvalidOption, n, MaxBlockSize)
	}
	c.blockSize = n

	return nil
}

func (c *StorageConfig) setMemoryLimit(limit int64) error {
	if limit < 0 {
		return fmt.Errorf("%w: negative memory limit %d", errs.ErrInvalidOption, limit)
	}
	c.memoryLimit = limit

	return nil
}

// Option represents a functional option for configuring a Storage.
type Option = options.Option[*StorageConfig]

// WithDefaultBlockSize sets the payload capacity of newly allocated blocks.
// Records larger than n still get a block of their own, sized to fit.
func WithDefaultBlockSize(n int) Option {
	return options.New(func(c *StorageConfig) error {
		return c.setBlockSize(n)
	})
}

// WithLogger sets the structured logger. A nil logger selects slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *StorageConfig) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	})
}

// WithMemoryLimit caps the total block memory of the storage. Stores that
// would need a block beyond the cap fail with errs.ErrOutOfMemory.
// Zero disables the limit.
func WithMemoryLimit(bytes int64) Option {
	return options.New(func(c *StorageConfig) error {
		return c.setMemoryLimit(bytes)
	})
}

// WithMmapBlocks backs blocks with anonymous memory mappings instead of the
// Go heap. On platforms without mmap the option logs a warning and the heap
// is used.
func WithMmapBlocks() Option {
	return options.NoError(func(c *StorageConfig) {
		c.mmap = true
	})
}

// WithDedup enables content deduplication: storing bytes identical to a live
// record returns a reference to it instead of a second copy.
func WithDedup() Option {
	return options.NoError(func(c *StorageConfig) {
		c.dedup = true
	})
}
