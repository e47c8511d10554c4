// Package pixstore is an in-memory store for binary records such as image
// channel planes.
//
// Records are packed into large memory blocks and addressed by compact
// 32-bit IDs. Each record may be compressed with a delta run-length codec
// tuned for smoothly varying bytes, or with one of the general purpose codecs
// (Zlib, LZ4, S2, Zstd). Records can be aliased without copying and are
// freed when their last ID is forgotten.
//
// # Basic Usage
//
// The package level functions operate on a process-wide storage:
//
//	import "github.com/arloliu/pixstore"
//
//	id, err := pixstore.Store(plane, pixstore.FlagCompression(format.CompressionRLEDiff), 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	buf := make([]byte, len(plane))
//	if _, err := pixstore.Fetch(id, buf, 0, 0); err != nil {
//	    log.Fatal(err)
//	}
//
//	pixstore.Forget(id)
//
// Independent storages with their own settings are created with New:
//
//	s, err := pixstore.New(blob.WithMemoryLimit(64<<20), blob.WithDedup())
//	defer s.Close()
//
// # Package Structure
//
// This package provides thin wrappers around the blob package, which holds
// the storage engine. Neither the default storage nor any other Storage is
// safe for concurrent use.
package pixstore

import (
	"github.com/arloliu/pixstore/blob"
	"github.com/arloliu/pixstore/format"
)

// ID is a handle to a stored record. NoID never addresses a record.
type ID = blob.ID

// NoID is the invalid handle.
const NoID = blob.NoID

// Flag selects the compression applied by Store.
type Flag = blob.Flag

// FlagBitmap selects the lossy bitmap mode of format.CompressionRLEDiff.
const FlagBitmap = blob.FlagBitmap

// FlagCompression returns the store flags selecting compression kind c.
func FlagCompression(c format.CompressionType) Flag {
	return blob.FlagCompression(c)
}

// New creates an independent storage.
//
// Available options:
//   - blob.WithDefaultBlockSize(bytes)
//   - blob.WithMemoryLimit(bytes)
//   - blob.WithLogger(*slog.Logger)
//   - blob.WithMmapBlocks()
//   - blob.WithDedup()
func New(opts ...blob.Option) (*blob.Storage, error) {
	return blob.New(opts...)
}

// Default returns the process-wide storage used by the package functions.
func Default() *blob.Storage {
	return blob.Default()
}

// Flush destroys the process-wide storage and invalidates all IDs it handed
// out. The next call creates a fresh one.
func Flush() {
	blob.FlushDefault()
}

// Store copies data into the default storage. See blob.Storage.Store.
func Store(data []byte, flags Flag, threshold uint8) (ID, error) {
	return blob.Default().Store(data, flags, threshold)
}

// Fetch copies a record of the default storage into buf and returns its
// size. See blob.Storage.Fetch.
func Fetch(id ID, buf []byte, offset int, bitmapValue uint8) (int, error) {
	return blob.Default().Fetch(id, buf, offset, bitmapValue)
}

// FetchBytes returns a copy of a record of the default storage.
func FetchBytes(id ID) ([]byte, error) {
	return blob.Default().FetchBytes(id)
}

// Forget drops a handle of the default storage.
func Forget(id ID) {
	blob.Default().Forget(id)
}

// Dup returns a second handle to a record of the default storage.
func Dup(id ID) (ID, error) {
	return blob.Default().Dup(id)
}
