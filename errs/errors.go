// Package errs defines the sentinel errors shared by pixstore packages.
//
// Callers should compare with errors.Is, since most errors are wrapped with
// additional context before they are returned.
package errs

import "errors"

// Argument errors.
var (
	// ErrEmptyData is returned when Store is called with a nil or zero-length buffer.
	ErrEmptyData = errors.New("pixstore: data is empty")
	// ErrInvalidFlags is returned when a caller passes internal slot flags to Store.
	ErrInvalidFlags = errors.New("pixstore: invalid store flags")
	// ErrInvalidOption is returned by New when an option value is out of range.
	ErrInvalidOption = errors.New("pixstore: invalid option")
	// ErrNotFound is returned when an ID does not address a live record.
	ErrNotFound = errors.New("pixstore: record not found")
	// ErrClosed is returned by operations on a storage that has been closed.
	ErrClosed = errors.New("pixstore: storage is closed")
)

// Allocation errors.
var (
	// ErrOutOfMemory is returned when a new block would exceed the configured
	// memory limit or the block allocator fails.
	ErrOutOfMemory = errors.New("pixstore: out of memory")
	// ErrNoSpace is returned when a block cannot host a record, typically
	// because its slot table is full.
	ErrNoSpace = errors.New("pixstore: no space left in block")
	// ErrTooManyBlocks is returned when the block index space is exhausted.
	ErrTooManyBlocks = errors.New("pixstore: too many blocks")
	// ErrRefCountOverflow is returned by Dup when a record already has the
	// maximum number of aliases.
	ErrRefCountOverflow = errors.New("pixstore: reference count overflow")
)

// Codec errors.
var (
	// ErrCompressOverflow is returned by encoders when the output would not fit
	// in the destination buffer. Storage recovers by storing raw bytes.
	ErrCompressOverflow = errors.New("pixstore: compressed output exceeds buffer")
	// ErrIncompressible is returned by general purpose codecs when the output is
	// not smaller than the input.
	ErrIncompressible = errors.New("pixstore: data is incompressible")
	// ErrCorruptPayload is returned when a stored payload does not decode to its
	// recorded size.
	ErrCorruptPayload = errors.New("pixstore: corrupt payload")
	// ErrUnsupportedCompression is returned for unknown compression kinds.
	ErrUnsupportedCompression = errors.New("pixstore: unsupported compression type")
)

// Header errors.
var (
	// ErrInvalidHeaderSize is returned when a slot header buffer is too short.
	ErrInvalidHeaderSize = errors.New("pixstore: invalid slot header size")
)

// ErrIntegrityViolation is the panic value (wrapped) raised when block
// bookkeeping contradicts itself. It is never returned as an error.
var ErrIntegrityViolation = errors.New("pixstore: storage integrity violation")
