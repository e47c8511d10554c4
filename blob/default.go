package blob

import "sync"

var (
	defaultMu      sync.Mutex
	defaultStorage *Storage
)

// Default returns the process-wide storage, creating it on first use with
// default options.
//
// Only creation and teardown of the instance are synchronized; the returned
// Storage itself is not safe for concurrent use.
func Default() *Storage {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultStorage == nil {
		// New cannot fail without options.
		defaultStorage, _ = New()
	}

	return defaultStorage
}

// FlushDefault closes the process-wide storage. The next call to Default
// creates a fresh one.
func FlushDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultStorage != nil {
		_ = defaultStorage.Close()
		defaultStorage = nil
	}
}
