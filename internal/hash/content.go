// Package hash computes content hashes used to find duplicate records.
package hash

import "github.com/cespare/xxhash/v2"

// Content computes the xxHash64 of data salted with the record's store flags,
// so identical bytes stored with different compression kinds hash apart.
func Content(flags uint16, data []byte) uint64 {
	d := xxhash.New()
	_, _ = d.Write([]byte{byte(flags), byte(flags >> 8)})
	_, _ = d.Write(data)

	return d.Sum64()
}

// Bytes computes the plain xxHash64 of data.
func Bytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}
