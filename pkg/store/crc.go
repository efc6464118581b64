package store

import "hash/crc32"

// crc32IEEE returns a fresh IEEE CRC32 hash satisfying crc32Hash, used by
// the mmap backend's trailer computation and validation.
func crc32IEEE() crc32Hash {
	return crc32.NewIEEE()
}
