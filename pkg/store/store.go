// Package store implements the byte-addressable backing store described by
// the graph storage format: a resizable array of 32-bit words plus a small
// fixed-size header, either kept in process memory and flushed to a single
// file (RAMDataAccess) or mapped directly onto a file (MMapDataAccess).
//
// The on-disk layout for both backends is identical: a header of
// HeaderSlots+1 little-endian int32 words (the extra slot carries the
// version counter), followed by the payload words, followed by a CRC32
// trailer over header+payload. Word addressing throughout this package is
// in units of 4 bytes, never bytes.
package store

import "fmt"

// HeaderSlots is the number of caller-addressable header words. spec.md
// requires at least 7; DataAccess reserves one more internally for the
// version counter, which is not part of this range.
const HeaderSlots = 8

// DefaultSegmentSize is the growth granularity used when a caller does not
// call SegmentSize explicitly. It must stay a multiple of 4.
const DefaultSegmentSize = 1 << 20 // 1 MiB

// DataAccess is a resizable array of 32-bit signed words with a small header
// region, backed by one of two strategies (see RAMDataAccess, MMapDataAccess).
type DataAccess interface {
	// CreateNew allocates at least byteCapacity bytes of payload, rounded up
	// to whole segments, and marks the store initialized. Calling CreateNew
	// twice is a programmer error.
	CreateNew(byteCapacity int) error

	// LoadExisting opens the backing file if present and reads its header.
	// It returns false if no file exists yet (not an error).
	LoadExisting() (bool, error)

	// EnsureCapacity grows the payload, rounded up to whole segments, if it
	// is currently smaller than bytes. It never shrinks.
	EnsureCapacity(bytes int)

	// TrimTo drops segments beyond the given byte size.
	TrimTo(bytes int)

	// GetInt and SetInt perform word-indexed (not byte-indexed) access.
	GetInt(index int) int32
	SetInt(index int, value int32)

	// GetHeader and SetHeader access the fixed HeaderSlots-word header,
	// independent of the payload.
	GetHeader(slot int) int32
	SetHeader(slot int, value int32)

	// SegmentSize configures growth granularity. Must be called before
	// CreateNew/LoadExisting and must be a positive multiple of 4.
	SegmentSize(bytes int) error

	// Capacity returns the current payload capacity in bytes.
	Capacity() int

	// Version returns the store's version counter, used to detect skew
	// between cooperating files (e.g. nodes vs. edges).
	Version() int32

	// SetVersion sets the version counter. Callers that persist several
	// DataAccess files together (graphstore.Graph) stamp the same value
	// across all of them before flushing.
	SetVersion(v int32)

	// Flush persists header and payload to the backing file.
	Flush() error

	// Close releases in-memory resources (and, for the mmap backend,
	// unmaps and closes the file descriptor).
	Close() error
}

// ErrAlreadyInitialized is returned by CreateNew/LoadExisting when the store
// has already been configured.
var ErrAlreadyInitialized = fmt.Errorf("store: already initialized")

// ErrSegmentSizeInvalid is returned by SegmentSize for a non-positive or
// non-4-byte-aligned size.
var ErrSegmentSizeInvalid = fmt.Errorf("store: segment size must be a positive multiple of 4")

func roundUpSegments(bytes, segmentSize int) int {
	if bytes <= 0 {
		return segmentSize
	}
	n := (bytes + segmentSize - 1) / segmentSize
	return n * segmentSize
}
