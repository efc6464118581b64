package store

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// headerBytes is the byte size of the on-disk header region (HeaderSlots
// caller-visible words plus one reserved version word).
const headerBytes = (HeaderSlots + 1) * 4

// MMapDataAccess maps its backing file directly into the process address
// space via github.com/edsrzf/mmap-go, trading the RAM backend's
// flush-on-demand copy for reload-without-copy: after LoadExisting, payload
// words are read straight out of the page cache. Growth requires unmapping,
// truncating the file, and remapping, since mmap-go does not support
// resizing a mapping in place — the same constraint the node-coordinate
// mmap index in the OSM ingestion pipeline works around by pre-truncating
// to a generous sparse size up front.
type MMapDataAccess struct {
	path        string
	segBytes    int
	file        *os.File
	data        mmap.MMap
	payloadCap  int // bytes, excluding header
	initialized bool
}

// NewMMapDataAccess creates an mmap-backed store that maps path.
func NewMMapDataAccess(path string) *MMapDataAccess {
	return &MMapDataAccess{
		path:     path,
		segBytes: DefaultSegmentSize,
	}
}

func (d *MMapDataAccess) SegmentSize(bytes int) error {
	if d.initialized {
		return ErrAlreadyInitialized
	}
	if bytes <= 0 || bytes%4 != 0 {
		return ErrSegmentSizeInvalid
	}
	d.segBytes = bytes
	return nil
}

func (d *MMapDataAccess) remap(totalPayloadBytes int) error {
	if d.data != nil {
		if err := d.data.Unmap(); err != nil {
			return fmt.Errorf("store: unmap %s: %w", d.path, err)
		}
		d.data = nil
	}
	size := int64(headerBytes + totalPayloadBytes)
	if err := d.file.Truncate(size); err != nil {
		return fmt.Errorf("store: truncate %s: %w", d.path, err)
	}
	m, err := mmap.Map(d.file, mmap.RDWR, 0)
	if err != nil {
		return fmt.Errorf("store: mmap %s: %w", d.path, err)
	}
	d.data = m
	d.payloadCap = totalPayloadBytes
	return nil
}

func (d *MMapDataAccess) CreateNew(byteCapacity int) error {
	if d.initialized {
		return ErrAlreadyInitialized
	}
	f, err := os.OpenFile(d.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("store: create %s: %w", d.path, err)
	}
	d.file = f
	total := roundUpSegments(byteCapacity, d.segBytes)
	if err := d.remap(total); err != nil {
		return err
	}
	d.initialized = true
	return nil
}

func (d *MMapDataAccess) LoadExisting() (bool, error) {
	if d.initialized {
		return false, ErrAlreadyInitialized
	}
	f, err := os.OpenFile(d.path, os.O_RDWR, 0o644)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("store: open %s: %w", d.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return false, fmt.Errorf("store: stat %s: %w", d.path, err)
	}
	if info.Size() < int64(headerBytes+4) {
		f.Close()
		return false, fmt.Errorf("store: truncated file %s", d.path)
	}
	d.file = f
	payloadAndTrailer := int(info.Size()) - headerBytes
	payload := payloadAndTrailer - 4
	if payload%d.segBytes != 0 {
		f.Close()
		return false, fmt.Errorf("store: payload size %d in %s is not a multiple of segment size %d (segment size mismatch on reload)", payload, d.path, d.segBytes)
	}
	m, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		return false, fmt.Errorf("store: mmap %s: %w", d.path, err)
	}
	d.data = m
	d.payloadCap = payload

	if err := validateCRC(m, headerBytes+payload); err != nil {
		d.data.Unmap()
		d.file.Close()
		return false, err
	}

	d.initialized = true
	return true, nil
}

func validateCRC(m mmap.MMap, bodyLen int) error {
	if len(m) < bodyLen+4 {
		return fmt.Errorf("store: truncated payload")
	}
	h := crc32IEEE()
	h.Write(m[:bodyLen])
	got := h.Sum32()
	want := binary.LittleEndian.Uint32(m[bodyLen : bodyLen+4])
	if got != want {
		return fmt.Errorf("store: CRC32 mismatch: stored=%08x computed=%08x", want, got)
	}
	return nil
}

func (d *MMapDataAccess) EnsureCapacity(bytes int) {
	total := roundUpSegments(bytes, d.segBytes)
	if total > d.payloadCap {
		if err := d.remap(total); err != nil {
			panic(err) // data-corruption-class failure; no recoverable state
		}
	}
}

func (d *MMapDataAccess) TrimTo(bytes int) {
	total := roundUpSegments(bytes, d.segBytes)
	if total < d.payloadCap {
		if err := d.remap(total); err != nil {
			panic(err)
		}
	}
}

func (d *MMapDataAccess) GetInt(index int) int32 {
	off := headerBytes + index*4
	return int32(binary.LittleEndian.Uint32(d.data[off : off+4]))
}

func (d *MMapDataAccess) SetInt(index int, value int32) {
	off := headerBytes + index*4
	binary.LittleEndian.PutUint32(d.data[off:off+4], uint32(value))
}

func (d *MMapDataAccess) GetHeader(slot int) int32 {
	off := slot * 4
	return int32(binary.LittleEndian.Uint32(d.data[off : off+4]))
}

func (d *MMapDataAccess) SetHeader(slot int, v int32) {
	off := slot * 4
	binary.LittleEndian.PutUint32(d.data[off:off+4], uint32(v))
}

func (d *MMapDataAccess) Capacity() int { return d.payloadCap }

func (d *MMapDataAccess) Version() int32 {
	off := HeaderSlots * 4
	return int32(binary.LittleEndian.Uint32(d.data[off : off+4]))
}

func (d *MMapDataAccess) SetVersion(v int32) {
	off := HeaderSlots * 4
	binary.LittleEndian.PutUint32(d.data[off:off+4], uint32(v))
}

// Flush writes the CRC32 trailer and syncs the mapping to disk. Header and
// payload words are already resident in the mapped file; only the trailer
// needs to be (re)computed, since word writes go straight through SetInt.
func (d *MMapDataAccess) Flush() error {
	bodyLen := headerBytes + d.payloadCap
	if err := d.file.Truncate(int64(bodyLen + 4)); err != nil {
		return fmt.Errorf("store: truncate for trailer %s: %w", d.path, err)
	}
	if cap(d.data) < bodyLen+4 {
		if err := d.remap(d.payloadCap); err != nil {
			return err
		}
	}
	h := crc32IEEE()
	h.Write(d.data[:bodyLen])
	checksum := h.Sum32()

	// The trailer lives just past the mapped region on first flush; remap
	// once more so it is addressable, then write it and sync.
	if err := d.remapForTrailer(bodyLen + 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(d.data[bodyLen:bodyLen+4], checksum)

	if err := d.data.Flush(); err != nil {
		return fmt.Errorf("store: msync %s: %w", d.path, err)
	}
	return nil
}

func (d *MMapDataAccess) remapForTrailer(totalBytes int) error {
	if len(d.data) >= totalBytes {
		return nil
	}
	if err := d.data.Unmap(); err != nil {
		return fmt.Errorf("store: unmap %s: %w", d.path, err)
	}
	if err := d.file.Truncate(int64(totalBytes)); err != nil {
		return fmt.Errorf("store: truncate %s: %w", d.path, err)
	}
	m, err := mmap.Map(d.file, mmap.RDWR, 0)
	if err != nil {
		return fmt.Errorf("store: mmap %s: %w", d.path, err)
	}
	d.data = m
	return nil
}

func (d *MMapDataAccess) Close() error {
	if d.data != nil {
		if err := d.data.Unmap(); err != nil {
			d.file.Close()
			return fmt.Errorf("store: unmap %s: %w", d.path, err)
		}
		d.data = nil
	}
	if d.file != nil {
		if err := d.file.Close(); err != nil {
			return fmt.Errorf("store: close %s: %w", d.path, err)
		}
		d.file = nil
	}
	d.initialized = false
	return nil
}
