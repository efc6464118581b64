package store

import (
	"fmt"
	"path/filepath"
)

// Backend selects which DataAccess implementation a Directory hands out.
type Backend int

const (
	// RAM keeps payloads in process memory, flushed to file on demand.
	RAM Backend = iota
	// MMap maps each file directly into the address space.
	MMap
)

// Directory maps a name (e.g. "nodes", "egdes", "geometry", "names") to a
// DataAccess handle, all sharing one lifecycle and one backend. It is
// idempotent: FindCreate returns the same handle on repeated calls for the
// same name. Directory does not itself persist any metadata beyond what
// each DataAccess writes for itself.
type Directory struct {
	dir     string
	backend Backend
	handles map[string]DataAccess
	order   []string
}

// NewDirectory creates a Directory rooted at dir using the given backend.
// It does not create dir on disk; dir must exist before a RAM DataAccess
// flushes or an MMap DataAccess is created in it.
func NewDirectory(dir string, backend Backend) *Directory {
	return &Directory{
		dir:     dir,
		backend: backend,
		handles: make(map[string]DataAccess),
	}
}

// FindCreate returns the DataAccess for name, creating it on first use.
func (d *Directory) FindCreate(name string) DataAccess {
	if h, ok := d.handles[name]; ok {
		return h
	}
	path := filepath.Join(d.dir, name)
	var h DataAccess
	switch d.backend {
	case MMap:
		h = NewMMapDataAccess(path)
	default:
		h = NewRAMDataAccess(path)
	}
	d.handles[name] = h
	d.order = append(d.order, name)
	return h
}

// Flush flushes every handle created so far, in the order each was first
// requested via FindCreate.
func (d *Directory) Flush() error {
	for _, name := range d.order {
		if err := d.handles[name].Flush(); err != nil {
			return fmt.Errorf("store: flush %q: %w", name, err)
		}
	}
	return nil
}

// Close closes every handle created so far, in the order each was first
// requested via FindCreate.
func (d *Directory) Close() error {
	for _, name := range d.order {
		if err := d.handles[name].Close(); err != nil {
			return fmt.Errorf("store: close %q: %w", name, err)
		}
	}
	return nil
}
