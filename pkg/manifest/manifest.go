// Package manifest writes a small, non-authoritative debug snapshot
// alongside a graph directory's DataAccess files, purely so `roadgraph
// inspect` can report counts and bounds without touching the segmented
// store. It is never required for Graph.LoadExisting to succeed. ingest,
// compact and serve rewrite it; inspect falls back to loading the graph when
// it is missing and does not write one, and a stale manifest is not detected.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/viant/bintly"
)

const fileName = "manifest.bin"

// Manifest is the snapshot record.
type Manifest struct {
	NodeCount int32
	EdgeCount int32
	NameCount int32
	MinLat    float64
	MaxLat    float64
	MinLon    float64
	MaxLon    float64
	Backend   string
	Version   int32
}

// EncodeBinary implements bintly's binary codec interface.
func (m *Manifest) EncodeBinary(stream *bintly.Writer) error {
	stream.Int32(m.NodeCount)
	stream.Int32(m.EdgeCount)
	stream.Int32(m.NameCount)
	stream.Float64(m.MinLat)
	stream.Float64(m.MaxLat)
	stream.Float64(m.MinLon)
	stream.Float64(m.MaxLon)
	stream.String(m.Backend)
	stream.Int32(m.Version)
	return nil
}

// DecodeBinary implements bintly's binary codec interface.
func (m *Manifest) DecodeBinary(stream *bintly.Reader) error {
	stream.Int32(&m.NodeCount)
	stream.Int32(&m.EdgeCount)
	stream.Int32(&m.NameCount)
	stream.Float64(&m.MinLat)
	stream.Float64(&m.MaxLat)
	stream.Float64(&m.MinLon)
	stream.Float64(&m.MaxLon)
	stream.String(&m.Backend)
	stream.Int32(&m.Version)
	return nil
}

// Write serializes m to <dir>/manifest.bin.
func Write(dir string, m *Manifest) error {
	writers := bintly.NewWriters()
	writer := writers.Get()
	defer writers.Put(writer)

	if err := m.EncodeBinary(writer); err != nil {
		return fmt.Errorf("manifest: encode: %w", err)
	}
	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, writer.Bytes(), 0o644); err != nil {
		return fmt.Errorf("manifest: write %s: %w", path, err)
	}
	return nil
}

// Read deserializes <dir>/manifest.bin. ok is false (with a nil error) if
// the file does not exist — callers should regenerate rather than fail.
func Read(dir string) (m *Manifest, ok bool, err error) {
	path := filepath.Join(dir, fileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("manifest: read %s: %w", path, err)
	}

	readers := bintly.NewReaders()
	reader := readers.Get()
	defer readers.Put(reader)
	if err := reader.FromBytes(data); err != nil {
		return nil, false, fmt.Errorf("manifest: decode %s: %w", path, err)
	}

	m = &Manifest{}
	if err := m.DecodeBinary(reader); err != nil {
		return nil, false, fmt.Errorf("manifest: decode %s: %w", path, err)
	}
	return m, true, nil
}
