package graphstore

import (
	"fmt"

	"github.com/azybler/roadgraph/pkg/geo"
	"github.com/azybler/roadgraph/pkg/nametable"
	"github.com/azybler/roadgraph/pkg/store"
)

// Graph is the mutable intrusive-linked-list graph storage described in the
// package doc comment. It owns four cooperating DataAccess areas (nodes,
// edges, geometry, names) via an injected *store.Directory; Close does not
// close the Directory itself, only the handles Graph asked it for.
type Graph struct {
	dir     *store.Directory
	nodes   store.DataAccess
	edges   store.DataAccess
	geomDA  store.DataAccess
	names   *nametable.Table
	encoder CombinedEncoder

	nodeCount int
	edgeCount int
	maxGeoRef int32
	version   int32

	bounds  Bounds
	removed []bool // transient, non-persistent; cleared by Optimize
}

// CreateNew builds an empty Graph backed by dir, sized for an initial
// capacity of initialNodeCount nodes.
func CreateNew(dir *store.Directory, encoder CombinedEncoder, initialNodeCount int) (*Graph, error) {
	g := &Graph{dir: dir, encoder: encoder, version: 1}
	g.nodes = dir.FindCreate("nodes")
	g.edges = dir.FindCreate("egdes")
	g.geomDA = dir.FindCreate("geometry")
	namesDA := dir.FindCreate("names")

	if err := g.nodes.CreateNew(initialNodeCount * nodeEntrySize * 4); err != nil {
		return nil, fmt.Errorf("graphstore: create nodes: %w", err)
	}
	if err := g.edges.CreateNew(0); err != nil {
		return nil, fmt.Errorf("graphstore: create edges: %w", err)
	}
	if err := g.geomDA.CreateNew(4); err != nil {
		return nil, fmt.Errorf("graphstore: create geometry: %w", err)
	}
	g.names = nametable.New(namesDA)
	if err := g.names.CreateNew(); err != nil {
		return nil, fmt.Errorf("graphstore: create names: %w", err)
	}

	g.maxGeoRef = 1 // offset 0 is reserved to mean "no pillar nodes"
	g.resetBounds()

	g.nodes.SetHeader(hdrClassHash, classIdentityHash)
	g.nodes.SetHeader(hdrNodeEntrySize, nodeEntrySize)
	g.edges.SetHeader(hdrEdgeEntrySize, edgeEntrySize)
	g.writeHeaders()

	return g, nil
}

// LoadExisting reopens a Graph previously flushed to dir.
func LoadExisting(dir *store.Directory, encoder CombinedEncoder) (*Graph, error) {
	g := &Graph{dir: dir, encoder: encoder}
	g.nodes = dir.FindCreate("nodes")
	g.edges = dir.FindCreate("egdes")
	g.geomDA = dir.FindCreate("geometry")
	namesDA := dir.FindCreate("names")
	g.names = nametable.New(namesDA)

	okNodes, err := g.nodes.LoadExisting()
	if err != nil {
		return nil, fmt.Errorf("graphstore: load nodes: %w", err)
	}
	okEdges, err := g.edges.LoadExisting()
	if err != nil {
		return nil, fmt.Errorf("graphstore: load edges: %w", err)
	}
	okGeo, err := g.geomDA.LoadExisting()
	if err != nil {
		return nil, fmt.Errorf("graphstore: load geometry: %w", err)
	}
	okNames, err := g.names.LoadExisting()
	if err != nil {
		return nil, fmt.Errorf("graphstore: load names: %w", err)
	}
	if !okNodes || !okEdges || !okGeo || !okNames {
		return nil, fmt.Errorf("graphstore: missing sibling file(s) — nodes=%v egdes=%v geometry=%v names=%v", okNodes, okEdges, okGeo, okNames)
	}

	if g.nodes.GetHeader(hdrClassHash) != classIdentityHash {
		return nil, fmt.Errorf("graphstore: class identity hash mismatch, incompatible storage layout")
	}
	if g.nodes.GetHeader(hdrNodeEntrySize) != nodeEntrySize {
		return nil, fmt.Errorf("graphstore: nodeEntrySize mismatch: file has %d, expected %d", g.nodes.GetHeader(hdrNodeEntrySize), nodeEntrySize)
	}
	if g.edges.GetHeader(hdrEdgeEntrySize) != edgeEntrySize {
		return nil, fmt.Errorf("graphstore: edgeEntrySize mismatch: file has %d, expected %d", g.edges.GetHeader(hdrEdgeEntrySize), edgeEntrySize)
	}
	if g.nodes.Version() != g.edges.Version() {
		return nil, fmt.Errorf("graphstore: version skew between nodes (%d) and edges (%d)", g.nodes.Version(), g.edges.Version())
	}
	g.version = g.nodes.Version()

	g.nodeCount = int(g.nodes.GetHeader(hdrNodeCount))
	g.edgeCount = int(g.edges.GetHeader(hdrEdgeCount))
	g.maxGeoRef = g.geomDA.GetHeader(hdrMaxGeoRef)

	g.bounds = Bounds{
		MinLon: geo.DecodeCoord(g.nodes.GetHeader(hdrMinLon)),
		MaxLon: geo.DecodeCoord(g.nodes.GetHeader(hdrMaxLon)),
		MinLat: geo.DecodeCoord(g.nodes.GetHeader(hdrMinLat)),
		MaxLat: geo.DecodeCoord(g.nodes.GetHeader(hdrMaxLat)),
	}

	return g, nil
}

func (g *Graph) resetBounds() {
	g.bounds = Bounds{
		MinLon: geo.DecodeCoord(emptyMinFixed),
		MaxLon: geo.DecodeCoord(emptyMaxFixed),
		MinLat: geo.DecodeCoord(emptyMinFixed),
		MaxLat: geo.DecodeCoord(emptyMaxFixed),
	}
}

func (g *Graph) writeHeaders() {
	g.nodes.SetHeader(hdrNodeCount, int32(g.nodeCount))
	g.nodes.SetHeader(hdrMinLon, geo.EncodeCoord(g.bounds.MinLon))
	g.nodes.SetHeader(hdrMaxLon, geo.EncodeCoord(g.bounds.MaxLon))
	g.nodes.SetHeader(hdrMinLat, geo.EncodeCoord(g.bounds.MinLat))
	g.nodes.SetHeader(hdrMaxLat, geo.EncodeCoord(g.bounds.MaxLat))
	g.edges.SetHeader(hdrEdgeCount, int32(g.edgeCount))
	g.geomDA.SetHeader(hdrMaxGeoRef, g.maxGeoRef)
}

// Flush persists headers, then flushes each backing store via the shared
// Directory. Nodes and edges are stamped with the same version so a
// reloader can detect skew between them. The name table is flushed
// explicitly rather than left to dir.Flush()'s generic pass over raw
// DataAccess handles, since Table.Flush() is the only place that writes
// hdrNameCount.
func (g *Graph) Flush() error {
	g.writeHeaders()
	g.nodes.SetVersion(g.version)
	g.edges.SetVersion(g.version)
	if err := g.names.Flush(); err != nil {
		return fmt.Errorf("graphstore: flush names: %w", err)
	}
	if err := g.dir.Flush(); err != nil {
		return fmt.Errorf("graphstore: flush: %w", err)
	}
	g.version++
	return nil
}

// Close releases the four DataAccess handles. The Directory itself is not
// closed, since Graph does not own it (spec.md §5: it is injected).
func (g *Graph) Close() error {
	if err := g.nodes.Close(); err != nil {
		return err
	}
	if err := g.edges.Close(); err != nil {
		return err
	}
	if err := g.geomDA.Close(); err != nil {
		return err
	}
	return g.names.Close()
}

// NodeCount returns the number of live (non-compacted-away) node slots.
func (g *Graph) NodeCount() int { return g.nodeCount }

// EdgeCount returns the number of edge records ever allocated, including
// orphaned records left behind by Optimize.
func (g *Graph) EdgeCount() int { return g.edgeCount }

// Bounds returns the global bounding box.
func (g *Graph) Bounds() Bounds { return g.bounds }

// Names returns the street-name table backing this graph.
func (g *Graph) Names() *nametable.Table { return g.names }

func (g *Graph) nodeWord(id int32, field int) int32 {
	return g.nodes.GetInt(int(id)*nodeEntrySize + field)
}

func (g *Graph) setNodeWord(id int32, field int, v int32) {
	g.nodes.SetInt(int(id)*nodeEntrySize+field, v)
}

func (g *Graph) edgeWord(id int32, field int) int32 {
	return g.edges.GetInt(int(id)*edgeEntrySize + field)
}

func (g *Graph) setEdgeWord(id int32, field int, v int32) {
	g.edges.SetInt(int(id)*edgeEntrySize+field, v)
}

// ensureNodeIndex grows the nodes area so id is addressable, seeding new
// edgeRef slots with NoEdge and growing the removed-node bitset if present.
func (g *Graph) ensureNodeIndex(id int32) {
	if int(id) < g.nodeCount {
		return
	}
	newCount := int(id) + 1
	g.nodes.EnsureCapacity(newCount * nodeEntrySize * 4)
	for i := g.nodeCount; i < newCount; i++ {
		g.setNodeWord(int32(i), fEdgeRef, NoEdge)
	}
	g.nodeCount = newCount
	if g.removed != nil {
		for len(g.removed) < newCount {
			g.removed = append(g.removed, false)
		}
	}
}

func (g *Graph) ensureEdgeIndex(count int) {
	g.edges.EnsureCapacity(count * edgeEntrySize * 4)
}

// SetNode records the coordinates of node id, growing the nodes area if
// necessary, and widens the bounding box.
func (g *Graph) SetNode(id int32, lat, lon float64) {
	g.ensureNodeIndex(id)
	g.setNodeWord(id, fLat, geo.EncodeCoord(lat))
	g.setNodeWord(id, fLon, geo.EncodeCoord(lon))
	g.updateBounds(lat, lon)
}

func (g *Graph) updateBounds(lat, lon float64) {
	if lat < g.bounds.MinLat {
		g.bounds.MinLat = lat
	}
	if lat > g.bounds.MaxLat {
		g.bounds.MaxLat = lat
	}
	if lon < g.bounds.MinLon {
		g.bounds.MinLon = lon
	}
	if lon > g.bounds.MaxLon {
		g.bounds.MaxLon = lon
	}
}

// GetLatitude returns the latitude of node id in degrees.
func (g *Graph) GetLatitude(id int32) float64 {
	return geo.DecodeCoord(g.nodeWord(id, fLat))
}

// GetLongitude returns the longitude of node id in degrees.
func (g *Graph) GetLongitude(id int32) float64 {
	return geo.DecodeCoord(g.nodeWord(id, fLon))
}

// MarkNodeRemoved flags id for removal by a subsequent Optimize call. The
// removed set is transient and is never persisted.
func (g *Graph) MarkNodeRemoved(id int32) {
	if g.removed == nil {
		g.removed = make([]bool, g.nodeCount)
	}
	for len(g.removed) <= int(id) {
		g.removed = append(g.removed, false)
	}
	g.removed[id] = true
}

// IsNodeRemoved reports whether id has been marked for removal.
func (g *Graph) IsNodeRemoved(id int32) bool {
	return g.removed != nil && int(id) < len(g.removed) && g.removed[id]
}
