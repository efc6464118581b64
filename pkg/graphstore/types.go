// Package graphstore is the core graph storage engine: a compact,
// persistable, append-mostly representation of a road graph whose nodes
// carry geographic coordinates and whose edges carry distance, direction
// flags, a street-name reference, and an optional pillar-node polyline.
//
// Adjacency is kept as an intrusive, per-node linked list threaded through
// the edge records themselves (linkA/linkB), the same memory-density trick
// the design notes call out as the core's defining property: no separate
// adjacency-list allocation per node, just two "next" words embedded in
// each shared edge record.
package graphstore

import "math"

// NoEdge is the sentinel for "no next edge" / "no edges incident to this
// node". An edge id is valid iff it is greater than NoEdge.
const NoEdge int32 = -1

// Per-node record: [edgeRef, lat_i, lon_i].
const (
	nodeEntrySize = 3
	fEdgeRef      = 0
	fLat          = 1
	fLon          = 2
)

// Per-edge record: [nodeA, nodeB, linkA, linkB, dist_i, flags, nameRef, geoRef].
const (
	edgeEntrySize = 8
	fNodeA        = 0
	fNodeB        = 1
	fLinkA        = 2
	fLinkB        = 3
	fDist         = 4
	fFlags        = 5
	fNameRef      = 6
	fGeoRef       = 7
)

// Header slots on the "nodes" DataAccess.
const (
	hdrClassHash     = 0
	hdrNodeEntrySize = 1
	hdrNodeCount     = 2
	hdrMinLon        = 3
	hdrMaxLon        = 4
	hdrMinLat        = 5
	hdrMaxLat        = 6
)

// Header slots on the "egdes" DataAccess (name matches the on-disk file
// name convention, misspelling included).
const (
	hdrEdgeEntrySize = 0
	hdrEdgeCount     = 1
)

// Header slot on the "geometry" DataAccess.
const hdrMaxGeoRef = 0

// maxAdjacencyWalk bounds the tail-walk performed by connectNewEdge when
// appending a freshly inserted edge to a node's adjacency chain. Exceeding
// it indicates a corrupt (cyclic) chain, not a legitimately high-degree
// node.
const maxAdjacencyWalk = 10_000

// maxIterationHops bounds a single adjacency-iterator traversal for the
// same reason, with a tighter ceiling since real intersections rarely
// exceed a few dozen incident edges.
const maxIterationHops = 1_000

// classIdentityHash is a sentinel for storage-layout identity, stored in
// the nodes file's header and checked on reload; a mismatch means the file
// was produced by an incompatible build of this package.
const classIdentityHash int32 = 0x47525348 // "GRSH"

// LatLon is a decoded geographic coordinate pair.
type LatLon struct {
	Lat, Lon float64
}

// Bounds is the global bounding box covering every stored node.
type Bounds struct {
	MinLat, MaxLat, MinLon, MaxLon float64
}

// emptyMinFixed/emptyMaxFixed make an "inverted" box (min > max) so that the
// first SetNode call always widens it, and so an empty graph reports a
// degenerate box rather than (0,0)-(0,0).
const (
	emptyMinFixed int32 = math.MaxInt32
	emptyMaxFixed int32 = math.MinInt32 + 1
)

// EdgeFilter decides whether an edge reached during adjacency iteration
// should be yielded to the caller.
type EdgeFilter interface {
	Accept(iter EdgeIterator) bool
}

// acceptAllFilter is the trivial EdgeFilter.
type acceptAllFilter struct{}

func (acceptAllFilter) Accept(EdgeIterator) bool { return true }

// AcceptAll accepts every edge.
var AcceptAll EdgeFilter = acceptAllFilter{}

// CombinedEncoder is the opaque vehicle/traffic flag codec. Graph storage
// itself never interprets flag bits; it only needs FlagsDefault to build
// simple bidirectional edges and SwapDirection to keep disk-canonical
// direction consistent when nodeA/nodeB are swapped or when an edge is
// iterated from its higher-numbered endpoint.
type CombinedEncoder interface {
	FlagsDefault(bothDirections bool) int32
	SwapDirection(flags int32) int32
}
