package graphstore

import (
	"fmt"

	"github.com/azybler/roadgraph/pkg/geo"
)

// EdgeIterator is a positioned, restartable cursor over one or more edges,
// always reported from the perspective of a "base" node: BaseNode() and
// AdjNode() are endpoint(a)/endpoint(b) as seen by whichever traversal
// created the iterator, not raw nodeA/nodeB.
type EdgeIterator interface {
	Next() bool
	EdgeID() int32
	BaseNode() int32
	AdjNode() int32
	Distance() float64
	DistanceFixed() int32
	Flags() int32
	SetFlags(flags int32)
	NameRef() int32
	Name() string
	WayGeometry() []LatLon
	SetWayGeometry(points []LatLon)
}

type iterMode int

const (
	modeAllEdges iterMode = iota
	modeAdjacency
	modeSingle
)

type edgeIter struct {
	g       *Graph
	mode    iterMode
	filter  EdgeFilter
	started bool

	baseNode int32 // fixed for modeAdjacency/modeSingle
	nextEdge int32 // next candidate edge id / chain pointer
	hops     int

	curEdge int32
	adjNode int32
}

// AllEdges returns an iterator over every edge in insertion order,
// unfiltered, reporting BaseNode=nodeA, AdjNode=nodeB (canonical order).
func (g *Graph) AllEdges() EdgeIterator {
	return &edgeIter{g: g, mode: modeAllEdges, nextEdge: 0}
}

// GetEdges returns an unfiltered adjacency iterator over node's incident
// edges, in the order they were inserted (the chain is tail-appended, so
// insertion order equals iteration order per node).
func (g *Graph) GetEdges(node int32) EdgeIterator {
	return g.GetEdgesFiltered(node, AcceptAll)
}

// GetEdgesFiltered is GetEdges with an EdgeFilter applied during traversal.
func (g *Graph) GetEdgesFiltered(node int32, filter EdgeFilter) EdgeIterator {
	return &edgeIter{
		g:        g,
		mode:     modeAdjacency,
		filter:   filter,
		baseNode: node,
		nextEdge: g.nodeWord(node, fEdgeRef),
	}
}

// GetEdgeProps returns a single-edge "pseudo-iterator" reporting edgeID
// from endNode's perspective. If endNode matches neither endpoint of
// edgeID, an empty sentinel iterator is returned (Next() is always false).
func (g *Graph) GetEdgeProps(edgeID, endNode int32) EdgeIterator {
	if edgeID <= NoEdge || int(edgeID) >= g.edgeCount {
		panic(fmt.Sprintf("graphstore: GetEdgeProps: out-of-range edge id %d", edgeID))
	}
	nodeA := g.edgeWord(edgeID, fNodeA)
	nodeB := g.edgeWord(edgeID, fNodeB)
	var adj int32
	switch endNode {
	case nodeA:
		adj = nodeB
	case nodeB:
		adj = nodeA
	default:
		return &edgeIter{g: g, mode: modeSingle, curEdge: NoEdge} // empty sentinel
	}
	return &edgeIter{g: g, mode: modeSingle, curEdge: edgeID, baseNode: endNode, adjNode: adj}
}

func (it *edgeIter) Next() bool {
	g := it.g
	switch it.mode {
	case modeAllEdges:
		if int(it.nextEdge) >= g.edgeCount {
			return false
		}
		it.curEdge = it.nextEdge
		it.nextEdge++
		it.baseNode = g.edgeWord(it.curEdge, fNodeA)
		it.adjNode = g.edgeWord(it.curEdge, fNodeB)
		it.started = true
		return true

	case modeAdjacency:
		for {
			if it.nextEdge == NoEdge {
				return false
			}
			it.hops++
			if it.hops > maxIterationHops {
				panic(fmt.Sprintf("graphstore: adjacency iteration from node %d exceeds %d hops, likely corrupt chain", it.baseNode, maxIterationHops))
			}
			edgeID := it.nextEdge
			other := g.getOtherNode(it.baseNode, edgeID)
			it.nextEdge = g.getLinkForNode(edgeID, it.baseNode)
			it.curEdge = edgeID
			it.adjNode = other
			it.started = true
			if it.filter == nil || it.filter.Accept(it) {
				return true
			}
		}

	default: // modeSingle
		if it.started || it.curEdge == NoEdge {
			return false
		}
		it.started = true
		return true
	}
}

func (it *edgeIter) EdgeID() int32    { return it.curEdge }
func (it *edgeIter) BaseNode() int32  { return it.baseNode }
func (it *edgeIter) AdjNode() int32   { return it.adjNode }
func (it *edgeIter) NameRef() int32   { return it.g.edgeWord(it.curEdge, fNameRef) }
func (it *edgeIter) Name() string     { return it.g.names.GetName(it.NameRef()) }
func (it *edgeIter) DistanceFixed() int32 { return it.g.edgeWord(it.curEdge, fDist) }
func (it *edgeIter) Distance() float64 { return geo.DecodeDist(it.DistanceFixed()) }

// reversed reports whether this iterator is traversing nodeB -> nodeA,
// i.e. the stored canonical (nodeA -> nodeB) direction needs flipping.
func (it *edgeIter) reversed() bool { return it.baseNode > it.adjNode }

func (it *edgeIter) Flags() int32 {
	raw := it.g.edgeWord(it.curEdge, fFlags)
	if it.reversed() {
		return it.g.encoder.SwapDirection(raw)
	}
	return raw
}

// SetFlags rewrites the edge's flags in place. newFlags is given in this
// iterator's current traversal direction (BaseNode -> AdjNode); it is
// converted to canonical nodeA->nodeB direction before the record is
// rewritten, preserving every other field.
func (it *edgeIter) SetFlags(newFlags int32) {
	g := it.g
	canonical := newFlags
	if it.reversed() {
		canonical = g.encoder.SwapDirection(newFlags)
	}
	nodeA := g.edgeWord(it.curEdge, fNodeA)
	nodeB := g.edgeWord(it.curEdge, fNodeB)
	linkA := g.edgeWord(it.curEdge, fLinkA)
	linkB := g.edgeWord(it.curEdge, fLinkB)
	dist := g.edgeWord(it.curEdge, fDist)
	nameRef := g.edgeWord(it.curEdge, fNameRef)
	geoRef := g.edgeWord(it.curEdge, fGeoRef)
	g.writeEdge(it.curEdge, nodeA, nodeB, linkA, linkB, dist, canonical, nameRef, geoRef)
}

// WayGeometry returns the pillar-node polyline for this edge, oriented
// along BaseNode -> AdjNode. On-disk storage is always canonical
// nodeA->nodeB order; this reverses it when the traversal is reversed.
func (it *edgeIter) WayGeometry() []LatLon {
	g := it.g
	ref := g.edgeWord(it.curEdge, fGeoRef)
	if ref == 0 {
		return nil
	}
	count := int(g.geomDA.GetInt(int(ref)))
	pts := make([]LatLon, count)
	for i := 0; i < count; i++ {
		lat := geo.DecodeCoord(g.geomDA.GetInt(int(ref) + 1 + 2*i))
		lon := geo.DecodeCoord(g.geomDA.GetInt(int(ref) + 2 + 2*i))
		pts[i] = LatLon{Lat: lat, Lon: lon}
	}
	if it.reversed() {
		reverseLatLon(pts)
	}
	return pts
}

// SetWayGeometry appends points to the geometry area and stores the new
// offset into this edge's geoRef slot. points are given in BaseNode ->
// AdjNode order; they are reversed before writing if the traversal is
// reversed, so on-disk order is always canonical nodeA->nodeB.
func (it *edgeIter) SetWayGeometry(points []LatLon) {
	g := it.g
	if len(points) == 0 {
		return
	}
	ordered := make([]LatLon, len(points))
	copy(ordered, points)
	if it.reversed() {
		reverseLatLon(ordered)
	}

	offset := g.maxGeoRef
	count := len(ordered)
	g.geomDA.EnsureCapacity(int(offset)*4 + (2*count+1)*4)
	g.geomDA.SetInt(int(offset), int32(count))
	for i, p := range ordered {
		g.geomDA.SetInt(int(offset)+1+2*i, geo.EncodeCoord(p.Lat))
		g.geomDA.SetInt(int(offset)+2+2*i, geo.EncodeCoord(p.Lon))
	}
	g.maxGeoRef += int32(2*count + 1)
	g.setEdgeWord(it.curEdge, fGeoRef, offset)
}

func reverseLatLon(pts []LatLon) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}
