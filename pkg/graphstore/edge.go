package graphstore

import (
	"fmt"

	"github.com/azybler/roadgraph/pkg/geo"
)

// Edge inserts a new directed-with-flags edge between a and b. flags must
// already be in the (a, b) direction the caller is describing — Edge
// canonicalizes storage order internally (nodeA <= nodeB), applying
// CombinedEncoder.SwapDirection when the caller's pair is descending.
// Returns an EdgeIterator positioned on the new edge.
func (g *Graph) Edge(a, b int32, distMeters float64, flags int32, nameRef int32) (EdgeIterator, error) {
	hi := a
	if b > hi {
		hi = b
	}
	g.ensureNodeIndex(hi)

	edgeID := int32(g.edgeCount)
	if edgeID < 0 {
		return nil, fmt.Errorf("graphstore: edge count overflow")
	}
	g.edgeCount++
	g.ensureEdgeIndex(g.edgeCount)

	g.connectNewEdge(a, edgeID)
	if a != b {
		g.connectNewEdge(b, edgeID)
	}

	distFixed := geo.EncodeDist(distMeters)
	g.writeEdge(edgeID, a, b, NoEdge, NoEdge, distFixed, flags, nameRef, 0)

	return &edgeIter{g: g, mode: modeSingle, curEdge: edgeID, baseNode: a, adjNode: b, started: true}, nil
}

// EdgeBothDirections is a convenience wrapper matching the spec's
// "flagsOrBothDir" overload: it asks encoder for the default bidirectional
// flags before delegating to Edge.
func (g *Graph) EdgeBothDirections(a, b int32, distMeters float64, nameRef int32) (EdgeIterator, error) {
	return g.Edge(a, b, distMeters, g.encoder.FlagsDefault(true), nameRef)
}

// connectNewEdge appends edgeID to node's adjacency chain by walking to the
// tail and overwriting the tail's link field for node, or by setting
// node's edgeRef directly if the chain was empty.
func (g *Graph) connectNewEdge(node, edgeID int32) {
	head := g.nodeWord(node, fEdgeRef)
	if head == NoEdge {
		g.setNodeWord(node, fEdgeRef, edgeID)
		return
	}
	last := head
	for hops := 0; ; hops++ {
		if hops > maxAdjacencyWalk {
			panic(fmt.Sprintf("graphstore: adjacency chain for node %d exceeds %d hops, likely corrupt (cyclic) chain", node, maxAdjacencyWalk))
		}
		next := g.getLinkForNode(last, node)
		if next == NoEdge {
			break
		}
		last = next
	}
	g.setLinkForNode(last, node, edgeID)
}

// writeEdge canonicalizes (a, b) so nodeA <= nodeB, swapping the link pair
// and applying SwapDirection to flags when the caller's pair was
// descending, then stores the full record.
func (g *Graph) writeEdge(edgeID, a, b, linkA, linkB, distFixed, flags, nameRef, geoRef int32) {
	if a > b {
		a, b = b, a
		linkA, linkB = linkB, linkA
		flags = g.encoder.SwapDirection(flags)
	}
	g.setEdgeWord(edgeID, fNodeA, a)
	g.setEdgeWord(edgeID, fNodeB, b)
	g.setEdgeWord(edgeID, fLinkA, linkA)
	g.setEdgeWord(edgeID, fLinkB, linkB)
	g.setEdgeWord(edgeID, fDist, distFixed)
	g.setEdgeWord(edgeID, fFlags, flags)
	g.setEdgeWord(edgeID, fNameRef, nameRef)
	g.setEdgeWord(edgeID, fGeoRef, geoRef)
}

// getOtherNode returns the endpoint of edgeID that is not node (or node
// itself, for a self-loop).
func (g *Graph) getOtherNode(node, edgeID int32) int32 {
	nodeA := g.edgeWord(edgeID, fNodeA)
	if nodeA == node {
		return g.edgeWord(edgeID, fNodeB)
	}
	return nodeA
}

// getLinkForNode reads the adjacency-chain "next" field belonging to node's
// perspective of edgeID (linkA if node is nodeA, else linkB). For a
// self-loop, nodeA == nodeB == node, so this always returns linkA — the
// chain has only one slot, matching the single-chain self-loop invariant.
func (g *Graph) getLinkForNode(edgeID, node int32) int32 {
	if g.edgeWord(edgeID, fNodeA) == node {
		return g.edgeWord(edgeID, fLinkA)
	}
	return g.edgeWord(edgeID, fLinkB)
}

func (g *Graph) setLinkForNode(edgeID, node, value int32) {
	if g.edgeWord(edgeID, fNodeA) == node {
		g.setEdgeWord(edgeID, fLinkA, value)
	} else {
		g.setEdgeWord(edgeID, fLinkB, value)
	}
}
