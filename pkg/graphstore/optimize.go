package graphstore

import "fmt"

// Optimize compacts away every node marked by MarkNodeRemoved. It never
// reclaims edge records: edges that pointed to a removed node become
// orphaned (their chains are spliced out, but the record itself is left
// behind); reclaiming them would need a second pass over the edges area,
// which this does not perform.
func (g *Graph) Optimize() error {
	if g.removed == nil {
		return nil
	}

	var removedList []int32
	for i, r := range g.removed {
		if r {
			removedList = append(removedList, int32(i))
		}
	}
	k := len(removedList)
	if k == 0 {
		g.removed = nil
		return nil
	}

	removedSet := make(map[int32]bool, k)
	for _, id := range removedList {
		removedSet[id] = true
	}

	// Step 1: pair descending movers with ascending removed slots.
	oldToNew := make(map[int32]int32, k)
	mover := int32(g.nodeCount) - 1
	for _, delNode := range removedList {
		for mover > delNode && removedSet[mover] {
			mover--
		}
		if mover <= delNode {
			break
		}
		oldToNew[mover] = delNode
		mover--
	}

	// Step 2: collect every live neighbor of a removed node, and every
	// neighbor of a moving node.
	toUpdated := make(map[int32]bool)
	for _, delNode := range removedList {
		g.walkAdjacency(delNode, func(_, other int32) {
			if !removedSet[other] {
				toUpdated[other] = true
			}
		})
	}
	for oldID := range oldToNew {
		g.walkAdjacency(oldID, func(_, other int32) {
			toUpdated[other] = true
		})
	}

	// Step 3: splice out every edge from a toUpdated node to a removed node.
	for u := range toUpdated {
		g.disconnectRemovedEdges(u, removedSet)
	}

	// Step 4: copy node records from each mover's old slot to its new slot.
	for oldID, newID := range oldToNew {
		for f := 0; f < nodeEntrySize; f++ {
			g.setNodeWord(newID, f, g.nodeWord(oldID, f))
		}
	}

	remap := func(id int32) int32 {
		if newID, ok := oldToNew[id]; ok {
			return newID
		}
		return id
	}

	// Step 5: rewrite every edge touching a toUpdated endpoint with remapped
	// node ids, re-canonicalizing order.
	it := g.AllEdges()
	for it.Next() {
		eid := it.EdgeID()
		a := g.edgeWord(eid, fNodeA)
		b := g.edgeWord(eid, fNodeB)
		if !toUpdated[a] && !toUpdated[b] {
			continue
		}
		linkA := g.edgeWord(eid, fLinkA)
		linkB := g.edgeWord(eid, fLinkB)
		dist := g.edgeWord(eid, fDist)
		flags := g.edgeWord(eid, fFlags)
		nameRef := g.edgeWord(eid, fNameRef)
		geoRef := g.edgeWord(eid, fGeoRef)
		g.writeEdge(eid, remap(a), remap(b), linkA, linkB, dist, flags, nameRef, geoRef)
	}

	// Step 6: shrink nodeCount, clear the removed set.
	g.nodeCount -= k
	g.removed = nil

	// Step 7: trim the nodes area to the new size.
	g.nodes.TrimTo(g.nodeCount * nodeEntrySize * 4)

	return nil
}

// walkAdjacency calls fn(node, other) for every edge incident to node,
// using the current (pre-splice) chain. Bounded the same way connectNewEdge
// is, since a removal pass walks every marked node's chain once.
func (g *Graph) walkAdjacency(node int32, fn func(node, other int32)) {
	cur := g.nodeWord(node, fEdgeRef)
	hops := 0
	for cur != NoEdge {
		hops++
		if hops > maxAdjacencyWalk {
			panic(fmt.Sprintf("graphstore: adjacency chain for node %d exceeds %d hops during optimize, likely corrupt chain", node, maxAdjacencyWalk))
		}
		other := g.getOtherNode(node, cur)
		next := g.getLinkForNode(cur, node)
		fn(node, other)
		cur = next
	}
}

// disconnectRemovedEdges splices every edge from u to a node in removedSet
// out of u's adjacency chain, via internalEdgeDisconnect's algorithm: read
// the edge's next link in u's chain, then write it into u's edgeRef (if the
// disconnected edge was the head) or into the previous surviving edge's
// link slot for u.
func (g *Graph) disconnectRemovedEdges(u int32, removedSet map[int32]bool) {
	prev := int32(NoEdge)
	cur := g.nodeWord(u, fEdgeRef)
	hops := 0
	for cur != NoEdge {
		hops++
		if hops > maxAdjacencyWalk {
			panic(fmt.Sprintf("graphstore: adjacency chain for node %d exceeds %d hops during optimize, likely corrupt chain", u, maxAdjacencyWalk))
		}
		next := g.getLinkForNode(cur, u)
		other := g.getOtherNode(u, cur)
		if removedSet[other] {
			if prev == NoEdge {
				g.setNodeWord(u, fEdgeRef, next)
			} else {
				g.setLinkForNode(prev, u, next)
			}
			cur = next
			continue
		}
		prev = cur
		cur = next
	}
}
