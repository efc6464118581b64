package graphstore

// unionFind is a disjoint-set structure with path halving and union by
// rank, representation-agnostic over node ids.
type unionFind struct {
	parent []int32
	rank   []byte
	size   []int32
}

func newUnionFind(n int32) *unionFind {
	parent := make([]int32, n)
	size := make([]int32, n)
	for i := range parent {
		parent[i] = int32(i)
		size[i] = 1
	}
	return &unionFind{parent: parent, rank: make([]byte, n), size: size}
}

func (uf *unionFind) find(x int32) int32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(x, y int32) bool {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return false
	}
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// LargestComponent returns the node ids belonging to the largest weakly
// connected component, treating every edge as undirected.
func (g *Graph) LargestComponent() []int32 {
	if g.nodeCount == 0 {
		return nil
	}

	uf := newUnionFind(int32(g.nodeCount))
	it := g.AllEdges()
	for it.Next() {
		uf.union(it.BaseNode(), it.AdjNode())
	}

	var bestRoot int32
	var bestSize int32
	for i := int32(0); i < int32(g.nodeCount); i++ {
		if g.IsNodeRemoved(i) {
			continue
		}
		root := uf.find(i)
		if uf.size[root] > bestSize {
			bestRoot = root
			bestSize = uf.size[root]
		}
	}

	nodes := make([]int32, 0, bestSize)
	for i := int32(0); i < int32(g.nodeCount); i++ {
		if g.IsNodeRemoved(i) {
			continue
		}
		if uf.find(i) == bestRoot {
			nodes = append(nodes, i)
		}
	}
	return nodes
}

// CopyTo copies this graph's largest weakly connected component into dst,
// which must be empty. Nodes are renumbered densely starting at 0 in the
// order LargestComponent returns them; edge ids in dst bear no relation to
// edge ids in g. This is the intrusive-storage equivalent of the teacher's
// FilterToComponent: instead of rebuilding CSR arrays, it walks AllEdges()
// and re-inserts accepted edges into dst via Edge/SetNode, which naturally
// produces a compacted, canonically-ordered copy.
func (g *Graph) CopyTo(dst *Graph) error {
	nodes := g.LargestComponent()
	oldToNew := make(map[int32]int32, len(nodes))
	for newID, oldID := range nodes {
		oldToNew[oldID] = int32(newID)
		dst.SetNode(int32(newID), g.GetLatitude(oldID), g.GetLongitude(oldID))
	}

	it := g.AllEdges()
	for it.Next() {
		newA, okA := oldToNew[it.BaseNode()]
		if !okA {
			continue
		}
		newB, okB := oldToNew[it.AdjNode()]
		if !okB {
			continue
		}
		name := it.Name()
		var nameRef int32
		if name != "" {
			nameRef = dst.Names().AddName(name)
		}
		newEdge, err := dst.Edge(newA, newB, it.Distance(), it.Flags(), nameRef)
		if err != nil {
			return err
		}
		if poly := it.WayGeometry(); len(poly) > 0 {
			newEdge.SetWayGeometry(poly)
		}
	}
	return nil
}
