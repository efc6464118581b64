package graphstore

import "testing"

// buildTwoComponents builds a disconnected graph: a 3-node line (0-1-2)
// and a single isolated edge (3-4), so LargestComponent has an
// unambiguous winner.
func buildTwoComponents(t *testing.T) *Graph {
	t.Helper()
	g := newTestGraph(t)
	g.SetNode(0, 1.000, 103.000)
	g.SetNode(1, 1.001, 103.000)
	g.SetNode(2, 1.002, 103.000)
	g.SetNode(3, 2.000, 104.000)
	g.SetNode(4, 2.001, 104.000)

	if _, err := g.Edge(0, 1, 100, 3, 0); err != nil {
		t.Fatalf("Edge 0-1: %v", err)
	}
	if _, err := g.Edge(1, 2, 100, 3, 0); err != nil {
		t.Fatalf("Edge 1-2: %v", err)
	}
	if _, err := g.Edge(3, 4, 100, 3, 0); err != nil {
		t.Fatalf("Edge 3-4: %v", err)
	}
	return g
}

func TestLargestComponentPicksBiggerGroup(t *testing.T) {
	g := buildTwoComponents(t)

	nodes := g.LargestComponent()
	if len(nodes) != 3 {
		t.Fatalf("LargestComponent size = %d, want 3", len(nodes))
	}

	got := map[int32]bool{}
	for _, n := range nodes {
		got[n] = true
	}
	for _, want := range []int32{0, 1, 2} {
		if !got[want] {
			t.Errorf("LargestComponent missing node %d", want)
		}
	}
	if got[3] || got[4] {
		t.Errorf("LargestComponent included the smaller component: %v", nodes)
	}
}

func TestCopyToProducesDenseRenumberedGraph(t *testing.T) {
	src := buildTwoComponents(t)

	dst := newTestGraph(t)
	if err := src.CopyTo(dst); err != nil {
		t.Fatalf("CopyTo: %v", err)
	}

	if dst.NodeCount() != 3 {
		t.Fatalf("dst.NodeCount() = %d, want 3", dst.NodeCount())
	}
	if dst.EdgeCount() != 2 {
		t.Fatalf("dst.EdgeCount() = %d, want 2", dst.EdgeCount())
	}

	it := dst.AllEdges()
	var seen int
	for it.Next() {
		seen++
		if it.BaseNode() < 0 || it.BaseNode() >= int32(dst.NodeCount()) {
			t.Errorf("edge base node %d out of dense range", it.BaseNode())
		}
		if it.AdjNode() < 0 || it.AdjNode() >= int32(dst.NodeCount()) {
			t.Errorf("edge adj node %d out of dense range", it.AdjNode())
		}
	}
	if seen != 2 {
		t.Fatalf("AllEdges() visited %d edges, want 2", seen)
	}
}

func TestCopyToSkipsNodesMarkedRemoved(t *testing.T) {
	g := newTestGraph(t)
	g.SetNode(0, 1.000, 103.000)
	g.SetNode(1, 1.001, 103.000)
	g.SetNode(2, 1.002, 103.000)
	if _, err := g.Edge(0, 1, 100, 3, 0); err != nil {
		t.Fatalf("Edge 0-1: %v", err)
	}
	if _, err := g.Edge(1, 2, 100, 3, 0); err != nil {
		t.Fatalf("Edge 1-2: %v", err)
	}

	g.MarkNodeRemoved(2)

	dst := newTestGraph(t)
	if err := g.CopyTo(dst); err != nil {
		t.Fatalf("CopyTo: %v", err)
	}
	if dst.NodeCount() != 2 {
		t.Fatalf("dst.NodeCount() = %d, want 2 (node 2 excluded)", dst.NodeCount())
	}
	if dst.EdgeCount() != 1 {
		t.Fatalf("dst.EdgeCount() = %d, want 1", dst.EdgeCount())
	}
}

func TestLargestComponentEmptyGraph(t *testing.T) {
	g := newTestGraph(t)
	if nodes := g.LargestComponent(); nodes != nil {
		t.Fatalf("LargestComponent() on empty graph = %v, want nil", nodes)
	}
}
