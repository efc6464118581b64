package pathextractor

import (
	"math"
	"testing"

	"github.com/azybler/roadgraph/pkg/encoder"
	"github.com/azybler/roadgraph/pkg/graphstore"
	"github.com/azybler/roadgraph/pkg/store"
)

func newGraph(t *testing.T) *graphstore.Graph {
	t.Helper()
	dir := store.NewDirectory(t.TempDir(), store.RAM)
	g, err := graphstore.CreateNew(dir, encoder.CarFlagEncoder{}, 4)
	if err != nil {
		t.Fatalf("CreateNew: %v", err)
	}
	return g
}

// threeNodeLine builds (0,0) -[n0]- (0,1) -[n1]- (1,1) with distinct
// street names on each edge, matching scenario S5.
func threeNodeLine(t *testing.T) *graphstore.Graph {
	t.Helper()
	g := newGraph(t)
	g.SetNode(0, 0, 0)
	g.SetNode(1, 0, 1)
	g.SetNode(2, 1, 1)

	n0 := g.Names().AddName("First St")
	n1 := g.Names().AddName("Second St")

	var enc encoder.CarFlagEncoder
	if _, err := g.Edge(0, 1, 111000, enc.FlagsDefault(true), n0); err != nil {
		t.Fatalf("edge 0-1: %v", err)
	}
	if _, err := g.Edge(1, 2, 111000, enc.FlagsDefault(true), n1); err != nil {
		t.Fatalf("edge 1-2: %v", err)
	}
	return g
}

func TestExtractTurnDerivationS5(t *testing.T) {
	g := threeNodeLine(t)

	goal := &Entry{
		Edge:    1,
		EndNode: 2,
		Parent: &Entry{
			Edge:    0,
			EndNode: 1,
			Parent: &Entry{
				Edge:    graphstore.NoEdge,
				EndNode: 0,
			},
		},
	}

	var enc encoder.CarFlagEncoder
	p := Extract(g, enc, goal)
	if !p.Found() {
		t.Fatal("expected Found() == true")
	}

	nodes := p.CalcNodes()
	want := []int32{0, 1, 2}
	if len(nodes) != len(want) {
		t.Fatalf("CalcNodes() = %v, want %v", nodes, want)
	}
	for i := range want {
		if nodes[i] != want[i] {
			t.Fatalf("CalcNodes()[%d] = %d, want %d", i, nodes[i], want[i])
		}
	}

	ways := p.CalcWays()
	if ways.Size() != 2 {
		t.Fatalf("CalcWays().Size() = %d, want 2", ways.Size())
	}
	if got := ways.Indication(0); got != 0 {
		t.Errorf("first instruction = %d, want CONTINUE_ON_STREET (0)", got)
	}
	if got := ways.Indication(1); got != 1 {
		t.Errorf("second instruction = %d, want TURN_LEFT (1)", got)
	}
}

func TestExtractDistanceAndTime(t *testing.T) {
	g := threeNodeLine(t)
	goal := &Entry{
		Edge:    1,
		EndNode: 2,
		Parent: &Entry{
			Edge:    0,
			EndNode: 1,
			Parent:  &Entry{Edge: graphstore.NoEdge, EndNode: 0},
		},
	}
	var enc encoder.CarFlagEncoder
	p := Extract(g, enc, goal)

	if math.Abs(p.Distance()-222000) > 1 {
		t.Errorf("Distance() = %v, want ~222000", p.Distance())
	}
	if p.Time() <= 0 {
		t.Errorf("Time() = %v, want > 0", p.Time())
	}
	dists := p.CalcDistances()
	if len(dists) != 2 {
		t.Fatalf("CalcDistances() len = %d, want 2", len(dists))
	}
}

func TestExtractEmptyChain(t *testing.T) {
	g := newGraph(t)
	g.SetNode(0, 5, 5)
	goal := &Entry{Edge: graphstore.NoEdge, EndNode: 0}
	var enc encoder.CarFlagEncoder
	p := Extract(g, enc, goal)

	if !p.Found() {
		t.Fatal("Found() should be true even for a trivial single-node path")
	}
	if len(p.EdgeIDs()) != 0 {
		t.Errorf("EdgeIDs() = %v, want empty", p.EdgeIDs())
	}
	nodes := p.CalcNodes()
	if len(nodes) != 1 || nodes[0] != 0 {
		t.Errorf("CalcNodes() = %v, want [0]", nodes)
	}
}

func TestCalcPointsMatchesNodeCount(t *testing.T) {
	g := threeNodeLine(t)
	goal := &Entry{
		Edge:    1,
		EndNode: 2,
		Parent: &Entry{
			Edge:    0,
			EndNode: 1,
			Parent:  &Entry{Edge: graphstore.NoEdge, EndNode: 0},
		},
	}
	var enc encoder.CarFlagEncoder
	p := Extract(g, enc, goal)

	pts := p.CalcPoints()
	nodes := p.CalcNodes()
	if pts.Size() != len(nodes) {
		t.Fatalf("CalcPoints().Size() = %d, want %d (no pillar geometry was set)", pts.Size(), len(nodes))
	}
	if lat, lon := pts.Latitude(0), pts.Longitude(0); lat != 0 || lon != 0 {
		t.Errorf("first point = (%v,%v), want (0,0)", lat, lon)
	}
	last := pts.Size() - 1
	if lat, lon := pts.Latitude(last), pts.Longitude(last); lat != 1 || lon != 1 {
		t.Errorf("last point = (%v,%v), want (1,1)", lat, lon)
	}
}
