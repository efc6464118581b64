package routing

import (
	"context"
	"testing"

	"github.com/azybler/roadgraph/pkg/encoder"
	"github.com/azybler/roadgraph/pkg/graphstore"
	"github.com/azybler/roadgraph/pkg/store"
)

// TestStorageToExtractionRoundTrip builds a small named three-edge graph,
// flushes it to disk, reloads it from scratch, and checks that a route
// query through the reloaded graph reproduces the same distance, node
// sequence, and street names as the graph that was originally populated.
func TestStorageToExtractionRoundTrip(t *testing.T) {
	graphDir := t.TempDir()
	dir1 := store.NewDirectory(graphDir, store.RAM)
	enc := encoder.CarFlagEncoder{}
	g, err := graphstore.CreateNew(dir1, enc, 4)
	if err != nil {
		t.Fatalf("CreateNew: %v", err)
	}
	g.SetNode(0, 1.000, 103.000)
	g.SetNode(1, 1.000, 103.001)
	g.SetNode(2, 1.000, 103.002)
	g.SetNode(3, 1.000, 103.003)

	nFirst := g.Names().AddName("First Ave")
	nSecond := g.Names().AddName("Second Ave")

	both := enc.FlagsDefault(true)
	if _, err := g.Edge(0, 1, 100, both, nFirst); err != nil {
		t.Fatalf("edge 0-1: %v", err)
	}
	if _, err := g.Edge(1, 2, 100, both, nFirst); err != nil {
		t.Fatalf("edge 1-2: %v", err)
	}
	if _, err := g.Edge(2, 3, 100, both, nSecond); err != nil {
		t.Fatalf("edge 2-3: %v", err)
	}

	if err := g.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	dir2 := store.NewDirectory(graphDir, store.RAM)
	reloaded, err := graphstore.LoadExisting(dir2, enc)
	if err != nil {
		t.Fatalf("LoadExisting: %v", err)
	}
	defer reloaded.Close()

	d := NewDijkstra(reloaded, enc)
	path, err := d.ShortestPath(context.Background(), 0, 3)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if !path.Found() {
		t.Fatal("expected a path after reload")
	}
	if got, want := path.Distance(), 300.0; got != want {
		t.Errorf("Distance = %v, want %v", got, want)
	}

	nodes := path.CalcNodes()
	wantNodes := []int32{0, 1, 2, 3}
	if len(nodes) != len(wantNodes) {
		t.Fatalf("CalcNodes = %v, want %v", nodes, wantNodes)
	}
	for i, n := range wantNodes {
		if nodes[i] != n {
			t.Fatalf("CalcNodes = %v, want %v", nodes, wantNodes)
		}
	}

	ways := path.CalcWays()
	if ways.Size() == 0 {
		t.Fatal("CalcWays produced no turn instructions")
	}

	// Each instruction carries the name of the street being left, so the
	// change onto Second Ave at node 2 is reported under First Ave.
	wantNames := []string{"First Ave", "First Ave"}
	if ways.Size() != len(wantNames) {
		t.Fatalf("CalcWays size = %d, want %d", ways.Size(), len(wantNames))
	}
	for i, want := range wantNames {
		if got := ways.Name(i); got != want {
			t.Errorf("CalcWays name %d = %q, want %q", i, got, want)
		}
	}
	if got := reloaded.Names().GetName(nSecond); got != "Second Ave" {
		t.Errorf("reloaded name %d = %q, want %q", nSecond, got, "Second Ave")
	}
}
