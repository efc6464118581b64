package routing

import (
	"context"
	"math"

	"github.com/azybler/roadgraph/pkg/encoder"
	"github.com/azybler/roadgraph/pkg/graphstore"
	"github.com/azybler/roadgraph/pkg/pathextractor"
)

// MinHeap is a concrete-typed min-heap for Dijkstra's priority queue.
// Avoids interface boxing overhead of container/heap.
type MinHeap struct {
	items []PQItem
}

// PQItem is a priority queue entry.
type PQItem struct {
	Node uint32
	Dist uint32
}

func (h *MinHeap) Len() int { return len(h.items) }

func (h *MinHeap) Push(node, dist uint32) {
	h.items = append(h.items, PQItem{node, dist})
	h.siftUp(len(h.items) - 1)
}

func (h *MinHeap) Pop() PQItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *MinHeap) PeekDist() uint32 {
	if len(h.items) == 0 {
		return math.MaxUint32
	}
	return h.items[0].Dist
}

func (h *MinHeap) Reset() {
	h.items = h.items[:0]
}

func (h *MinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].Dist >= h.items[parent].Dist {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.items[left].Dist < h.items[smallest].Dist {
			smallest = left
		}
		if right < n && h.items[right].Dist < h.items[smallest].Dist {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// distScale converts a float meters distance into the uint32 millimeter
// weight MinHeap sorts on, matching geo.EncodeDist's fixed-point scale.
const distScale = 1000.0

// Dijkstra runs a plain single-source shortest path search directly over a
// graphstore.Graph's adjacency chains, filtered by a CombinedEncoder's
// vehicle-accessibility bit. It holds no graph-sized state between calls;
// ShortestPath allocates its own distance/predecessor arrays each time,
// trading reuse (the CH-era QueryState's Reset/Touched bookkeeping) for
// simplicity, since this module's graphs do not carry the hierarchy CH
// needs to make reuse worth the bookkeeping.
type Dijkstra struct {
	g       *graphstore.Graph
	encoder encoder.CarFlagEncoder
}

// NewDijkstra builds a Dijkstra adapter over g, filtering traversal to
// edges enc permits in the forward direction.
func NewDijkstra(g *graphstore.Graph, enc encoder.CarFlagEncoder) *Dijkstra {
	return &Dijkstra{g: g, encoder: enc}
}

// ShortestPath finds the shortest path from start to target, returning a
// pathextractor.Path. ErrNoRoute is returned if target is unreachable.
func (d *Dijkstra) ShortestPath(ctx context.Context, start, target int32) (*pathextractor.Path, error) {
	n := d.g.NodeCount()
	dist := make([]uint32, n)
	predEdge := make([]int32, n)
	predNode := make([]int32, n)
	visited := make([]bool, n)
	for i := range dist {
		dist[i] = math.MaxUint32
		predEdge[i] = graphstore.NoEdge
		predNode[i] = -1
	}

	filter := encoder.VehicleFilter{Encoder: d.encoder}

	var pq MinHeap
	dist[start] = 0
	pq.Push(uint32(start), 0)

	iterations := 0
	for pq.Len() > 0 {
		iterations++
		if iterations%256 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		item := pq.Pop()
		u := int32(item.Node)
		if visited[u] {
			continue
		}
		visited[u] = true
		if u == target {
			break
		}

		it := d.g.GetEdgesFiltered(u, filter)
		for it.Next() {
			v := it.AdjNode()
			if visited[v] {
				continue
			}
			w := uint32(math.Round(it.Distance() * distScale))
			newDist := dist[u] + w
			if newDist < dist[v] {
				dist[v] = newDist
				predEdge[v] = it.EdgeID()
				predNode[v] = u
				pq.Push(uint32(v), newDist)
			}
		}
	}

	if !visited[target] {
		return nil, ErrNoRoute
	}

	var chainNodes []int32
	var chainEdges []int32
	for cur := target; cur != start; cur = predNode[cur] {
		chainNodes = append(chainNodes, cur)
		chainEdges = append(chainEdges, predEdge[cur])
	}

	goal := &pathextractor.Entry{Edge: graphstore.NoEdge, EndNode: start}
	for i := len(chainNodes) - 1; i >= 0; i-- {
		goal = &pathextractor.Entry{Edge: chainEdges[i], EndNode: chainNodes[i], Parent: goal}
	}
	return pathextractor.Extract(d.g, d.encoder, goal), nil
}
