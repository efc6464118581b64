package routing

import (
	"errors"
	"math"

	"github.com/azybler/roadgraph/pkg/geo"
	"github.com/azybler/roadgraph/pkg/graphstore"
	"github.com/tidwall/rtree"
)

const maxSnapDistMeters = 500.0

// ErrPointTooFar is returned when the query point is too far from any road.
var ErrPointTooFar = errors.New("point too far from road")

// ErrNoRoute is returned when no route exists between two snapped points.
var ErrNoRoute = errors.New("no route found")

// SnapResult represents a point snapped onto a road segment.
type SnapResult struct {
	EdgeID int32
	NodeU  int32
	NodeV  int32
	Ratio  float64 // 0.0 = at NodeU, 1.0 = at NodeV
	Dist   float64 // meters from the query point to the snapped point
}

// snapWindowDeg is the half-width, in degrees, of the first rtree search
// window. ~0.01deg is about 1.1km at the equator, comfortably above the
// 500m max snap distance; Snap widens the window to 5x and then 25x this
// size if nothing turns up.
const snapWindowDeg = 0.01

// Snapper finds the nearest road segment to a query point using an rtree
// index over node coordinates, replacing the teacher's flat sorted-grid
// edge index (gridCell/cellKey/cellEdge in the CH-era snap.go) with the
// tree structure exercised elsewhere in this corpus.
type Snapper struct {
	tree rtree.RTreeG[int32]
	g    *graphstore.Graph
}

// NewSnapper indexes every node of g by its point bounding box.
func NewSnapper(g *graphstore.Graph) *Snapper {
	s := &Snapper{g: g}
	for id := int32(0); id < int32(g.NodeCount()); id++ {
		if g.IsNodeRemoved(id) {
			continue
		}
		lat, lon := g.GetLatitude(id), g.GetLongitude(id)
		point := [2]float64{lon, lat}
		s.tree.Insert(point, point, id)
	}
	return s
}

// Snap finds the nearest road segment to (lat, lon). It searches a growing
// window of nearby nodes via the rtree, then for every candidate node walks
// its incident edges computing the true perpendicular distance, since the
// rtree only narrows by node proximity, not edge proximity.
func (s *Snapper) Snap(lat, lon float64) (SnapResult, error) {
	var best SnapResult
	bestDist := math.Inf(1)
	found := false

	for _, half := range []float64{snapWindowDeg, snapWindowDeg * 5, snapWindowDeg * 25} {
		min := [2]float64{lon - half, lat - half}
		max := [2]float64{lon + half, lat + half}

		s.tree.Search(min, max, func(_, _ [2]float64, nodeID int32) bool {
			it := s.g.GetEdges(nodeID)
			for it.Next() {
				u, v := nodeID, it.AdjNode()
				dist, ratio := geo.PointToSegmentDist(
					lat, lon,
					s.g.GetLatitude(u), s.g.GetLongitude(u),
					s.g.GetLatitude(v), s.g.GetLongitude(v),
				)
				if dist < bestDist {
					bestDist = dist
					best = SnapResult{EdgeID: it.EdgeID(), NodeU: u, NodeV: v, Ratio: ratio, Dist: dist}
					found = true
				}
			}
			return true
		})

		if found {
			break
		}
	}

	if !found || bestDist > maxSnapDistMeters {
		return SnapResult{}, ErrPointTooFar
	}
	return best, nil
}
