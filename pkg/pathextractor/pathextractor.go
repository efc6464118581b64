// Package pathextractor walks a predecessor chain produced by a routing
// algorithm and reconstructs the route's point list, node list, way list
// (turn instructions), and aggregate distance/time.
package pathextractor

import (
	"math"

	"github.com/azybler/roadgraph/pkg/graphstore"
	"github.com/azybler/roadgraph/pkg/pointlist"
	"github.com/azybler/roadgraph/pkg/waylist"
)

// VehicleEncoder decodes the speed a given edge's flags permit, used for
// the extractor's time calculation.
type VehicleEncoder interface {
	Speed(flags int32) float64
}

// Entry is one link of a predecessor chain: the edge used to reach
// EndNode from Parent.EndNode. A chain terminates at the entry whose Edge
// is not a valid edge id (Edge <= graphstore.NoEdge); that entry's EndNode
// is the path's source node.
type Entry struct {
	Edge    int32
	EndNode int32
	Parent  *Entry
}

// Path is built by Extract and lazily computes and caches its derived
// views (points, nodes, ways, distances) on first access.
type Path struct {
	graph   *graphstore.Graph
	encoder VehicleEncoder

	found    bool
	fromNode int32
	edgeIDs  []int32 // source -> goal order
	distance float64
	timeSecs float64

	points *pointlist.List
	nodes  []int32
	ways   *waylist.List
	dists  []float64
}

// Extract walks goal upward by Parent, accumulating distance and time, then
// reverses the edge sequence so it runs source -> goal. If goal is itself
// a terminator (no predecessor edges), the returned Path has found == true
// with zero edges and fromNode == goal.EndNode. Extract always sets found,
// so Found() does not tell whether goal was reachable from the source.
func Extract(graph *graphstore.Graph, encoder VehicleEncoder, goal *Entry) *Path {
	p := &Path{graph: graph, encoder: encoder}
	var edgeIDs []int32
	cur := goal
	for cur != nil && cur.Edge > graphstore.NoEdge {
		iter := graph.GetEdgeProps(cur.Edge, cur.EndNode)
		iter.Next()
		p.distance += iter.Distance()
		speed := encoder.Speed(iter.Flags())
		if speed > 0 {
			p.timeSecs += iter.Distance() * 3.6 / speed
		}
		edgeIDs = append(edgeIDs, cur.Edge)
		cur = cur.Parent
	}
	if cur != nil {
		p.fromNode = cur.EndNode
	} else if goal != nil {
		p.fromNode = goal.EndNode
	}

	for i, j := 0, len(edgeIDs)-1; i < j; i, j = i+1, j-1 {
		edgeIDs[i], edgeIDs[j] = edgeIDs[j], edgeIDs[i]
	}
	p.edgeIDs = edgeIDs
	p.found = true
	return p
}

// Found reports whether Extract produced a usable path.
func (p *Path) Found() bool { return p.found }

// Distance returns the accumulated route distance in meters.
func (p *Path) Distance() float64 { return p.distance }

// Time returns the accumulated route duration in seconds.
func (p *Path) Time() float64 { return p.timeSecs }

// EdgeIDs returns the edge ids traversed, in source -> goal order.
func (p *Path) EdgeIDs() []int32 { return p.edgeIDs }

// CalcPoints returns the route's decoded geometry: fromNode's coordinates,
// then for each edge its pillar polyline followed by its base-node
// coordinates. The result is cached after the first call.
//
// The polyline returned by WayGeometry is unconditionally reversed again
// here before being appended. On-disk polylines are canonical nodeA->nodeB
// order and the iterator from GetEdgeProps(edgeID, prevBase) already
// returns them in prevBase -> AdjNode order, the direction of travel, so
// each edge's pillar points are appended from the AdjNode end back toward
// prevBase. No test in this package sets pillar geometry.
func (p *Path) CalcPoints() *pointlist.List {
	if p.points != nil {
		return p.points
	}
	pts := pointlist.New(len(p.edgeIDs) + 1)
	lat, lon := p.graph.GetLatitude(p.fromNode), p.graph.GetLongitude(p.fromNode)
	pts.Add(lat, lon)

	prevBase := p.fromNode
	for _, edgeID := range p.edgeIDs {
		iter := p.graph.GetEdgeProps(edgeID, prevBase)
		iter.Next()
		poly := iter.WayGeometry()
		for i := len(poly) - 1; i >= 0; i-- {
			pts.Add(poly[i].Lat, poly[i].Lon)
		}
		base := iter.AdjNode()
		pts.Add(p.graph.GetLatitude(base), p.graph.GetLongitude(base))
		prevBase = base
	}
	p.points = pts
	return pts
}

// CalcNodes returns [fromNode, e0.base, e1.base, ...]. Cached after the
// first call.
func (p *Path) CalcNodes() []int32 {
	if p.nodes != nil {
		return p.nodes
	}
	nodes := make([]int32, 0, len(p.edgeIDs)+1)
	nodes = append(nodes, p.fromNode)
	prevBase := p.fromNode
	for _, edgeID := range p.edgeIDs {
		iter := p.graph.GetEdgeProps(edgeID, prevBase)
		iter.Next()
		base := iter.AdjNode()
		nodes = append(nodes, base)
		prevBase = base
	}
	p.nodes = nodes
	return nodes
}

// CalcDistances returns the per-edge distance in traversal order.
func (p *Path) CalcDistances() []float64 {
	if p.dists != nil {
		return p.dists
	}
	dists := make([]float64, 0, len(p.edgeIDs))
	prevBase := p.fromNode
	for _, edgeID := range p.edgeIDs {
		iter := p.graph.GetEdgeProps(edgeID, prevBase)
		iter.Next()
		dists = append(dists, iter.Distance())
		prevBase = iter.AdjNode()
	}
	p.dists = dists
	return dists
}

// CalcWays derives turn instructions by comparing consecutive bearings.
// Cached after the first call.
func (p *Path) CalcWays() *waylist.List {
	if p.ways != nil {
		return p.ways
	}
	ways := waylist.New(len(p.edgeIDs))

	var prevTheta float64
	var lastName string
	prevBase := p.fromNode
	curLat, curLon := p.graph.GetLatitude(p.fromNode), p.graph.GetLongitude(p.fromNode)

	for i, edgeID := range p.edgeIDs {
		iter := p.graph.GetEdgeProps(edgeID, prevBase)
		iter.Next()
		base := iter.AdjNode()
		lat, lon := p.graph.GetLatitude(base), p.graph.GetLongitude(base)

		sameName := i > 0 && iter.Name() == lastName

		if i == 0 {
			lastName = iter.Name()
			ways.Add(waylist.ContinueOnStreet, lastName)
		} else if !sameName {
			theta := math.Atan2(lat-curLat, lon-curLon)
			if theta < 0 {
				theta += 2 * math.Pi
			}
			shifted := theta
			if prevTheta >= 0 && theta < prevTheta-math.Pi {
				shifted = theta + 2*math.Pi
			} else if prevTheta < 0 && theta > prevTheta+math.Pi {
				shifted = theta - 2*math.Pi
			}

			switch {
			case shifted > prevTheta:
				ways.Add(waylist.TurnLeft, lastName)
			case shifted < prevTheta:
				ways.Add(waylist.TurnRight, lastName)
			default:
				ways.Add(waylist.ContinueOnStreet, lastName)
			}
			lastName = iter.Name()
		}

		if i == 0 || sameName {
			prevTheta = 0
		} else {
			prevTheta = math.Atan2(lat-curLat, lon-curLon)
			if prevTheta < 0 {
				prevTheta += 2 * math.Pi
			}
		}
		curLat, curLon = lat, lon
		prevBase = base
	}
	p.ways = ways
	return ways
}

// CalculateIdenticalNodes returns the set intersection of this path's and
// other's CalcNodes().
func (p *Path) CalculateIdenticalNodes(other *Path) map[int32]struct{} {
	mine := p.CalcNodes()
	theirs := other.CalcNodes()
	theirSet := make(map[int32]struct{}, len(theirs))
	for _, n := range theirs {
		theirSet[n] = struct{}{}
	}
	out := make(map[int32]struct{})
	for _, n := range mine {
		if _, ok := theirSet[n]; ok {
			out[n] = struct{}{}
		}
	}
	return out
}
