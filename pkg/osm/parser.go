package osm

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"github.com/azybler/roadgraph/pkg/config"
	"github.com/azybler/roadgraph/pkg/encoder"
	"github.com/azybler/roadgraph/pkg/geo"
	"github.com/azybler/roadgraph/pkg/graphstore"
	"github.com/azybler/roadgraph/pkg/logging"
)

// carHighways lists highway tag values accessible by car.
var carHighways = map[string]bool{
	"motorway":       true,
	"motorway_link":  true,
	"trunk":          true,
	"trunk_link":     true,
	"primary":        true,
	"primary_link":   true,
	"secondary":      true,
	"secondary_link": true,
	"tertiary":       true,
	"tertiary_link":  true,
	"unclassified":   true,
	"residential":    true,
	"living_street":  true,
	"service":        true,
}

// defaultSpeedKmh is the fallback speed used when a way carries no
// maxspeed tag, keyed by highway class.
var defaultSpeedKmh = map[string]uint8{
	"motorway":       110,
	"motorway_link":  60,
	"trunk":          90,
	"trunk_link":     50,
	"primary":        70,
	"primary_link":   40,
	"secondary":      60,
	"secondary_link": 40,
	"tertiary":       50,
	"tertiary_link":  30,
	"unclassified":   40,
	"residential":    30,
	"living_street":  15,
	"service":        20,
}

// isCarAccessible returns true if the way is drivable by car.
func isCarAccessible(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if !carHighways[hw] {
		return false
	}

	// Skip area highways (pedestrian plazas).
	if tags.Find("area") == "yes" {
		return false
	}

	// Skip restricted access.
	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	if tags.Find("motor_vehicle") == "no" {
		return false
	}

	return true
}

// directionFlags returns (forward, backward) based on highway type and oneway tags.
func directionFlags(tags osm.Tags) (forward, backward bool) {
	// Default: bidirectional.
	forward = true
	backward = true

	hw := tags.Find("highway")

	// Implied oneway for motorways and roundabouts.
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		backward = false
	}

	// Explicit oneway tag overrides.
	oneway := tags.Find("oneway")
	switch oneway {
	case "yes", "true", "1":
		forward = true
		backward = false
	case "-1", "reverse":
		forward = false
		backward = true
	case "no":
		forward = true
		backward = true
	case "reversible":
		// Time-dependent — skip entirely.
		forward = false
		backward = false
	}

	return forward, backward
}

// speedFor resolves a way's speed limit in km/h: an explicit maxspeed tag
// if present and parseable, else a per-highway-class default.
func speedFor(tags osm.Tags) uint8 {
	hw := tags.Find("highway")
	if v := strings.TrimSpace(tags.Find("maxspeed")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			if n > 255 {
				n = 255
			}
			return uint8(n)
		}
	}
	if s, ok := defaultSpeedKmh[hw]; ok {
		return s
	}
	return 30
}

// wayInfo holds parsed way data collected during Pass 1.
type wayInfo struct {
	NodeIDs  []osm.NodeID
	Forward  bool
	Backward bool
	Name     string
	SpeedKmh uint8
}

// Stats summarizes one Load call: how many ways and nodes were scanned and
// how many edges ended up written into the graph versus dropped.
type Stats struct {
	Ways               int
	Nodes              int
	EdgesWritten       int
	EdgesSkipped       int
	DegenerateSegments int
}

// degenerateDistanceMeters substitutes a nominal distance for way segments
// whose endpoints coincide (duplicate coordinates, or a closed loop back to
// its start node), so the connectivity the polyline intended is preserved
// instead of silently dropped.
const degenerateDistanceMeters = 0.0001

// segmentDistance returns the distance to store for a way segment between
// from and to, substituting degenerateDistanceMeters when the segment is a
// self-loop or its endpoints coincide.
func segmentDistance(from, to int32, fromLat, fromLon, toLat, toLon float64) (dist float64, degenerate bool) {
	if from == to {
		return degenerateDistanceMeters, true
	}
	dist = geo.Haversine(fromLat, fromLon, toLat, toLon)
	if dist == 0 {
		return degenerateDistanceMeters, true
	}
	return dist, false
}

// Load reads an OSM PBF file and writes its car-accessible road network
// directly into g: every way segment becomes one flag-encoded edge (both
// travel directions folded into a single record, per the intrusive storage
// layout), street names are deduplicated through g.Names(), and bbox, if
// set, restricts which node coordinates are accepted. The reader is
// consumed twice (seeks back to start for the second pass), so it must
// implement io.ReadSeeker.
func Load(ctx context.Context, rs io.ReadSeeker, g *graphstore.Graph, enc encoder.CarFlagEncoder, bbox *config.BBox) (*Stats, error) {
	// Pass 1: scan ways to collect referenced node IDs and way info.
	referencedNodes := make(map[osm.NodeID]struct{})
	var ways []wayInfo

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		obj := scanner.Object()
		w, ok := obj.(*osm.Way)
		if !ok {
			continue
		}
		if !isCarAccessible(w.Tags) {
			continue
		}
		if len(w.Nodes) < 2 {
			continue
		}
		fwd, bwd := directionFlags(w.Tags)
		if !fwd && !bwd {
			continue
		}

		nodeIDs := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			nodeIDs[i] = wn.ID
			referencedNodes[wn.ID] = struct{}{}
		}

		ways = append(ways, wayInfo{
			NodeIDs:  nodeIDs,
			Forward:  fwd,
			Backward: bwd,
			Name:     w.Tags.Find("name"),
			SpeedKmh: speedFor(w.Tags),
		})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("osm: pass 1 (ways): %w", err)
	}
	scanner.Close()

	logging.Get().Info("osm: way scan complete", zap.Int("ways", len(ways)), zap.Int("referenced_nodes", len(referencedNodes)))

	// Pass 2: scan nodes to collect coordinates for referenced nodes only,
	// applying the bbox filter (if set) at the coordinate level.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("osm: seek for pass 2: %w", err)
	}

	nodeLat := make(map[osm.NodeID]float64, len(referencedNodes))
	nodeLon := make(map[osm.NodeID]float64, len(referencedNodes))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		obj := scanner.Object()
		n, ok := obj.(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referencedNodes[n.ID]; !needed {
			continue
		}
		if bbox != nil && !bbox.Contains(n.Lat, n.Lon) {
			continue
		}
		nodeLat[n.ID] = n.Lat
		nodeLon[n.ID] = n.Lon
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("osm: pass 2 (nodes): %w", err)
	}
	scanner.Close()

	logging.Get().Info("osm: node scan complete", zap.Int("coords", len(nodeLat)))

	// Pass 3: assign dense node ids on first sight and write edges
	// directly into the graph store.
	dense := make(map[osm.NodeID]int32, len(nodeLat))
	var nextID int32
	resolve := func(id osm.NodeID) (int32, bool) {
		lat, ok := nodeLat[id]
		if !ok {
			return 0, false
		}
		if d, ok := dense[id]; ok {
			return d, true
		}
		lon := nodeLon[id]
		d := nextID
		nextID++
		dense[id] = d
		g.SetNode(d, lat, lon)
		return d, true
	}

	stats := &Stats{Ways: len(ways), Nodes: len(nodeLat)}
	for _, w := range ways {
		var nameRef int32
		if w.Name != "" {
			nameRef = g.Names().AddName(w.Name)
		}
		flags := enc.Encode(w.Forward, w.Backward, w.SpeedKmh)

		for i := 0; i < len(w.NodeIDs)-1; i++ {
			fromOSM, toOSM := w.NodeIDs[i], w.NodeIDs[i+1]
			from, okFrom := resolve(fromOSM)
			to, okTo := resolve(toOSM)
			if !okFrom || !okTo {
				stats.EdgesSkipped++
				continue
			}
			dist, degenerate := segmentDistance(from, to, nodeLat[fromOSM], nodeLon[fromOSM], nodeLat[toOSM], nodeLon[toOSM])
			if degenerate {
				stats.DegenerateSegments++
			}
			if _, err := g.Edge(from, to, dist, flags, nameRef); err != nil {
				return nil, fmt.Errorf("osm: writing edge: %w", err)
			}
			stats.EdgesWritten++
		}
	}

	logging.Get().Info("osm: load complete",
		zap.Int("nodes", stats.Nodes),
		zap.Int("edges_written", stats.EdgesWritten),
		zap.Int("edges_skipped", stats.EdgesSkipped),
		zap.Int("degenerate_segments", stats.DegenerateSegments),
	)
	return stats, nil
}
