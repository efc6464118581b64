package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/spf13/cobra"

	"github.com/azybler/roadgraph/pkg/encoder"
	"github.com/azybler/roadgraph/pkg/graphstore"
	"github.com/azybler/roadgraph/pkg/logging"
	"github.com/azybler/roadgraph/pkg/manifest"
	"github.com/azybler/roadgraph/pkg/osm"
	"github.com/azybler/roadgraph/pkg/store"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <osm.pbf>",
	Short: "Parse an OSM PBF extract into a graph directory",
	Long: `ingest reads a .osm.pbf file, keeps the car-accessible road network,
and writes it into --graph-dir as a fresh graphstore directory.

This stage:
  1. Scans ways for car-accessible highways and their direction/speed tags
  2. Scans referenced node coordinates, applying --bbox if set
  3. Writes nodes and flag-encoded edges directly into the graph store`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	log := logging.Get()
	inputPath := args[0]

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("ingest: open %s: %w", inputPath, err)
	}
	defer f.Close()

	if err := os.MkdirAll(cfg.GraphDir, 0o755); err != nil {
		return fmt.Errorf("ingest: create graph dir: %w", err)
	}

	dir := store.NewDirectory(cfg.GraphDir, resolveBackend(cfg.Backend))

	enc := encoder.CarFlagEncoder{}
	g, err := graphstore.CreateNew(dir, enc, cfg.InitialNodeCap)
	if err != nil {
		return fmt.Errorf("ingest: create graph: %w", err)
	}

	log.Info("starting OSM ingest",
		zap.String("input", inputPath),
		zap.String("graph_dir", cfg.GraphDir),
		zap.String("backend", string(cfg.Backend)),
	)

	start := time.Now()
	stats, err := osm.Load(context.Background(), f, g, enc, cfg.BBox)
	if err != nil {
		g.Close()
		return fmt.Errorf("ingest: load: %w", err)
	}

	if err := g.Flush(); err != nil {
		g.Close()
		return fmt.Errorf("ingest: flush: %w", err)
	}
	if err := g.Close(); err != nil {
		return fmt.Errorf("ingest: close: %w", err)
	}
	if err := dir.Close(); err != nil {
		return fmt.Errorf("ingest: close directory: %w", err)
	}

	if err := writeManifest(cfg.GraphDir, g, string(cfg.Backend)); err != nil {
		log.Warn("manifest write failed, inspect will fall back to scanning", zap.Error(err))
	}

	elapsed := time.Since(start)
	log.Info("ingest complete",
		zap.Duration("duration", elapsed.Round(time.Second)),
		zap.Int("ways", stats.Ways),
		zap.Int("nodes", stats.Nodes),
		zap.Int("edges_written", stats.EdgesWritten),
		zap.Int("edges_skipped", stats.EdgesSkipped),
		zap.Int("degenerate_segments", stats.DegenerateSegments),
	)
	return nil
}

func writeManifest(dir string, g *graphstore.Graph, backend string) error {
	b := g.Bounds()
	return manifest.Write(dir, &manifest.Manifest{
		NodeCount: int32(g.NodeCount()),
		EdgeCount: int32(g.EdgeCount()),
		NameCount: g.Names().NameCount(),
		MinLat:    b.MinLat,
		MaxLat:    b.MaxLat,
		MinLon:    b.MinLon,
		MaxLon:    b.MaxLon,
		Backend:   backend,
	})
}
