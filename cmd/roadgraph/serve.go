package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spf13/cobra"

	"github.com/azybler/roadgraph/pkg/api"
	"github.com/azybler/roadgraph/pkg/encoder"
	"github.com/azybler/roadgraph/pkg/graphstore"
	"github.com/azybler/roadgraph/pkg/logging"
	"github.com/azybler/roadgraph/pkg/manifest"
	"github.com/azybler/roadgraph/pkg/routing"
	"github.com/azybler/roadgraph/pkg/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer shortest-path queries over a graph directory",
	Long: `serve loads --graph-dir into memory (or maps it, for the mmap
backend) and exposes it over HTTP: POST /api/v1/route, GET /api/v1/health,
GET /api/v1/stats.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&cfg.Port, "port", "p", cfg.Port, "HTTP listen port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Get()
	enc := encoder.CarFlagEncoder{}
	addr := fmt.Sprintf(":%d", cfg.Port)

	dir := store.NewDirectory(cfg.GraphDir, resolveBackend(cfg.Backend))
	g, err := graphstore.LoadExisting(dir, enc)
	if err != nil {
		return fmt.Errorf("serve: load %s: %w", cfg.GraphDir, err)
	}

	log.Info("graph loaded",
		zap.String("graph_dir", cfg.GraphDir),
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()),
	)

	engine := routing.NewEngine(g, enc)

	b := g.Bounds()
	stats := api.StatsResponse{
		NodeCount: g.NodeCount(),
		EdgeCount: g.EdgeCount(),
		NameCount: g.Names().NameCount(),
		MinLat:    b.MinLat,
		MaxLat:    b.MaxLat,
		MinLon:    b.MinLon,
		MaxLon:    b.MaxLon,
	}

	handlers := api.NewHandlers(engine, stats)
	srv := api.NewServer(api.DefaultConfig(addr), handlers)

	if err := manifest.Write(cfg.GraphDir, &manifest.Manifest{
		NodeCount: int32(stats.NodeCount),
		EdgeCount: int32(stats.EdgeCount),
		NameCount: stats.NameCount,
		MinLat:    stats.MinLat,
		MaxLat:    stats.MaxLat,
		MinLon:    stats.MinLon,
		MaxLon:    stats.MaxLon,
		Backend:   string(cfg.Backend),
	}); err != nil {
		log.Warn("manifest refresh failed", zap.Error(err))
	}

	return api.ListenAndServe(srv)
}
