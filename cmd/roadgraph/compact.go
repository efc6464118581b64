package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spf13/cobra"

	"github.com/azybler/roadgraph/pkg/config"
	"github.com/azybler/roadgraph/pkg/encoder"
	"github.com/azybler/roadgraph/pkg/graphstore"
	"github.com/azybler/roadgraph/pkg/logging"
	"github.com/azybler/roadgraph/pkg/store"
)

var (
	compactRemove          string
	compactLargestComponent bool
)

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Mark nodes removed, reclaim their space, and optionally drop unreachable components",
	Long: `compact rewrites --graph-dir in place.

With --remove, every listed node id is marked removed and Optimize()
compacts the node area and splices the removed nodes out of their
neighbors' adjacency chains; edge records they leave behind stay allocated
but unreachable, per the storage engine's append-mostly design.

With --largest-component, the graph is additionally rewritten to keep only
its largest weakly connected component (CopyTo), which also performs a
full compaction as a side effect.`,
	RunE: runCompact,
}

func init() {
	compactCmd.Flags().StringVar(&compactRemove, "remove", "", "comma-separated node ids to mark removed before compacting")
	compactCmd.Flags().BoolVar(&compactLargestComponent, "largest-component", false, "keep only the largest weakly connected component")
	rootCmd.AddCommand(compactCmd)
}

func runCompact(cmd *cobra.Command, args []string) error {
	log := logging.Get()
	enc := encoder.CarFlagEncoder{}
	backend := resolveBackend(cfg.Backend)

	dir := store.NewDirectory(cfg.GraphDir, backend)
	g, err := graphstore.LoadExisting(dir, enc)
	if err != nil {
		return fmt.Errorf("compact: load %s: %w", cfg.GraphDir, err)
	}

	log.Info("compacting graph",
		zap.String("graph_dir", cfg.GraphDir),
		zap.Int("nodes_before", g.NodeCount()),
		zap.Int("edges_before", g.EdgeCount()),
	)

	if compactRemove != "" {
		ids, err := parseNodeIDs(compactRemove)
		if err != nil {
			g.Close()
			return fmt.Errorf("compact: --remove: %w", err)
		}
		for _, id := range ids {
			g.MarkNodeRemoved(id)
		}
		if err := g.Optimize(); err != nil {
			g.Close()
			return fmt.Errorf("compact: optimize: %w", err)
		}
		log.Info("marked nodes removed and optimized", zap.Int("removed", len(ids)))
	}

	if compactLargestComponent {
		if err := rewriteToLargestComponent(g, enc, backend); err != nil {
			g.Close()
			return fmt.Errorf("compact: largest component: %w", err)
		}
		// rewriteToLargestComponent replaces cfg.GraphDir on disk and
		// returns with g already closed; reopen to report final counts.
		dir = store.NewDirectory(cfg.GraphDir, backend)
		g, err = graphstore.LoadExisting(dir, enc)
		if err != nil {
			return fmt.Errorf("compact: reload after largest-component rewrite: %w", err)
		}
	} else {
		if err := g.Flush(); err != nil {
			g.Close()
			return fmt.Errorf("compact: flush: %w", err)
		}
	}

	log.Info("compaction complete",
		zap.Int("nodes_after", g.NodeCount()),
		zap.Int("edges_after", g.EdgeCount()),
	)

	if err := writeManifest(cfg.GraphDir, g, string(cfg.Backend)); err != nil {
		log.Warn("manifest write failed, inspect will fall back to scanning", zap.Error(err))
	}

	if err := g.Close(); err != nil {
		return fmt.Errorf("compact: close: %w", err)
	}
	return dir.Close()
}

// rewriteToLargestComponent copies src's largest weakly connected
// component into a staging directory, then swaps it in for cfg.GraphDir.
// src is closed before this returns, regardless of outcome.
func rewriteToLargestComponent(src *graphstore.Graph, enc encoder.CarFlagEncoder, backend store.Backend) error {
	tmpDir := cfg.GraphDir + ".compact.tmp"
	if err := os.RemoveAll(tmpDir); err != nil {
		src.Close()
		return fmt.Errorf("clear staging dir: %w", err)
	}
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		src.Close()
		return fmt.Errorf("create staging dir: %w", err)
	}

	dstDir := store.NewDirectory(tmpDir, backend)
	dst, err := graphstore.CreateNew(dstDir, enc, src.NodeCount())
	if err != nil {
		src.Close()
		return fmt.Errorf("create staging graph: %w", err)
	}

	if err := src.CopyTo(dst); err != nil {
		src.Close()
		dst.Close()
		return fmt.Errorf("copy largest component: %w", err)
	}
	if err := dst.Flush(); err != nil {
		src.Close()
		dst.Close()
		return fmt.Errorf("flush staging graph: %w", err)
	}

	closeErr := src.Close()
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close staging graph: %w", err)
	}
	if err := dstDir.Close(); err != nil {
		return fmt.Errorf("close staging directory: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("close source graph: %w", closeErr)
	}

	if err := os.RemoveAll(cfg.GraphDir); err != nil {
		return fmt.Errorf("remove original graph dir: %w", err)
	}
	return os.Rename(tmpDir, cfg.GraphDir)
}

func parseNodeIDs(s string) ([]int32, error) {
	parts := strings.Split(s, ",")
	ids := make([]int32, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid node id %q: %w", p, err)
		}
		ids = append(ids, int32(n))
	}
	return ids, nil
}

func resolveBackend(b config.Backend) store.Backend {
	if b == config.BackendMMap {
		return store.MMap
	}
	return store.RAM
}
