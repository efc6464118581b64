package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/spf13/cobra"

	"github.com/azybler/roadgraph/pkg/config"
	"github.com/azybler/roadgraph/pkg/logging"
)

var (
	cfg        = config.DefaultConfig()
	verbose    bool
	logFile    string
	bboxStr    string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "roadgraph",
	Short: "Car-routing graph storage engine",
	Long: `roadgraph builds and serves a compact, persistable road graph.

Subcommands:
  ingest   parse an OSM PBF extract into a graph directory
  compact  drop unreachable components and reclaim removed-node space
  serve    answer shortest-path queries over a graph directory
  inspect  print summary counts and bounds for a graph directory`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logFile != "" {
			logging.InitWithFile(verbose, logFile)
		} else {
			logging.Init(verbose)
		}
		if configPath != "" {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				exitWithError("failed to load config", err)
			}
			cfg = loaded
		}
		cfg.Verbose = verbose
		if bboxStr != "" {
			bbox, err := config.ParseBBox(bboxStr)
			if err != nil {
				exitWithError("invalid bbox", err)
			}
			cfg.BBox = bbox
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "path to rotating JSON log file")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVarP(&cfg.GraphDir, "graph-dir", "g", cfg.GraphDir, "directory holding the graph's store files")
	rootCmd.PersistentFlags().StringVar((*string)(&cfg.Backend), "backend", string(cfg.Backend), "storage backend: ram or mmap")
	rootCmd.PersistentFlags().StringVar(&bboxStr, "bbox", "", "bounding box filter: minlon,minlat,maxlon,maxlat")
}

func exitWithError(msg string, err error) {
	log := logging.Get()
	if err != nil {
		log.Error(msg, zap.Error(err))
	} else {
		log.Error(msg)
	}
	os.Exit(1)
}

func main() {
	if err := Execute(); err != nil {
		exitWithError("command failed", err)
	}
}
