// Package config holds the roadgraph CLI's configuration: server/ingest
// settings plus an optional geographic bounding-box filter, loadable from
// YAML or built with sensible defaults.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// BBox is a geographic bounding-box filter applied during ingestion.
type BBox struct {
	MinLon, MinLat, MaxLon, MaxLat float64
	IsSet                          bool
}

// Contains reports whether (lat, lon) falls inside the box. An unset box
// contains every point.
func (b *BBox) Contains(lat, lon float64) bool {
	if !b.IsSet {
		return true
	}
	return lon >= b.MinLon && lon <= b.MaxLon && lat >= b.MinLat && lat <= b.MaxLat
}

// ParseBBox parses "minlon,minlat,maxlon,maxlat". An empty string yields an
// unset box.
func ParseBBox(s string) (*BBox, error) {
	if s == "" {
		return &BBox{IsSet: false}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bbox must have 4 values: minlon,minlat,maxlon,maxlat")
	}

	var coords [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bbox coordinate %q: %w", p, err)
		}
		coords[i] = v
	}

	bbox := &BBox{
		MinLon: coords[0],
		MinLat: coords[1],
		MaxLon: coords[2],
		MaxLat: coords[3],
		IsSet:  true,
	}
	if bbox.MinLon > bbox.MaxLon {
		return nil, fmt.Errorf("minlon (%f) must be <= maxlon (%f)", bbox.MinLon, bbox.MaxLon)
	}
	if bbox.MinLat > bbox.MaxLat {
		return nil, fmt.Errorf("minlat (%f) must be <= maxlat (%f)", bbox.MinLat, bbox.MaxLat)
	}
	return bbox, nil
}

// Backend names the store.Backend a Config selects, kept as a string here
// so it round-trips through YAML without needing a custom marshaler.
type Backend string

const (
	BackendRAM  Backend = "ram"
	BackendMMap Backend = "mmap"
)

// Config holds the settings shared by the ingest/serve/compact/inspect
// subcommands.
type Config struct {
	InputFile string `yaml:"input_file"`
	GraphDir  string `yaml:"graph_dir"`
	BBox      *BBox  `yaml:"-"`
	BBoxStr   string `yaml:"bbox,omitempty"`

	Backend Backend `yaml:"backend"`

	Port            int    `yaml:"port"`
	InitialNodeCap  int    `yaml:"initial_node_capacity"`
	Verbose         bool   `yaml:"verbose"`
	LogFile         string `yaml:"log_file,omitempty"`
	Workers         int    `yaml:"workers"`
	MaxConcurrentReq int   `yaml:"max_concurrent_requests"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		GraphDir:         "./graph",
		Backend:          BackendRAM,
		Port:             8080,
		InitialNodeCap:   1 << 16,
		Workers:          runtime.NumCPU(),
		MaxConcurrentReq: 64,
	}
}

// LoadConfig reads and parses a YAML config file, then resolves BBoxStr
// into BBox.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	bbox, err := ParseBBox(cfg.BBoxStr)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.BBox = bbox
	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.GraphDir == "" {
		return fmt.Errorf("graph directory is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Backend != BackendRAM && c.Backend != BackendMMap {
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}
