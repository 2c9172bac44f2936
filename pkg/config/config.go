// Package config loads Detector configuration from TOML/YAML/JSON files
// via koanf, falling back to sensible defaults when no file is present.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds every tunable of the detection pipeline.
type Config struct {
	SimilarityThreshold float64  `koanf:"similarity_threshold" toml:"similarity_threshold"`
	KGramSize           int      `koanf:"kgram_size" toml:"kgram_size"`
	MinClusterSize      int      `koanf:"min_cluster_size" toml:"min_cluster_size"`
	MaxRepresentatives  int      `koanf:"max_representatives" toml:"max_representatives"`
	BPTreeOrder         int      `koanf:"bptree_order" toml:"bptree_order"`
	ExcludePatterns     []string `koanf:"exclude_patterns" toml:"exclude_patterns"`
}

// DefaultConfig returns the spec-mandated defaults: a 0.70 similarity
// threshold, 5-token k-grams, clusters of at least 2 submissions, at
// most 2 representatives per cluster, and a B+ tree of order 4.
func DefaultConfig() *Config {
	return &Config{
		SimilarityThreshold: 0.70,
		KGramSize:           5,
		MinClusterSize:      2,
		MaxRepresentatives:  2,
		BPTreeOrder:         4,
		ExcludePatterns: []string{
			"vendor/",
			"node_modules/",
			".git/",
			"*.min.js",
			"*_test.go",
			"*_test.py",
		},
	}
}

// Load reads a config file, choosing a koanf parser from its extension
// (defaulting to TOML for anything unrecognised), and unmarshals it onto
// a copy of DefaultConfig.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches the current directory for a recognised
// platok config file, returning its path or "" if none is found.
func FindConfigFile() string {
	for _, name := range []string{"platok.toml", "platok.yaml", "platok.yml", "platok.json"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// LoadOrDefault loads config from the current directory, or returns
// clamped defaults if no config file is present. A present-but-invalid
// file's errors are returned to the caller: malformed configuration
// input is treated as an operator error, not a best-effort case.
func LoadOrDefault() (*Config, error) {
	path := FindConfigFile()
	if path == "" {
		cfg := DefaultConfig()
		cfg.Clamp()
		return cfg, nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	cfg.Clamp()
	return cfg, nil
}

// Clamp silently brings out-of-range values back into their valid
// domain rather than rejecting the config outright.
func (c *Config) Clamp() {
	if c.SimilarityThreshold < 0 {
		c.SimilarityThreshold = 0
	}
	if c.SimilarityThreshold > 1 {
		c.SimilarityThreshold = 1
	}
	if c.KGramSize < 1 {
		c.KGramSize = 1
	}
	if c.MinClusterSize < 1 {
		c.MinClusterSize = 1
	}
	if c.MaxRepresentatives < 1 {
		c.MaxRepresentatives = 1
	}
	if c.BPTreeOrder < 3 {
		c.BPTreeOrder = 3
	}
}

// Validate reports every way c falls outside its valid domain, joined
// into a single error. Unlike Clamp, Validate never mutates c; it only
// reports the out-of-range values.
func (c *Config) Validate() error {
	var errs []error

	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		errs = append(errs, errors.New("similarity_threshold must be between 0 and 1"))
	}
	if c.KGramSize < 1 {
		errs = append(errs, errors.New("kgram_size must be at least 1"))
	}
	if c.MinClusterSize < 1 {
		errs = append(errs, errors.New("min_cluster_size must be at least 1"))
	}
	if c.MaxRepresentatives < 1 {
		errs = append(errs, errors.New("max_representatives must be at least 1"))
	}
	if c.BPTreeOrder < 3 {
		errs = append(errs, errors.New("bptree_order must be at least 3"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
