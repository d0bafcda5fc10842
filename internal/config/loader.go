package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the daemon.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr         string   `json:"addr" yaml:"addr" toml:"addr"`
	StoreDir     string   `json:"store_dir" yaml:"store_dir" toml:"store_dir"`
	DefaultModel string   `json:"default_model" yaml:"default_model" toml:"default_model"`
	CPU          float64  `json:"cpu" yaml:"cpu" toml:"cpu"`
	GPUs         []string `json:"gpus" yaml:"gpus" toml:"gpus"`
	MaxBatchSize int      `json:"max_batch_size" yaml:"max_batch_size" toml:"max_batch_size"`
	MaxLatencyMS int      `json:"max_latency_ms" yaml:"max_latency_ms" toml:"max_latency_ms"`
	LogLevel     string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	// CORSOrigins enables the CORS middleware for the listed origins.
	// Empty means no CORS headers are emitted.
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
