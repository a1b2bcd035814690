// Package config persists tool settings between sessions as a JSON file.
// Loading merges the file over built-in defaults, so settings added in newer
// versions pick up their default when absent from an older file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FilterDefaults holds the stored default parameters per filter type,
// keyed by registry name then parameter name.
type FilterDefaults map[string]map[string]float64

// IO holds file-handling settings.
type IO struct {
	RecentFiles []string `json:"recent_files"`
	MaxRecent   int      `json:"max_recent"`
	PatternFile string   `json:"pattern_file"`
}

// Config is the persisted tool configuration.
type Config struct {
	Filters FilterDefaults `json:"filters"`
	IO      IO             `json:"io"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Filters: FilterDefaults{
			"adaptive": {
				"window_size":           1000,
				"overlap":               0.5,
				"learning_rate":         0.1,
				"correlation_threshold": 0.7,
				"max_patterns":          50,
			},
			"savgol": {
				"window_length": 51,
				"poly_order":    3,
			},
			"fft": {
				"threshold": 0.1,
			},
			"butterworth": {
				"cutoff":      0.1,
				"order":       5,
				"sample_rate": 1000,
			},
			"median": {
				"kernel_size": 5,
			},
			"kalman": {
				"process_variance":     1e-5,
				"measurement_variance": 1e-2,
			},
		},
		IO: IO{
			MaxRecent:   10,
			PatternFile: "patterns.json",
		},
	}
}

// Load reads the configuration at path, merged over the defaults. A missing
// file yields the defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("config: %w", err)
	}

	// Filter maps merge per filter: parameters missing from the file keep
	// their default.
	merged := Default().Filters
	for name, params := range cfg.Filters {
		if _, ok := merged[name]; !ok {
			merged[name] = make(map[string]float64)
		}
		for key, value := range params {
			merged[name][key] = value
		}
	}
	cfg.Filters = merged

	if cfg.IO.MaxRecent < 1 {
		cfg.IO.MaxRecent = Default().IO.MaxRecent
	}
	if cfg.IO.PatternFile == "" {
		cfg.IO.PatternFile = Default().IO.PatternFile
	}

	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func Save(path string, cfg Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// AddRecentFile records path as the most recently used file, deduplicating
// and keeping at most MaxRecent entries.
func (c *Config) AddRecentFile(path string) {
	maxRecent := c.IO.MaxRecent
	if maxRecent < 1 {
		maxRecent = Default().IO.MaxRecent
	}

	recent := make([]string, 0, maxRecent)
	recent = append(recent, path)
	for _, p := range c.IO.RecentFiles {
		if p == path {
			continue
		}
		recent = append(recent, p)
		if len(recent) == maxRecent {
			break
		}
	}

	c.IO.RecentFiles = recent
}

// FilterParams returns the stored parameters for the named filter, or an
// empty map.
func (c *Config) FilterParams(name string) map[string]float64 {
	if params, ok := c.Filters[name]; ok {
		return params
	}
	return map[string]float64{}
}
