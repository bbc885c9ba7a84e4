// Package config holds the tunables of the wavefront medium passes.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid render config")

// Config controls queue sizing, path depth and roulette
type Config struct {
	// MaxDepth is the maximum number of scattering events on a path
	MaxDepth int `yaml:"max_depth"`

	// RussianRouletteMinDepth is the depth after which roulette may terminate paths
	RussianRouletteMinDepth int `yaml:"russian_roulette_min_depth"`

	// MaxQueueSize is the capacity of every work queue. It must cover the
	// worst-case fan-out of a single pass.
	MaxQueueSize int `yaml:"max_queue_size"`

	// NumWorkers is the number of drain goroutines (0 = runtime.NumCPU)
	NumWorkers int `yaml:"num_workers"`

	// ChunkSize is the number of queue items each drain task handles
	ChunkSize int `yaml:"chunk_size"`

	// Seed decorrelates ray samples between renders
	Seed uint64 `yaml:"seed"`

	// HaveEscapedRays enables the escaped-ray queue. It is forced on when the
	// scene has infinite lights.
	HaveEscapedRays bool `yaml:"have_escaped_rays"`

	// Debug turns on per-pass debug logging
	Debug bool `yaml:"debug"`
}

// Default returns sensible default values
func Default() Config {
	return Config{
		MaxDepth:                5,
		RussianRouletteMinDepth: 1,
		MaxQueueSize:            1 << 16,
		NumWorkers:              0,
		ChunkSize:               64,
	}
}

// Validate reports the first invalid field
func (c Config) Validate() error {
	switch {
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max_depth must be >= 0, got %d", ErrInvalidConfig, c.MaxDepth)
	case c.RussianRouletteMinDepth < 0:
		return fmt.Errorf("%w: russian_roulette_min_depth must be >= 0, got %d", ErrInvalidConfig, c.RussianRouletteMinDepth)
	case c.MaxQueueSize <= 0:
		return fmt.Errorf("%w: max_queue_size must be > 0, got %d", ErrInvalidConfig, c.MaxQueueSize)
	case c.NumWorkers < 0:
		return fmt.Errorf("%w: num_workers must be >= 0, got %d", ErrInvalidConfig, c.NumWorkers)
	case c.ChunkSize <= 0:
		return fmt.Errorf("%w: chunk_size must be > 0, got %d", ErrInvalidConfig, c.ChunkSize)
	}
	return nil
}

// Parse decodes YAML over the defaults; fields absent from data keep their default
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing render config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses a YAML config file
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading render config %s: %w", path, err)
	}
	return Parse(data)
}
