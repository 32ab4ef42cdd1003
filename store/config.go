package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/viant/sqlite-vec0/schema"
)

// DefaultChunkSize is the number of rows per chunk when neither the module
// configuration nor the table sets one.
const DefaultChunkSize = 1024

// Config controls storage layout and partition scanning for a table.
type Config struct {
	ChunkSize int `yaml:"chunkSize"`
	// PartitionScan is schema.PartitionScanAll or schema.PartitionScanStrict.
	PartitionScan string `yaml:"partitionScan"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{ChunkSize: DefaultChunkSize, PartitionScan: schema.PartitionScanAll}
}

// LoadConfig reads a YAML configuration file. Unset fields keep their
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("store: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("store: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks option ranges.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 || c.ChunkSize > schema.MaxChunkSize {
		return fmt.Errorf("store: chunkSize must be in 1..%d, got %d", schema.MaxChunkSize, c.ChunkSize)
	}
	switch c.PartitionScan {
	case schema.PartitionScanAll, schema.PartitionScanStrict:
	default:
		return fmt.Errorf("store: partitionScan must be %q or %q, got %q", schema.PartitionScanAll, schema.PartitionScanStrict, c.PartitionScan)
	}
	return nil
}

// WithOptions returns c overridden by the options a table declared.
func (c Config) WithOptions(opts schema.Options) Config {
	if opts.ChunkSize > 0 {
		c.ChunkSize = opts.ChunkSize
	}
	if opts.PartitionScan != "" {
		c.PartitionScan = opts.PartitionScan
	}
	return c
}
