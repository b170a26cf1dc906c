// Package config provides unified configuration for the wellcore tools.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration shared by the wellcore commands.
type Config struct {
	// DataDir is the base directory for staged files, cache and exports.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Extraction controls how curve extraction behaves.
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`

	// Storage says where raw LIS files live.
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Fetch controls batch staging of LIS files.
	Fetch FetchConfig `json:"fetch" yaml:"fetch"`

	// Cache controls the extracted curve set cache.
	Cache CacheConfig `json:"cache" yaml:"cache"`

	// Export controls where and how curve sets are written out.
	Export ExportConfig `json:"export" yaml:"export"`
}

// ExtractionConfig holds extraction options.
type ExtractionConfig struct {
	// Strict rejects DFSRs with duplicated mnemonics instead of
	// disambiguating them.
	Strict bool `json:"strict" yaml:"strict"`

	// SkipFast drops multi-sample channels instead of failing.
	SkipFast bool `json:"skip_fast" yaml:"skip_fast"`
}

// StorageConfig holds storage configuration.
type StorageConfig struct {
	// Type is the storage type: local, s3
	Type string `json:"type" yaml:"type"`

	// Path is the local storage root (for local type)
	Path string `json:"path" yaml:"path"`

	// S3 configuration (for s3 type)
	S3 S3Config `json:"s3" yaml:"s3"`
}

// S3Config holds S3 storage configuration.
type S3Config struct {
	// Bucket is the S3 bucket name
	Bucket string `json:"bucket" yaml:"bucket"`

	// Region is the AWS region
	Region string `json:"region" yaml:"region"`

	// Endpoint is the S3 endpoint (for S3-compatible storage)
	Endpoint string `json:"endpoint" yaml:"endpoint"`
}

// FetchConfig holds batch staging configuration.
type FetchConfig struct {
	// StageDir is the directory LIS files are staged into.
	StageDir string `json:"stage_dir" yaml:"stage_dir"`

	// Concurrency is the number of parallel downloads (1–64, default 4).
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// CacheConfig holds curve cache configuration.
type CacheConfig struct {
	// Enabled turns the curve set cache on.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Dir is the cache directory.
	Dir string `json:"dir" yaml:"dir"`

	// MaxBytes is the cache byte budget.
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes"`
}

// ExportConfig holds export configuration.
type ExportConfig struct {
	// OutputDir is the directory export artifacts are written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Format is the export format: sqlite, csv
	Format string `json:"format" yaml:"format"`
}

// DefaultConfig returns the default configuration for local use.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data/wellcore",
		Extraction: ExtractionConfig{
			Strict:   true,
			SkipFast: false,
		},
		Storage: StorageConfig{
			Type: "local",
		},
		Fetch: FetchConfig{
			Concurrency: 4,
		},
		Cache: CacheConfig{
			Enabled:  true,
			MaxBytes: 512 * 1024 * 1024,
		},
		Export: ExportConfig{
			Format: "sqlite",
		},
	}
}

// Resolve resolves relative paths and sets defaults based on DataDir.
func (c *Config) Resolve() {
	if c.DataDir == "" {
		c.DataDir = "./data/wellcore"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join(c.DataDir, "storage")
	}
	if c.Fetch.StageDir == "" {
		c.Fetch.StageDir = filepath.Join(c.DataDir, "stage")
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = filepath.Join(c.DataDir, "cache")
	}
	if c.Export.OutputDir == "" {
		c.Export.OutputDir = filepath.Join(c.DataDir, "exports")
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Storage.Type != "local" && c.Storage.Type != "s3" {
		return fmt.Errorf("invalid storage type: %s (must be local or s3)", c.Storage.Type)
	}
	if c.Storage.Type == "s3" && c.Storage.S3.Bucket == "" {
		return fmt.Errorf("s3.bucket is required when storage type is s3")
	}

	if c.Fetch.Concurrency < 1 || c.Fetch.Concurrency > 64 {
		return fmt.Errorf("fetch.concurrency must be between 1 and 64, got %d", c.Fetch.Concurrency)
	}

	if c.Cache.Enabled && c.Cache.MaxBytes <= 0 {
		return fmt.Errorf("cache.max_bytes must be positive when the cache is enabled, got %d", c.Cache.MaxBytes)
	}

	if c.Export.Format != "sqlite" && c.Export.Format != "csv" {
		return fmt.Errorf("invalid export format: %s (must be sqlite or csv)", c.Export.Format)
	}

	return nil
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the WELLCORE_ prefix.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("WELLCORE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	if v := os.Getenv("WELLCORE_EXTRACTION_STRICT"); v != "" {
		cfg.Extraction.Strict = v == "true" || v == "1"
	}
	if v := os.Getenv("WELLCORE_EXTRACTION_SKIP_FAST"); v != "" {
		cfg.Extraction.SkipFast = v == "true" || v == "1"
	}

	if v := os.Getenv("WELLCORE_STORAGE_TYPE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("WELLCORE_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("WELLCORE_S3_BUCKET"); v != "" {
		cfg.Storage.S3.Bucket = v
	}
	if v := os.Getenv("WELLCORE_S3_REGION"); v != "" {
		cfg.Storage.S3.Region = v
	}
	if v := os.Getenv("WELLCORE_S3_ENDPOINT"); v != "" {
		cfg.Storage.S3.Endpoint = v
	}

	if v := os.Getenv("WELLCORE_FETCH_CONCURRENCY"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Fetch.Concurrency)
	}

	if v := os.Getenv("WELLCORE_CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("WELLCORE_CACHE_MAX_BYTES"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Cache.MaxBytes)
	}

	if v := os.Getenv("WELLCORE_EXPORT_FORMAT"); v != "" {
		cfg.Export.Format = v
	}
	if v := os.Getenv("WELLCORE_EXPORT_OUTPUT_DIR"); v != "" {
		cfg.Export.OutputDir = v
	}
}

// EnsureDirectories creates all required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.DataDir,
		c.Storage.Path,
		c.Fetch.StageDir,
		c.Cache.Dir,
		c.Export.OutputDir,
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
