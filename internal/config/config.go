// Package config loads and validates docdex configuration.
//
// Precedence, lowest to highest:
//  1. Built-in defaults
//  2. Config file (docdex.yaml in the working directory, or --config)
//  3. Environment variables (DOCDEX_*, GITHUB_MODELS_TOKEN)
//
// A .env file in the working directory is loaded into the environment
// first, so provider credentials can live outside the config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "github.com/docdex/docdex/internal/errors"
)

// DefaultConfigFile is the config file looked up in the working directory.
const DefaultConfigFile = "docdex.yaml"

// Provider timeout bounds. The embedding call must fail within a
// bounded window; values outside this range are clamped.
const (
	MinProviderTimeout = 15 * time.Second
	MaxProviderTimeout = 60 * time.Second
)

// Config is the complete docdex configuration.
type Config struct {
	// DataDir is the root for uploads, the metadata database, and
	// per-project index directories. Defaults to ~/.docdex.
	DataDir string `yaml:"data_dir"`

	Provider ProviderConfig `yaml:"provider"`
	Chunking ChunkingConfig `yaml:"chunking"`
	Search   SearchConfig   `yaml:"search"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// ProviderConfig configures the embedding provider.
type ProviderConfig struct {
	// Endpoint is the GitHub Models inference base URL.
	Endpoint string `yaml:"endpoint"`
	// Token is the bearer credential. Usually supplied via the
	// GITHUB_MODELS_TOKEN environment variable, not the file.
	Token string `yaml:"token"`
	// Model is the embedding model identifier.
	Model string `yaml:"model"`
	// APIVersion is sent as the X-GitHub-Api-Version header.
	APIVersion string `yaml:"api_version"`
	// Timeout bounds each embedding call (e.g. "30s").
	Timeout string `yaml:"timeout"`
	// CacheSize is the number of query embeddings kept in the LRU cache.
	CacheSize int `yaml:"cache_size"`
}

// ChunkingConfig configures the text chunker.
type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// SearchConfig configures search behavior.
type SearchConfig struct {
	// TopK is the default number of results when the caller does not ask.
	TopK int `yaml:"top_k"`
	// SnippetLength is the byte length of result text snippets.
	SnippetLength int `yaml:"snippet_length"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir: defaultDataDir(),
		Provider: ProviderConfig{
			Endpoint:   "https://models.github.ai/inference",
			Model:      "openai/text-embedding-3-small",
			APIVersion: "2022-11-28",
			Timeout:    "30s",
			CacheSize:  1000,
		},
		Chunking: ChunkingConfig{
			Size:    1000,
			Overlap: 150,
		},
		Search: SearchConfig{
			TopK:          5,
			SnippetLength: 240,
		},
		LogLevel: "info",
	}
}

// Load reads configuration: defaults, then the YAML file at path (or
// DefaultConfigFile if path is empty and it exists), then environment
// overrides. A missing default config file is not an error.
func Load(path string) (Config, error) {
	// Best-effort: credentials frequently live in .env during development.
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, apperrors.New(apperrors.ErrCodeConfigInvalid,
				fmt.Sprintf("parse %s: %v", path, err), err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; defaults plus env apply.
	default:
		return Config{}, apperrors.New(apperrors.ErrCodeConfigInvalid,
			fmt.Sprintf("read %s: %v", path, err), err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv("DOCDEX_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("GITHUB_MODELS_TOKEN"); v != "" {
		cfg.Provider.Token = v
	}
	if v := os.Getenv("GITHUB_MODELS_ENDPOINT"); v != "" {
		cfg.Provider.Endpoint = v
	}
	if v := os.Getenv("DOCDEX_EMBED_MODEL"); v != "" {
		cfg.Provider.Model = v
	}
	if v := os.Getenv("DOCDEX_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Validate checks the configuration for internally inconsistent values.
// Provider credentials are deliberately not validated here: they are
// only required by embed-dependent operations.
func (c *Config) Validate() error {
	if c.Chunking.Size < 1 {
		return apperrors.New(apperrors.ErrCodeConfigInvalid,
			fmt.Sprintf("chunking.size must be >= 1, got %d", c.Chunking.Size), nil)
	}
	if c.Chunking.Overlap < 0 {
		return apperrors.New(apperrors.ErrCodeConfigInvalid,
			fmt.Sprintf("chunking.overlap must be >= 0, got %d", c.Chunking.Overlap), nil)
	}
	if c.Search.SnippetLength < 1 {
		return apperrors.New(apperrors.ErrCodeConfigInvalid,
			fmt.Sprintf("search.snippet_length must be >= 1, got %d", c.Search.SnippetLength), nil)
	}
	if _, err := time.ParseDuration(c.Provider.Timeout); err != nil {
		return apperrors.New(apperrors.ErrCodeConfigInvalid,
			fmt.Sprintf("provider.timeout %q is not a duration", c.Provider.Timeout), err)
	}
	return nil
}

// ProviderTimeout returns the parsed provider timeout, clamped to
// [MinProviderTimeout, MaxProviderTimeout].
func (c *Config) ProviderTimeout() time.Duration {
	d, err := time.ParseDuration(c.Provider.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	if d < MinProviderTimeout {
		return MinProviderTimeout
	}
	if d > MaxProviderTimeout {
		return MaxProviderTimeout
	}
	return d
}

// MetadataPath returns the path of the SQLite metadata database.
func (c *Config) MetadataPath() string {
	return filepath.Join(c.DataDir, "docdex.db")
}

// IndexRoot returns the root directory of per-project index artifacts.
func (c *Config) IndexRoot() string {
	return filepath.Join(c.DataDir, "indexes")
}

// UploadRoot returns the root directory of per-project stored uploads.
func (c *Config) UploadRoot() string {
	return filepath.Join(c.DataDir, "uploads")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docdex"
	}
	return filepath.Join(home, ".docdex")
}
