// Package config loads the analyzer configuration file.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"cdk-cost/core/threshold"
	"cdk-cost/core/types"
	"cdk-cost/internal/errors"
	"cdk-cost/internal/logging"
)

const (
	// configBaseName is the config file name without extension
	configBaseName = ".cdk-cost-analyzer"

	// DefaultRegion prices resources when no region is configured
	DefaultRegion = "eu-central-1"

	// DefaultFormat renders reports when no format is configured
	DefaultFormat = "text"

	// DefaultCacheTTLHours bounds price cache entries
	DefaultCacheTTLHours = 24
)

// configExtensions lists the recognized file extensions, in probe order
var configExtensions = []string{"yml", "yaml", "json"}

// Config is the analyzer configuration
type Config struct {
	// Region is the AWS region code resources are priced in
	Region string `mapstructure:"region"`

	// Format selects the report renderer: text, json, or markdown
	Format string `mapstructure:"format"`

	// Thresholds configures spending limits
	Thresholds threshold.Config `mapstructure:"thresholds"`

	// UsageAssumptions overrides per-service usage defaults
	UsageAssumptions types.UsageAssumptions `mapstructure:"usageAssumptions"`

	// ExcludedResourceTypes are reported as zero cost
	ExcludedResourceTypes []string `mapstructure:"excludedResourceTypes"`

	// Cache configures the price cache
	Cache CacheConfig `mapstructure:"cacheConfig"`
}

// CacheConfig configures the two-tier price cache
type CacheConfig struct {
	// Enabled toggles the disk tier
	Enabled bool `mapstructure:"enabled"`

	// Directory holds the cache metadata file
	Directory string `mapstructure:"directory"`

	// TTLHours bounds entry freshness
	TTLHours int `mapstructure:"ttlHours"`
}

// knownKeys are the recognized top-level configuration keys
var knownKeys = map[string]bool{
	"region":                true,
	"format":                true,
	"thresholds":            true,
	"usageassumptions":      true,
	"excludedresourcetypes": true,
	"cacheconfig":           true,
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Region: DefaultRegion,
		Format: DefaultFormat,
		Cache: CacheConfig{
			Enabled:   true,
			Directory: defaultCacheDir(),
			TTLHours:  DefaultCacheTTLHours,
		},
	}
}

// defaultCacheDir resolves ~/.cdk-cost-analyzer/cache, falling back to
// a relative directory when the home directory is unknown.
func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cdk-cost-analyzer/cache"
	}
	return filepath.Join(home, ".cdk-cost-analyzer", "cache")
}

// Discover walks from startDir upward looking for the first
// .cdk-cost-analyzer.{yml,yaml,json}. Empty string means none found.
func Discover(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}
	for {
		for _, ext := range configExtensions {
			candidate := filepath.Join(dir, configBaseName+"."+ext)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load reads a configuration file. An empty path triggers discovery
// from the current directory; no file at all yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(errors.TypeConfig, "resolving working directory", err)
		}
		path = Discover(cwd)
	}
	if path == "" {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(errors.TypeConfig, err, "reading config file %s", path)
	}

	warnUnknownKeys(path, v.AllKeys())

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrapf(errors.TypeConfig, err, "decoding config file %s", path)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// warnUnknownKeys logs unrecognized top-level keys without failing.
func warnUnknownKeys(path string, keys []string) {
	seen := map[string]bool{}
	for _, key := range keys {
		top := strings.ToLower(strings.SplitN(key, ".", 2)[0])
		if !knownKeys[top] && !seen[top] {
			seen[top] = true
		}
	}
	unknown := make([]string, 0, len(seen))
	for key := range seen {
		unknown = append(unknown, key)
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		logging.Warn("ignoring unknown configuration key",
			zap.String("key", key),
			zap.String("file", path))
	}
}

// validate rejects values that would only fail later in the pipeline.
func (c *Config) validate() error {
	switch c.Format {
	case "text", "json", "markdown":
	default:
		return errors.Newf(errors.TypeConfig, "unknown format %q (expected text, json, or markdown)", c.Format)
	}
	if c.Cache.TTLHours <= 0 {
		return errors.Newf(errors.TypeConfig, "cacheConfig.ttlHours must be positive, got %d", c.Cache.TTLHours)
	}
	return nil
}
