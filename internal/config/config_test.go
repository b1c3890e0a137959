package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cdk-cost/internal/errors"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "eu-central-1", cfg.Region)
	assert.Equal(t, "text", cfg.Format)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 24, cfg.Cache.TTLHours)
	assert.NotEmpty(t, cfg.Cache.Directory)
}

func TestLoadYAMLConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".cdk-cost-analyzer.yml", `
region: us-east-1
format: markdown
thresholds:
  warning: 50
  error: 200
  perEnvironment:
    production:
      error: 1000
usageAssumptions:
  lambda:
    invocationsPerMonth: 5000000
excludedResourceTypes:
  - AWS::CloudFront::Distribution
cacheConfig:
  enabled: false
  ttlHours: 48
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "markdown", cfg.Format)
	require.NotNil(t, cfg.Thresholds.Warning)
	assert.Equal(t, 50.0, *cfg.Thresholds.Warning)
	require.NotNil(t, cfg.Thresholds.Error)
	assert.Equal(t, 200.0, *cfg.Thresholds.Error)
	require.Contains(t, cfg.Thresholds.PerEnvironment, "production")
	assert.Equal(t, 1000.0, *cfg.Thresholds.PerEnvironment["production"].Error)
	assert.Equal(t, 5_000_000.0, cfg.UsageAssumptions.Lambda.InvocationsPerMonth)
	assert.Equal(t, []string{"AWS::CloudFront::Distribution"}, cfg.ExcludedResourceTypes)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 48, cfg.Cache.TTLHours)
}

func TestLoadJSONConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".cdk-cost-analyzer.json",
		`{"region": "eu-west-1", "format": "json"}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "json", cfg.Format)
	// Unset sections keep their defaults
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoadUnknownKeysAreIgnored(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".cdk-cost-analyzer.yml", `
region: us-east-1
totallyUnknownOption: 42
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", cfg.Region)
}

func TestLoadInvalidFormatRejected(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, ".cdk-cost-analyzer.yml", "format: xml\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), ".cdk-cost-analyzer.yml"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestDiscoverWalksUpward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	want := writeConfig(t, root, ".cdk-cost-analyzer.yaml", "region: us-east-1\n")

	assert.Equal(t, want, Discover(nested))
}

func TestDiscoverPrefersYmlOverJSON(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".cdk-cost-analyzer.json", `{}`)
	want := writeConfig(t, dir, ".cdk-cost-analyzer.yml", "region: us-east-1\n")

	assert.Equal(t, want, Discover(dir))
}

func TestDiscoverNothingFound(t *testing.T) {
	assert.Equal(t, "", Discover(t.TempDir()))
}
