package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/negative-keywords/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string        `env:"TEST_CFG_NAME"    yaml:"name"`
	Port    int           `env:"TEST_CFG_PORT"    yaml:"port"`
	Ratio   float64       `env:"TEST_CFG_RATIO"   yaml:"ratio"`
	Enabled bool          `env:"TEST_CFG_ENABLED" yaml:"enabled"`
	Timeout time.Duration `env:"TEST_CFG_TIMEOUT" yaml:"timeout"`
	Nested  struct {
		Tags []string `env:"TEST_CFG_TAGS" yaml:"tags"`
	} `yaml:"nested"`
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_ReadsYAML(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	path := writeConfig(t, "name: scorer\nport: 8060\nratio: 0.5\nnested:\n  tags: [a, b]\n")

	cfg, err := config.Load[testConfig](path)
	require.NoError(t, err)
	assert.Equal(t, "scorer", cfg.Name)
	assert.Equal(t, 8060, cfg.Port)
	assert.InDelta(t, 0.5, cfg.Ratio, 1e-9)
	assert.Equal(t, []string{"a", "b"}, cfg.Nested.Tags)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("TEST_CFG_PORT", "9000")
	t.Setenv("TEST_CFG_RATIO", "0.75")
	t.Setenv("TEST_CFG_ENABLED", "yes")
	t.Setenv("TEST_CFG_TIMEOUT", "5s")
	t.Setenv("TEST_CFG_TAGS", "x, y ,z")
	path := writeConfig(t, "port: 8060\n")

	cfg, err := config.Load[testConfig](path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.InDelta(t, 0.75, cfg.Ratio, 1e-9)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"x", "y", "z"}, cfg.Nested.Tags)
}

func TestLoad_MissingFileUsesZeroValue(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := config.Load[testConfig](filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Name)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	path := writeConfig(t, "name: [unclosed\n")

	_, err := config.Load[testConfig](path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadWithDefaults_EnvBeatsDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("TEST_CFG_NAME", "from-env")
	path := writeConfig(t, "")

	cfg, err := config.LoadWithDefaults(path, func(c *testConfig) {
		c.Name = "default"
		c.Port = 8060
	})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, 8060, cfg.Port)
}

func TestValidateRange(t *testing.T) {
	t.Parallel()

	require.NoError(t, config.ValidateRange("threshold", 80, 50, 100))

	err := config.ValidateRange("threshold", 101, 50, 100)
	var vErr *config.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "threshold", vErr.Field)
}
