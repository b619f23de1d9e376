package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string        `yaml:"name" env:"APP_NAME"`
	Port    int           `yaml:"port" env:"APP_PORT"`
	Debug   bool          `yaml:"debug" env:"APP_DEBUG"`
	Timeout time.Duration `yaml:"timeout" env:"APP_TIMEOUT"`
	Scopes  []string      `yaml:"scopes" env:"APP_SCOPES"`
	Partner struct {
		APIKey string `yaml:"api_key" env:"APP_PARTNER_KEY"`
	} `yaml:"partner"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
name: test-app
port: 8080
debug: false
timeout: 45s
scopes: [read:data, write:data]
partner:
  api_key: k1
`)

	var cfg testConfig
	require.NoError(t, Load(path, &cfg))

	assert.Equal(t, "test-app", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"read:data", "write:data"}, cfg.Scopes)
	assert.Equal(t, "k1", cfg.Partner.APIKey)
}

func TestLoad_ExpandsVariables(t *testing.T) {
	t.Setenv("SECRET_FROM_SHELL", "s3cret")
	path := writeConfig(t, "partner:\n  api_key: ${SECRET_FROM_SHELL}\n")

	var cfg testConfig
	require.NoError(t, Load(path, &cfg))
	assert.Equal(t, "s3cret", cfg.Partner.APIKey)
}

func TestEnvOverride(t *testing.T) {
	path := writeConfig(t, "name: default\nport: 3000\n")

	t.Setenv("APP_NAME", "from-env")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_DEBUG", "true")
	t.Setenv("APP_TIMEOUT", "2m")
	t.Setenv("APP_SCOPES", "a, b,,c")
	t.Setenv("APP_PARTNER_KEY", "nested")

	var cfg testConfig
	require.NoError(t, Load(path, &cfg))

	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Scopes)
	assert.Equal(t, "nested", cfg.Partner.APIKey)
}

func TestEnvOverride_InvalidValue(t *testing.T) {
	t.Setenv("APP_PORT", "eighty")

	var cfg testConfig
	err := ApplyEnv(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_PORT")
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg := testConfig{Name: "preset"}
	require.NoError(t, LoadOrDefault("/nonexistent/config.yaml", &cfg))
	assert.Equal(t, "preset", cfg.Name)
}

func TestLoadOrDefault_MissingFileStillReadsEnv(t *testing.T) {
	t.Setenv("APP_PARTNER_KEY", "env-only")

	var cfg testConfig
	require.NoError(t, LoadOrDefault("", &cfg))
	assert.Equal(t, "env-only", cfg.Partner.APIKey)
}
