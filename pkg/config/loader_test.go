package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nestedConfig struct {
	Host    string        `yaml:"host"`
	Port    int           `yaml:"port"`
	Timeout time.Duration `yaml:"timeout"`
}

type testConfig struct {
	Name     string       `yaml:"name"`
	Debug    bool         `yaml:"debug"`
	Database nestedConfig `yaml:"database"`
	Skipped  string       `yaml:"-"`
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
name: firesync
debug: true
database:
  host: db.internal
  port: 5433
  timeout: 45s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	var cfg testConfig
	require.NoError(t, NewLoader("TESTAPP").Load(path, &cfg))

	assert.Equal(t, "firesync", cfg.Name)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, 45*time.Second, cfg.Database.Timeout)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg := testConfig{Name: "default"}
	require.NoError(t, NewLoader("TESTAPP").Load("", &cfg))
	assert.Equal(t, "default", cfg.Name)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	var cfg testConfig
	err := NewLoader("TESTAPP").Load("config.json", &cfg)
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  host: from-file\n"), 0644))

	t.Setenv("TESTAPP_DATABASE_HOST", "from-env")
	t.Setenv("TESTAPP_DATABASE_PORT", "9999")
	t.Setenv("TESTAPP_DATABASE_TIMEOUT", "2m")
	t.Setenv("TESTAPP_DEBUG", "true")

	var cfg testConfig
	require.NoError(t, NewLoader("TESTAPP").Load(path, &cfg))

	assert.Equal(t, "from-env", cfg.Database.Host)
	assert.Equal(t, 9999, cfg.Database.Port)
	assert.Equal(t, 2*time.Minute, cfg.Database.Timeout)
	assert.True(t, cfg.Debug)
}

func TestEnvInvalidValue(t *testing.T) {
	t.Setenv("TESTAPP_DATABASE_PORT", "not-a-number")

	var cfg testConfig
	err := NewLoader("TESTAPP").Load("", &cfg)
	assert.Error(t, err)
}

func TestWriteExampleRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.yaml")

	loader := NewLoader("TESTAPP")
	source := testConfig{
		Name:     "example",
		Database: nestedConfig{Host: "localhost", Port: 5432, Timeout: 30 * time.Second},
	}
	require.NoError(t, loader.WriteExample(path, &source))

	var loaded testConfig
	require.NoError(t, loader.Load(path, &loaded))
	assert.Equal(t, source, loaded)
}
