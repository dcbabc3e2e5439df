package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	validConfig := `version: "1.0"
writer: "alice"
reconcile:
  auto_repair: true
`
	err := os.WriteFile(configPath, []byte(validConfig), 0644)
	require.NoError(t, err)

	config, err := Load(configPath)
	require.NoError(t, err)
	assert.NotNil(t, config)
	assert.Equal(t, "1.0", config.Version)
	assert.Equal(t, "alice", config.Writer)
	require.NotNil(t, config.Reconcile)
	require.NotNil(t, config.Reconcile.AutoRepair)
	assert.True(t, *config.Reconcile.AutoRepair)
}

func TestLoad_FileNotFound(t *testing.T) {
	config, err := Load("/nonexistent/warren.yml")
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	invalidYAML := `version: "1.0"
reconcile:
  - this is invalid
    yaml syntax
`
	err := os.WriteFile(configPath, []byte(invalidYAML), 0644)
	require.NoError(t, err)

	config, err := Load(configPath)
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoad_UnsupportedVersion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	err := os.WriteFile(configPath, []byte("version: \"2.0\"\n"), 0644)
	require.NoError(t, err)

	config, err := Load(configPath)
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "unsupported version")
}

func TestLoad_AppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	err := os.WriteFile(configPath, []byte("version: \"1.0\"\n"), 0644)
	require.NoError(t, err)

	config, err := Load(configPath)
	require.NoError(t, err)
	assert.NotEmpty(t, config.Writer)
	require.NotNil(t, config.Reconcile)
	require.NotNil(t, config.Reconcile.AutoRepair)
	assert.False(t, *config.Reconcile.AutoRepair)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	original := Default()
	original.Writer = "bob"
	require.NoError(t, original.Save(configPath))

	loaded, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, original.Version, loaded.Version)
	assert.Equal(t, "bob", loaded.Writer)
	assert.Equal(t, *original.Reconcile.AutoRepair, *loaded.Reconcile.AutoRepair)
}

func TestDefaultWriter_Environment(t *testing.T) {
	t.Setenv("WARREN_WRITER", "ci-bot")
	assert.Equal(t, "ci-bot", defaultWriter())

	t.Setenv("WARREN_WRITER", "")
	t.Setenv("USER", "carol")
	assert.Equal(t, "carol", defaultWriter())
}
