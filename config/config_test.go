package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultProjectConfig checks that the default configuration is valid.
func TestDefaultProjectConfig(t *testing.T) {
	projectConfig := GetDefaultProjectConfig()
	assert.NoError(t, projectConfig.Validate())
	assert.Equal(t, "mainnet", projectConfig.Network)
	assert.True(t, projectConfig.Encoding.VerifyRoundTrip)
	assert.Equal(t, zerolog.InfoLevel, projectConfig.Logging.Level)
}

// TestProjectConfigRoundTrip checks that a written configuration reads back identically.
func TestProjectConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultProjectConfigFilename)

	projectConfig := GetDefaultProjectConfig()
	projectConfig.Network = "sepolia"
	projectConfig.Registry.StorePath = "methods.db"
	projectConfig.Registry.MethodFiles = []string{"abis/vault.json"}
	projectConfig.Logging.Level = zerolog.DebugLevel
	require.NoError(t, projectConfig.WriteToFile(path))

	// Levels are written by name
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"level": "debug"`)

	read, err := ReadProjectConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, projectConfig, read)
}

// TestPartialProjectConfig checks that fields missing from the file keep their defaults.
func TestPartialProjectConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultProjectConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte(`{"network":"sepolia","logging":{"level":"error"}}`), 0644))

	projectConfig, err := ReadProjectConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sepolia", projectConfig.Network)
	assert.Equal(t, zerolog.ErrorLevel, projectConfig.Logging.Level)
	assert.True(t, projectConfig.Logging.EnableConsoleLogging)
	assert.True(t, projectConfig.Encoding.VerifyRoundTrip)

	_, err = ReadProjectConfigFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"logging":{"level":"loud"}}`), 0644))
	_, err = ReadProjectConfigFromFile(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"network":`), 0644))
	_, err = ReadProjectConfigFromFile(path)
	assert.Error(t, err)
}

// TestValidateProjectConfig checks that invalid settings are rejected.
func TestValidateProjectConfig(t *testing.T) {
	projectConfig := GetDefaultProjectConfig()
	projectConfig.Network = "holesky"
	assert.Error(t, projectConfig.Validate())

	projectConfig = GetDefaultProjectConfig()
	projectConfig.Network = "Sepolia"
	assert.NoError(t, projectConfig.Validate())

	projectConfig = GetDefaultProjectConfig()
	projectConfig.Registry.MethodFiles = []string{" "}
	assert.Error(t, projectConfig.Validate())

	projectConfig = GetDefaultProjectConfig()
	projectConfig.Logging.Level = zerolog.Level(9)
	assert.Error(t, projectConfig.Validate())
}
