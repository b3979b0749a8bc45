package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lshdedup/lshdedup/internal/config"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadRequiresRegion(t *testing.T) {
	resetViper(t)
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadReadsEnvironmentVariables(t *testing.T) {
	resetViper(t)
	t.Setenv("REGION", "us-east-1")
	t.Setenv("ENDPOINT", "https://callback.example.com")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "https://callback.example.com", cfg.Endpoint)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadDefaultsLogLevelToInfo(t *testing.T) {
	resetViper(t)
	t.Setenv("REGION", "eu-west-1")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
}
