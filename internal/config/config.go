// Package config loads the runtime settings the CLI entrypoint needs
// around the core pipeline: the AWS region, the callback endpoint and
// its encrypted API key, the KMS key ID, the invocation's function
// name, and logging options, loaded from environment variables via
// viper.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the runtime settings surrounding a single invocation.
// The invocation payload itself (model.DedupConfig) is loaded
// separately, from the object the cloud function runtime hands the
// core; see cmd/lshdedup.
type Config struct {
	Region       string    `mapstructure:"region"`
	Endpoint     string    `mapstructure:"endpoint"`
	APIKey       string    `mapstructure:"api_key"`
	KeyID        string    `mapstructure:"key_id"`
	FunctionName string    `mapstructure:"function_name"`
	Log          LogConfig `mapstructure:"log"`
}

// LogConfig controls the structured logger's verbosity.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads runtime settings from environment variables (REGION,
// ENDPOINT, API_KEY, KEY_ID, FUNCTION_NAME, LOG_LEVEL).
func Load() (*Config, error) {
	viper.SetDefault("log.level", "info")

	viper.AutomaticEnv()
	viper.BindEnv("region", "REGION")
	viper.BindEnv("endpoint", "ENDPOINT")
	viper.BindEnv("api_key", "API_KEY")
	viper.BindEnv("key_id", "KEY_ID")
	viper.BindEnv("function_name", "FUNCTION_NAME")
	viper.BindEnv("log.level", "LOG_LEVEL")

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}

	if cfg.Region == "" {
		return nil, fmt.Errorf("config: environment variable 'REGION' not found")
	}
	return cfg, nil
}
