package config

import (
	"os"
	"strconv"
	"strings"

	"tollkit/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data    DataConfig
	Output  OutputConfig
	Logging LoggingConfig
}

// DataConfig holds the input dataset locations
type DataConfig struct {
	Dataset1File string // vehicle counts per id pair and route
	Dataset2File string // weekly coverage intervals
	Dataset3File string // distances between toll locations
	ReferenceID  string // reference id_start for the ten percent threshold
}

// OutputConfig holds where results are written
type OutputConfig struct {
	Dir    string
	Format string // "csv" or "xlsx"
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data:    *loadDataConfig(),
		Output:  *loadOutputConfig(),
		Logging: *loadLoggingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		Dataset1File: getEnvOrDefault("DATASET_1_FILE", "datasets/dataset-1.csv"),
		Dataset2File: getEnvOrDefault("DATASET_2_FILE", "datasets/dataset-2.csv"),
		Dataset3File: getEnvOrDefault("DATASET_3_FILE", "datasets/dataset-3.csv"),
		ReferenceID:  getEnvOrDefault("REFERENCE_ID", "1001400"),
	}
}

func loadOutputConfig() *OutputConfig {
	return &OutputConfig{
		Dir:    getEnvOrDefault("OUTPUT_DIR", "out"),
		Format: strings.ToLower(getEnvOrDefault("OUTPUT_FORMAT", "csv")),
	}
}

func loadLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}
}

func validateConfig(config *Config) error {
	if config.Data.Dataset1File == "" || config.Data.Dataset2File == "" || config.Data.Dataset3File == "" {
		return errors.ConfigInvalid("dataset file paths are required")
	}
	if config.Output.Format != "csv" && config.Output.Format != "xlsx" {
		return errors.ConfigInvalid("OUTPUT_FORMAT must be csv or xlsx, got " + strconv.Quote(config.Output.Format))
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
