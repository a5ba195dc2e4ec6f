// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	// Mapping persistence. MappingDSN selects the Postgres-backed store when
	// set; otherwise mappings live as JSON files under MappingDir.
	MappingDir  string
	MappingDSN  string
	FlushPolicy string // "at_end" or "per_write"

	// Engine settings
	BatchSize   int
	WorkerCount int

	// Classifier settings
	SampleSize    int
	MinConfidence float64
	HeaderWeight  float64

	// Generator seed. 0 means non-deterministic output.
	GeneratorSeed uint64

	// Retry settings for mapping file writes
	RetryAttempts int
	RetryDelay    time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		// Default values
		MappingDir:  getEnv("MAPPING_DIR", "mappings"),
		MappingDSN:  getEnv("MAPPING_DSN", ""),
		FlushPolicy: getEnv("FLUSH_POLICY", "at_end"),

		BatchSize:   getEnvAsInt("BATCH_SIZE", 500),
		WorkerCount: getEnvAsInt("WORKER_COUNT", 1),

		SampleSize:    getEnvAsInt("SAMPLE_SIZE", 20),
		MinConfidence: getEnvAsFloat("MIN_CONFIDENCE", 0.7),
		HeaderWeight:  getEnvAsFloat("HEADER_WEIGHT", 0.7),

		GeneratorSeed: uint64(getEnvAsInt("GENERATOR_SEED", 0)),

		RetryAttempts: getEnvAsInt("RETRY_ATTEMPTS", 3),
		RetryDelay:    time.Duration(getEnvAsInt("RETRY_DELAY_MS", 100)) * time.Millisecond,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.MappingDir == "" && c.MappingDSN == "" {
		return errors.New("either a mapping directory or a mapping DSN is required")
	}

	if c.FlushPolicy != "at_end" && c.FlushPolicy != "per_write" {
		return errors.New("flush policy must be \"at_end\" or \"per_write\"")
	}

	if c.BatchSize <= 0 {
		return errors.New("batch size must be positive")
	}

	if c.WorkerCount <= 0 {
		return errors.New("worker count must be positive")
	}

	if c.SampleSize <= 0 {
		return errors.New("sample size must be positive")
	}

	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return errors.New("minimum confidence must be within [0, 1]")
	}

	if c.HeaderWeight < 0 || c.HeaderWeight > 1 {
		return errors.New("header weight must be within [0, 1]")
	}

	if c.RetryAttempts < 0 {
		return errors.New("retry attempts cannot be negative")
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
