package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database   DatabaseConfig
	Extraction ExtractionConfig
	OCR        OCRConfig
	Workers    WorkerConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	LocalPath        string // sqlite fallback for offline/batch use
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ExtractionConfig holds extraction-engine configuration
type ExtractionConfig struct {
	// MaxRawTextBytes caps how much raw text is retained per document.
	MaxRawTextBytes int
	// MinTextLayerChars is the threshold below which a PDF text layer is
	// considered empty and OCR is attempted instead.
	MinTextLayerChars int
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	TesseractBin string
	Languages    string
}

// WorkerConfig bounds concurrent document processing
type WorkerConfig struct {
	Count          int
	QueueSize      int
	ProcessTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			LocalPath:        getEnv("LOCAL_DB_PATH", "./garage-docs.db"),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Extraction: ExtractionConfig{
			MaxRawTextBytes:   getEnvAsInt("EXTRACT_MAX_RAW_TEXT_BYTES", 10000),
			MinTextLayerChars: getEnvAsInt("EXTRACT_MIN_TEXT_LAYER_CHARS", 20),
		},
		OCR: OCRConfig{
			TesseractBin: getEnv("TESSERACT_BIN", "tesseract"),
			Languages:    getEnv("OCR_LANGUAGES", "eng"),
		},
		Workers: WorkerConfig{
			Count:          getEnvAsInt("WORKER_COUNT", 4),
			QueueSize:      getEnvAsInt("WORKER_QUEUE_SIZE", 256),
			ProcessTimeout: getEnvAsDuration("WORKER_PROCESS_TIMEOUT", 3*time.Minute),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" && c.Database.LocalPath == "" {
		return NewAppError("CONFIG_ERROR", "either DB_URL or LOCAL_DB_PATH is required", ErrInvalidInput)
	}
	if c.Extraction.MaxRawTextBytes <= 0 {
		return NewAppError("CONFIG_ERROR", "EXTRACT_MAX_RAW_TEXT_BYTES must be positive", ErrInvalidInput)
	}
	if c.Workers.Count <= 0 {
		return NewAppError("CONFIG_ERROR", "WORKER_COUNT must be positive", ErrInvalidInput)
	}
	return nil
}
