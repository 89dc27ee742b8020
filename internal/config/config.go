package config

import (
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Data sources the trainer can read observations from.
const (
	SourceSample = "sample"
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
	SourceSheets = "sheets"
)

type Config struct {
	// HTTP Server
	Port string

	// Model
	ModelPath       string
	HoldoutFraction float64

	// Training data
	DataSource string
	DataFile   string
	ImportFile string

	// Database
	SQLiteDBPath string

	// AMQP (empty URL disables notifications)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets
	GoogleSpreadsheetID string
	GoogleSheetName     string
	GoogleSheetYears    []int

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		ModelPath:       getEnv("MODEL_PATH", "expense_tracker_model.bin"),
		HoldoutFraction: getEnvFloat("HOLDOUT_FRACTION", 0.2),

		DataSource: getEnv("DATA_SOURCE", SourceSample),
		DataFile:   getEnv("DATA_FILE", "./data/expenses.csv"),
		ImportFile: getEnv("IMPORT_FILE", "./data/import.csv"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/spese.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "spese"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "model_trained"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Expenses"),
		GoogleSheetYears:    getEnvInts("GOOGLE_SHEET_YEARS", []int{time.Now().Year()}),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if strings.TrimSpace(c.ModelPath) == "" {
		errors = append(errors, "model path cannot be empty")
	}

	if math.IsNaN(c.HoldoutFraction) || c.HoldoutFraction < 0 || c.HoldoutFraction >= 1 {
		errors = append(errors, fmt.Sprintf("invalid holdout fraction %v: must be in [0, 1)", c.HoldoutFraction))
	}

	validSources := []string{SourceSample, SourceCSV, SourceSQLite, SourceSheets}
	isValidSource := false
	for _, s := range validSources {
		if c.DataSource == s {
			isValidSource = true
			break
		}
	}
	if !isValidSource {
		errors = append(errors, fmt.Sprintf("invalid data source '%s': must be one of %v", c.DataSource, validSources))
	}

	if c.DataSource == SourceCSV && strings.TrimSpace(c.DataFile) == "" {
		errors = append(errors, "data file cannot be empty when using csv source")
	}

	if c.DataSource == SourceSQLite {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite source")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.DataSource == SourceSheets {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets source")
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when using sheets source")
		}
		if len(c.GoogleSheetYears) == 0 {
			errors = append(errors, "at least one year is required when using sheets source")
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvInts(key string, defaultValue []int) []int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil {
			return defaultValue
		}
		out = append(out, i)
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
