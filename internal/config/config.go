package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/dvloznov/budget-share/internal/domain"
)

// Config holds every setting the binaries read from the environment.
type Config struct {
	Port                  string
	APIKey                string // inbound x-api-key guard
	YNABToken             string
	SpreadsheetID         string
	GoogleCredentialsFile string
	RulesWorkbook         string // local .xlsx override for the rule tables
	SplitWorkers          int
	LogLevel              string
	LogFile               string
}

// Load reads the environment, merging in a .env file if one is present.
// Process variables win over .env entries.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:                  getEnv("PORT", "8080"),
		APIKey:                getEnv("API_KEY", ""),
		YNABToken:             getEnv("YNAB_API_KEY", ""),
		SpreadsheetID:         getEnv("SPREADSHEET_ID", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", "service_account.json"),
		RulesWorkbook:         getEnv("RULES_WORKBOOK", ""),
		SplitWorkers:          getEnvInt("SPLIT_WORKERS", 1),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFile:               getEnv("LOG_FILE", ""),
	}
}

// RequireServer validates the settings the HTTP server cannot start without.
func (c Config) RequireServer() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY is required: %w", domain.ErrConfigMissing)
	}
	return c.RequireEngine()
}

// RequireEngine validates the settings both binaries need to reach the
// budgeting service and the rule tables.
func (c Config) RequireEngine() error {
	if c.YNABToken == "" {
		return fmt.Errorf("YNAB_API_KEY is required: %w", domain.ErrConfigMissing)
	}
	if c.SpreadsheetID == "" && c.RulesWorkbook == "" {
		return fmt.Errorf("SPREADSHEET_ID or RULES_WORKBOOK is required: %w", domain.ErrConfigMissing)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
