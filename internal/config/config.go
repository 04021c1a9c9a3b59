package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Auth      AuthConfig
	Business  BusinessConfig
	Reporting ReportingConfig
	Sheets    SheetsConfig
	MongoDB   MongoDBConfig
	WhatsApp  WhatsAppConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig selects the zap level. "development" switches to the console encoder.
type LogConfig struct {
	Level string
}

// AuthConfig controls the login gate.
type AuthConfig struct {
	DefaultPassword string
	RequirePassword bool
}

// BusinessConfig is printed on generated documents.
type BusinessConfig struct {
	Name     string
	City     string
	VATPct   int
	Timezone string
}

// Location resolves Timezone, falling back to UTC when unknown.
func (b BusinessConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ReportingConfig holds scheduler and export settings.
type ReportingConfig struct {
	CronSchedule string
	ExportDir    string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled is true once both keys are set.
func (c SheetsConfig) Enabled() bool { return c.CredentialsPath != "" && c.SpreadsheetID != "" }

// MongoDBConfig holds settings for the report archive.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled is true when a URI is set.
func (c MongoDBConfig) Enabled() bool { return c.URI != "" }

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	ManagerNumber string
}

// Enabled is true once the token, sender and recipient are known.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != "" && c.ManagerNumber != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	vat, err := getenvInt("VAT_PCT", 19)
	if err != nil {
		return nil, err
	}
	requirePassword, err := getenvBool("AUTH_REQUIRE_PASSWORD", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			DefaultPassword: getenvWithDefault("ADMIN_DEFAULT_PASSWORD", "admin"),
			RequirePassword: requirePassword,
		},
		Business: BusinessConfig{
			Name:     getenvWithDefault("BUSINESS_NAME", "OLIVERAQ"),
			City:     getenvWithDefault("BUSINESS_CITY", "Tunis"),
			VATPct:   vat,
			Timezone: getenvWithDefault("TIMEZONE", "Africa/Tunis"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 28-31 * *"),
			ExportDir:    getenvWithDefault("EXPORT_DIR", "./exports"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "oliveraq"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			ManagerNumber: os.Getenv("WHATSAPP_MANAGER_NUMBER"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields and rejects half-configured integrations.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("APP_PORT must be numeric: %q", c.Server.Port)
	}

	if c.Auth.DefaultPassword == "" {
		return errors.New("ADMIN_DEFAULT_PASSWORD must not be empty")
	}

	if c.Business.VATPct < 0 || c.Business.VATPct > 100 {
		return fmt.Errorf("VAT_PCT must be between 0 and 100, got %d", c.Business.VATPct)
	}
	if _, err := time.LoadLocation(c.Business.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q: %w", c.Business.Timezone, err)
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}
	if c.Reporting.ExportDir == "" {
		return errors.New("EXPORT_DIR must not be empty")
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if c.MongoDB.Enabled() && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	wa := c.WhatsApp
	set := 0
	for _, v := range []string{wa.AccessToken, wa.PhoneNumberID, wa.ManagerNumber} {
		if v != "" {
			set++
		}
	}
	switch {
	case set != 0 && set != 3:
		return errors.New("WHATSAPP_TOKEN, WHATSAPP_PHONE_NUMBER_ID and WHATSAPP_MANAGER_NUMBER must be provided together")
	case set == 3 && (wa.BaseURL == "" || wa.APIVersion == ""):
		return errors.New("WHATSAPP_BASE_URL and WHATSAPP_API_VERSION must not be empty")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getenvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}
