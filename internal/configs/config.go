package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// FeedConfig holds the property feed settings.
type FeedConfig struct {
	URL         string
	ReuseWindow time.Duration
	Timeout     time.Duration
}

// DBconfig holds the database settings.
type DBconfig struct {
	URL string
}

// GA4Config holds the GA4 Data API settings.
type GA4Config struct {
	PropertyID  string
	AccessToken string
	BaseURL     string
}

// AdsConfig holds the Google Ads API settings.
type AdsConfig struct {
	CustomerID     string
	DeveloperToken string
	AccessToken    string
	BaseURL        string
}

// ReportsConfig holds the report output settings.
type ReportsConfig struct {
	OutputDir string
}

// CampaignRulesConfig points at an optional classifier rules override.
type CampaignRulesConfig struct {
	SchemaPath string
	RulesPath  string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig holds the whole application configuration.
type AppConfig struct {
	AppName       string
	Feed          FeedConfig
	Database      DBconfig
	GA4           GA4Config
	Ads           AdsConfig
	Reports       ReportsConfig
	CampaignRules CampaignRulesConfig
	StdoutLogger  StdoutLogConfig
	FluentBit     FluentBitConfig
}

// LoadConfig loads the configuration from environment variables, reading
// a .env file first when one is present. Which variables are required
// depends on the command; see the Validate* methods.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("could not load .env file (path: %s): %w", envPath[0], err)
		}
	} else if err := godotenv.Load(); err != nil {
		// A missing default .env is fine: plain env vars still apply.
		log.Printf("Info: no .env file loaded: %v\n", err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "google-stats")

	cfg.Feed.URL = os.Getenv("FEED_URL")
	cfg.Feed.ReuseWindow = getEnvAsDuration("FEED_REUSE_WINDOW", 30*time.Minute)
	cfg.Feed.Timeout = getEnvAsDuration("FEED_TIMEOUT", 30*time.Second)

	cfg.Database.URL = os.Getenv("DATABASE_URL")

	cfg.GA4.PropertyID = os.Getenv("GA4_PROPERTY_ID")
	cfg.GA4.AccessToken = os.Getenv("GA4_ACCESS_TOKEN")
	cfg.GA4.BaseURL = os.Getenv("GA4_BASE_URL")

	cfg.Ads.CustomerID = os.Getenv("ADS_CUSTOMER_ID")
	cfg.Ads.DeveloperToken = os.Getenv("ADS_DEVELOPER_TOKEN")
	cfg.Ads.AccessToken = os.Getenv("ADS_ACCESS_TOKEN")
	cfg.Ads.BaseURL = os.Getenv("ADS_BASE_URL")

	cfg.Reports.OutputDir = getEnvAsString("REPORTS_DIR", "./reports")

	cfg.CampaignRules.SchemaPath = getEnvAsString("CAMPAIGN_RULES_SCHEMA", "./schemas/campaign-rules/v1.json")
	cfg.CampaignRules.RulesPath = os.Getenv("CAMPAIGN_RULES_PATH")

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	return cfg, nil
}

// ValidateSync checks the variables the sync-feed command needs.
func (c *AppConfig) ValidateSync() error {
	if c.Feed.URL == "" {
		return fmt.Errorf("FEED_URL environment variable is required")
	}
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return nil
}

// ValidateTrafficReport checks the variables the traffic-report command needs.
func (c *AppConfig) ValidateTrafficReport() error {
	if c.GA4.PropertyID == "" {
		return fmt.Errorf("GA4_PROPERTY_ID environment variable is required")
	}
	if c.GA4.AccessToken == "" {
		return fmt.Errorf("GA4_ACCESS_TOKEN environment variable is required")
	}
	return nil
}

// ValidateCampaignReport checks the variables the campaign-report command needs.
func (c *AppConfig) ValidateCampaignReport() error {
	if c.Ads.CustomerID == "" {
		return fmt.Errorf("ADS_CUSTOMER_ID environment variable is required")
	}
	if c.Ads.DeveloperToken == "" {
		return fmt.Errorf("ADS_DEVELOPER_TOKEN environment variable is required")
	}
	if c.Ads.AccessToken == "" {
		return fmt.Errorf("ADS_ACCESS_TOKEN environment variable is required")
	}
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as int or falls back to the
// default, logging when the value exists but does not parse.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueBool, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueBool
}

// getEnvAsDuration accepts Go duration syntax ("30m", "45s").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueDur, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueDur
}
