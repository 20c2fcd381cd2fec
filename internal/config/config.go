package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned by Load when the Palmetto API key is absent.
// The key is mandatory: without it every insight request would fail, so the
// process refuses to start instead of failing lazily per request.
var ErrMissingAPIKey = errors.New("PALMETTO_API_KEY is required")

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Palmetto   PalmettoConfig
	Bayou      BayouConfig
	Maps       MapsConfig
	Rules      RulesConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
	PostgreSQL PostgreSQLConfig
	Logging    LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

// PalmettoConfig holds Palmetto Energy Insights API configuration.
// APIBase points at the BEM calculate endpoint; the service-area check is
// served under it (<APIBase>/service-area).
type PalmettoConfig struct {
	APIKey  string
	APIBase string
	Timeout int // seconds
}

// BayouConfig holds Bayou utility-data API configuration. The integration is
// optional: it is enabled only when an API key is configured.
type BayouConfig struct {
	APIKey        string
	Domain        string
	Utility       string // default utility slug for new customers
	CustomerEmail string // default email for new customers (Bayou requires one)
	Timeout       int    // seconds, per request
	PollInterval  int    // seconds, between bill-readiness checks
	Enabled       bool
}

// MapsConfig holds Google Maps Places API configuration for address
// autocomplete. Optional, same enablement rule as Bayou.
type MapsConfig struct {
	APIKey  string
	Country string
	Timeout int // seconds
	Enabled bool
}

// RulesConfig holds the recommendation thresholds. These are content choices,
// not contracts; every value can be tuned per deployment.
type RulesConfig struct {
	HighUsageKWh       float64 // annual kWh above which an efficiency audit is suggested
	LightingUsageKWh   float64 // annual kWh above which efficient lighting is suggested
	SolarPotentialMin  float64 // solar potential above which installation is suggested
	SeasonalSpikeRatio float64 // peak month vs mean month ratio triggering HVAC advice
	PeakSpreadRatio    float64 // max/min monthly ratio triggering peak monitoring advice
}

// CacheConfig holds the in-memory metrics cache configuration.
type CacheConfig struct {
	Size int // number of addresses to keep; 0 disables caching
}

// RateLimitConfig holds API rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// PostgreSQLConfig holds PostgreSQL database configuration. The database is
// optional and only used for lookup history and feedback; the service runs
// without one.
type PostgreSQLConfig struct {
	DSN                string
	MaxConnections     int
	MaxIdleConnections int
	Enabled            bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
		},
		Palmetto: PalmettoConfig{
			APIKey:  getEnv("PALMETTO_API_KEY", ""),
			APIBase: getEnv("PALMETTO_API_BASE", "https://ei.palmetto.com/api/v0/bem/calculate"),
			Timeout: getEnvAsInt("PALMETTO_TIMEOUT", 30),
		},
		Bayou: BayouConfig{
			APIKey:        getEnv("BAYOU_API_KEY", ""),
			Domain:        getEnv("BAYOU_DOMAIN", "staging.bayou.energy"),
			Utility:       getEnv("BAYOU_UTILITY", "pacific_gas_and_electric"),
			CustomerEmail: getEnv("BAYOU_CUSTOMER_EMAIL", "test@example.com"),
			Timeout:       getEnvAsInt("BAYOU_TIMEOUT", 30),
			PollInterval:  getEnvAsInt("BAYOU_POLL_INTERVAL", 5),
			Enabled:       getEnv("BAYOU_API_KEY", "") != "",
		},
		Maps: MapsConfig{
			APIKey:  getEnv("GOOGLE_MAPS_API_KEY", ""),
			Country: getEnv("MAPS_COUNTRY", "us"),
			Timeout: getEnvAsInt("MAPS_TIMEOUT", 10),
			Enabled: getEnv("GOOGLE_MAPS_API_KEY", "") != "",
		},
		Rules: RulesConfig{
			HighUsageKWh:       getEnvAsFloat("RULE_HIGH_USAGE_KWH", 12000),
			LightingUsageKWh:   getEnvAsFloat("RULE_LIGHTING_USAGE_KWH", 6000),
			SolarPotentialMin:  getEnvAsFloat("RULE_SOLAR_POTENTIAL_MIN", 5),
			SeasonalSpikeRatio: getEnvAsFloat("RULE_SEASONAL_SPIKE_RATIO", 1.5),
			PeakSpreadRatio:    getEnvAsFloat("RULE_PEAK_SPREAD_RATIO", 2.0),
		},
		Cache: CacheConfig{
			Size: getEnvAsInt("CACHE_SIZE", 256),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT", 5.0),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", ""))),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 25),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 5),
			Enabled:            getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", ""))) != "",
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if cfg.Palmetto.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	return cfg, nil
}

// BayouBaseURL returns the Bayou API v2 base URL for the configured domain.
func (c *Config) BayouBaseURL() string {
	return fmt.Sprintf("https://%s/api/v2", c.Bayou.Domain)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float value for %s, using default %f", key, defaultValue)
		return defaultValue
	}
	return value
}
