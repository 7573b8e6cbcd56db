package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Supabase  SupabaseConfig  `mapstructure:"supabase"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

// SupabaseConfig holds Supabase-specific configuration
type SupabaseConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
}

// AnalyticsConfig holds analytics pipeline tuning
type AnalyticsConfig struct {
	// Timezone decides what "today" means when filtering future-dated records
	Timezone string `mapstructure:"timezone"`
	// LookbackDays is the streak/correlation history window
	LookbackDays int `mapstructure:"lookback_days"`
	// PatternWeeks is the weekly pattern sampling window
	PatternWeeks int `mapstructure:"pattern_weeks"`
	// InsightTTL bounds insight cache freshness
	InsightTTL time.Duration `mapstructure:"insight_ttl"`
	// ConversationTTL bounds conversation cache freshness
	ConversationTTL time.Duration `mapstructure:"conversation_ttl"`
	// ComputeTimeout caps one full insight computation; on expiry the
	// caller falls back to the default card set, it never retries
	ComputeTimeout time.Duration `mapstructure:"compute_timeout"`
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env if present; real env vars still win
	_ = godotenv.Load()

	v := viper.New()

	// Set default values
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("analytics.timezone", "UTC")
	v.SetDefault("analytics.lookback_days", 30)
	v.SetDefault("analytics.pattern_weeks", 4)
	v.SetDefault("analytics.insight_ttl", 8*time.Hour)
	v.SetDefault("analytics.conversation_ttl", 2*time.Hour)
	v.SetDefault("analytics.compute_timeout", 15*time.Second)

	// Read from environment variables
	v.SetEnvPrefix("RITUAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also bind to non-prefixed environment variables for deploy targets
	// that inject them directly
	v.BindEnv("server.port", "PORT")
	v.BindEnv("supabase.url", "SUPABASE_URL")
	v.BindEnv("supabase.service_key", "SUPABASE_SERVICE_KEY")

	// Read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// It's okay if config file doesn't exist
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that all required configuration values are present
func (c *Config) Validate() error {
	if c.Supabase.URL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.Supabase.ServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	if _, err := time.LoadLocation(c.Analytics.Timezone); err != nil {
		return fmt.Errorf("invalid analytics timezone %q: %w", c.Analytics.Timezone, err)
	}
	return nil
}

// Location resolves the configured analytics timezone. Validate has
// already checked it parses.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Analytics.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
