package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Store     StoreConfig     `mapstructure:"store"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
	// RequestsPerSecond is the per-client rate limit; 0 disables it
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
	// CORSAllowedOrigins lists exact origins or https://*.example.com
	// patterns; empty allows every origin
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// IsProduction reports whether the server runs in production
func (s ServerConfig) IsProduction() bool {
	return s.Env == "production"
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	Backend string `mapstructure:"backend"`
}

// Store drivers
const (
	DriverSQLite   = "sqlite"
	DriverSupabase = "supabase"
)

// StoreConfig selects and configures the datastore
type StoreConfig struct {
	Driver             string `mapstructure:"driver"`
	SQLitePath         string `mapstructure:"sqlite_path"`
	SupabaseURL        string `mapstructure:"supabase_url"`
	SupabaseServiceKey string `mapstructure:"supabase_service_key"`
}

// AnalyticsConfig tunes the insight engine
type AnalyticsConfig struct {
	CacheTTL           time.Duration     `mapstructure:"cache_ttl"`
	CacheMaxEntries    int               `mapstructure:"cache_max_entries"`
	PageSize           int               `mapstructure:"page_size"`
	PrefetchDistance   int               `mapstructure:"prefetch_distance"`
	Workers            int               `mapstructure:"workers"`
	TimeZone           string            `mapstructure:"timezone"`
	TrendFlatTolerance float64           `mapstructure:"trend_flat_tolerance"`
	Correlation        CorrelationConfig `mapstructure:"correlation"`
	Scoring            ScoringConfig     `mapstructure:"scoring"`
}

// CorrelationConfig holds the finding thresholds
type CorrelationConfig struct {
	MinDays               int     `mapstructure:"min_days"`
	MinRelativeDifference float64 `mapstructure:"min_relative_difference"`
	HighEffectiveness     float64 `mapstructure:"high_effectiveness"`
}

// ScoringConfig holds the day performance score weights
type ScoringConfig struct {
	EntryWeight       float64 `mapstructure:"entry_weight"`
	PositiveWeight    float64 `mapstructure:"positive_weight"`
	ChallengingWeight float64 `mapstructure:"challenging_weight"`
}

// setDefaults registers every default value on v
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.requests_per_second", 20.0)
	v.SetDefault("server.burst", 40)
	v.SetDefault("server.cors_allowed_origins", []string{})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.backend", "slog")

	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.sqlite_path", "data/patternlog.db")
	v.SetDefault("store.supabase_url", "")
	v.SetDefault("store.supabase_service_key", "")

	v.SetDefault("analytics.cache_ttl", 5*time.Minute)
	v.SetDefault("analytics.cache_max_entries", 64)
	v.SetDefault("analytics.page_size", 20)
	v.SetDefault("analytics.prefetch_distance", 5)
	v.SetDefault("analytics.workers", 4)
	v.SetDefault("analytics.timezone", "")
	v.SetDefault("analytics.trend_flat_tolerance", 0.05)
	v.SetDefault("analytics.correlation.min_days", 3)
	v.SetDefault("analytics.correlation.min_relative_difference", 0.20)
	v.SetDefault("analytics.correlation.high_effectiveness", 4.0)
	v.SetDefault("analytics.scoring.entry_weight", 0.1)
	v.SetDefault("analytics.scoring.positive_weight", 1.0)
	v.SetDefault("analytics.scoring.challenging_weight", 1.0)
}

// Load reads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	// A missing .env is fine; real environment variables still apply
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("PATTERNLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also bind to non-prefixed environment variables for backward compatibility
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.cors_allowed_origins", "CORS_ALLOWED_ORIGINS")
	v.BindEnv("store.supabase_url", "SUPABASE_URL")
	v.BindEnv("store.supabase_service_key", "SUPABASE_SERVICE_KEY")

	// Read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// It's okay if config file doesn't exist
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that all required configuration values are present
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for the sqlite driver")
		}
	case DriverSupabase:
		if c.Store.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required")
		}
		if c.Store.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	a := c.Analytics
	if a.CacheTTL <= 0 {
		return fmt.Errorf("analytics.cache_ttl must be positive")
	}
	if a.PageSize <= 0 {
		return fmt.Errorf("analytics.page_size must be positive")
	}
	if a.PrefetchDistance < 0 {
		return fmt.Errorf("analytics.prefetch_distance must not be negative")
	}
	if a.Workers <= 0 {
		return fmt.Errorf("analytics.workers must be positive")
	}
	if a.Correlation.MinDays < 1 {
		return fmt.Errorf("analytics.correlation.min_days must be at least 1")
	}
	if a.Correlation.MinRelativeDifference < 0 || a.Correlation.MinRelativeDifference > 1 {
		return fmt.Errorf("analytics.correlation.min_relative_difference must be within [0, 1]")
	}
	if a.Correlation.HighEffectiveness < 1 || a.Correlation.HighEffectiveness > 5 {
		return fmt.Errorf("analytics.correlation.high_effectiveness must be within [1, 5]")
	}
	if a.TimeZone != "" {
		if _, err := time.LoadLocation(a.TimeZone); err != nil {
			return fmt.Errorf("invalid analytics.timezone %q: %w", a.TimeZone, err)
		}
	}
	return nil
}
