package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported values of DATABASE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// Storage
	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL    string `mapstructure:"PGSQL_URL"`
	SQLitePath     string `mapstructure:"SQLITE_PATH"`
	EnableDBCheck  bool
	RunMigrations  bool
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`

	// Auth
	AuthEnabled bool
	JWTSecret   string
	JWTIssuer   string

	FrontendBaseURL string `mapstructure:"FRONTEND_BASE_URL"`

	// Ingestion
	IngestWorkers         int
	IngestTimeout         time.Duration
	IngestRateLimit       string `mapstructure:"INGEST_RATE_LIMIT"`
	AccountConflictPolicy domain.AccountConflictPolicy

	DisplayCurrency string `mapstructure:"DISPLAY_CURRENCY"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("DATABASE_DRIVER", DriverPostgres)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("SQLITE_PATH", "pnl.db")
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("AUTH_ENABLED", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "pnl-insights-app")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("INGEST_WORKERS", 4)
	viper.SetDefault("INGEST_TIMEOUT", "30s")
	viper.SetDefault("INGEST_RATE_LIMIT", "30-M")
	viper.SetDefault("ACCOUNT_CONFLICT_POLICY", string(domain.FirstWriteWins))
	viper.SetDefault("DISPLAY_CURRENCY", "USD")

	// Actual environment variables override .env values and defaults.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(viper.GetString("DATABASE_DRIVER")))
	switch cfg.DatabaseDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q (expected %s or %s)", cfg.DatabaseDriver, DriverPostgres, DriverSQLite)
	}
	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseDriver == DriverPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	cfg.SQLitePath = viper.GetString("SQLITE_PATH")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RunMigrations = viper.GetBool("RUN_MIGRATIONS")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.AuthEnabled = viper.GetBool("AUTH_ENABLED")
	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.AuthEnabled && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set when AUTH_ENABLED is true")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	cfg.IngestWorkers = viper.GetInt("INGEST_WORKERS")
	if cfg.IngestWorkers <= 0 {
		log.Printf("Warning: Invalid value for INGEST_WORKERS (%d). Defaulting to 4.\n", cfg.IngestWorkers)
		cfg.IngestWorkers = 4
	}

	timeoutStr := viper.GetString("INGEST_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 30 * time.Second
		log.Printf("Warning: Invalid value for INGEST_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout)
	}
	cfg.IngestTimeout = timeout
	cfg.IngestRateLimit = viper.GetString("INGEST_RATE_LIMIT")

	policy, err := domain.ParseAccountConflictPolicy(viper.GetString("ACCOUNT_CONFLICT_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("invalid ACCOUNT_CONFLICT_POLICY: %w", err)
	}
	cfg.AccountConflictPolicy = policy

	cfg.DisplayCurrency = strings.ToUpper(viper.GetString("DISPLAY_CURRENCY"))

	return cfg, nil
}
