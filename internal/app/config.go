package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store drivers understood by the runtime.
const (
	StoreDriverPostgREST = "postgrest"
	StoreDriverPostgres  = "postgres"
)

// Config holds runtime configuration for the application.
type Config struct {
	Environment       string        `envconfig:"ENVIRONMENT" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8000"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	APIPrefix string `envconfig:"API_PREFIX" default:"/api"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173,http://127.0.0.1:3000,https://admin-ivy-production-2f2e.up.railway.app"`

	StoreDriver        string        `envconfig:"STORE_DRIVER" default:"postgrest"`
	SupabaseURL        string        `envconfig:"SUPABASE_URL"`
	SupabaseKey        string        `envconfig:"SUPABASE_KEY"`
	SupabaseDBDSN      string        `envconfig:"SUPABASE_DB_DSN"`
	StoreTimeout       time.Duration `envconfig:"STORE_TIMEOUT" default:"10s"`
	StoreMaxConns      int32         `envconfig:"STORE_MAX_CONNS" default:"10"`
	DetailsConcurrency int           `envconfig:"DETAILS_CONCURRENCY" default:"5"`
}

// LoadConfig reads configuration from environment variables, after loading an
// optional .env file from the working directory.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.APIPrefix = "/" + strings.Trim(cfg.APIPrefix, "/")
	if cfg.APIPrefix == "/" {
		cfg.APIPrefix = ""
	}
	switch cfg.StoreDriver {
	case StoreDriverPostgREST, StoreDriverPostgres:
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	if cfg.StoreMaxConns < 1 {
		return nil, errors.New("store max conns must be at least 1")
	}
	if cfg.DetailsConcurrency < 1 {
		return nil, errors.New("details concurrency must be at least 1")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.Environment == "production"
}

// StoreConfigured reports whether credentials for the selected driver are present.
func (c *Config) StoreConfigured() bool {
	if c == nil {
		return false
	}
	if c.StoreDriver == StoreDriverPostgres {
		return c.SupabaseDBDSN != ""
	}
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}
