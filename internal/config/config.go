// Package config loads server configuration from the environment and flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// Config contains server configuration parameters.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":4000"`
	LogDev          bool          `env:"LOG_DEV" envDefault:"false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	CORSOrigins     []string      `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`

	Store   Store   `envPrefix:"STORE_"`
	DB      DB      `envPrefix:"DATABASE_"`
	JWT     JWT     `envPrefix:"JWT_"`
	KDF     KDF     `envPrefix:"KDF_"`
	Limiter Limiter `envPrefix:"LIMITER_"`
	RAWG    RAWG    `envPrefix:"RAWG_"`
}

// Store selects the persistence backend.
type Store struct {
	Driver string `env:"DRIVER" envDefault:"file"`
	File   string `env:"FILE" envDefault:"db.json"`
}

// DB contains database connection parameters.
type DB struct {
	DSN string `env:"DSN"`
}

// JWT contains session token parameters.
type JWT struct {
	Secret string        `env:"SECRET"`
	TTL    time.Duration `env:"TTL" envDefault:"2h"`
}

// KDF contains argon2id parameters; zero values use the package defaults.
type KDF struct {
	Time   uint32 `env:"TIME"`
	MemKiB uint32 `env:"MEM"`
	Par    uint8  `env:"PAR"`
}

// Limiter contains login lockout parameters.
type Limiter struct {
	Window   time.Duration `env:"WINDOW" envDefault:"15m"`
	MaxFails int           `env:"MAX_FAILS" envDefault:"5"`
	BlockFor time.Duration `env:"BLOCK_FOR" envDefault:"15m"`
}

// RAWG contains upstream API parameters.
type RAWG struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://api.rawg.io/api"`
	APIKey  string        `env:"API_KEY"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

// Load reads the environment, then lets command-line flags in args override it.
func Load(args []string) (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	fs := flag.NewFlagSet("gamehub-server", flag.ContinueOnError)
	fs.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "listen address")
	fs.BoolVar(&cfg.LogDev, "dev", cfg.LogDev, "development logging")
	fs.StringVar(&cfg.Store.Driver, "store", cfg.Store.Driver, "storage backend: file or postgres")
	fs.StringVar(&cfg.Store.File, "file", cfg.Store.File, "JSON document path for the file backend")
	fs.StringVar(&cfg.DB.DSN, "dsn", cfg.DB.DSN, "PostgreSQL DSN")
	fs.StringVar(&cfg.JWT.Secret, "jwt-key", cfg.JWT.Secret, "HS256 signing key (required)")
	fs.DurationVar(&cfg.JWT.TTL, "token-ttl", cfg.JWT.TTL, "session token lifetime")
	fs.StringVar(&cfg.RAWG.BaseURL, "rawg-url", cfg.RAWG.BaseURL, "game metadata API base URL")
	fs.DurationVar(&cfg.RAWG.Timeout, "rawg-timeout", cfg.RAWG.Timeout, "game metadata API timeout")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("config: JWT_SECRET (--jwt-key) is required")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("config: JWT_TTL must be positive")
	}
	switch c.Store.Driver {
	case DriverFile:
		if c.Store.File == "" {
			return errors.New("config: STORE_FILE is required for the file backend")
		}
	case DriverPostgres:
		if c.DB.DSN == "" {
			return errors.New("config: DATABASE_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.Store.Driver)
	}
	return nil
}
