package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// StorageDriver selects the persistence backend.
type StorageDriver string

const (
	DriverPostgres StorageDriver = "postgres"
	DriverMemory   StorageDriver = "memory"
)

// UnmarshalText implements encoding.TextUnmarshaler for StorageDriver.
func (d *StorageDriver) UnmarshalText(text []byte) error {
	v := StorageDriver(strings.ToLower(strings.TrimSpace(string(text))))
	switch v {
	case DriverPostgres, DriverMemory:
		*d = v
		return nil
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q (valid options: postgres, memory)", string(text))
	}
}

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port             string        `env:"PORT"                 envDefault:"8080"`
	StorageDriver    StorageDriver `env:"STORAGE_DRIVER"       envDefault:"postgres"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	RedisURL         string        `env:"REDIS_URL"`
	JWTSecret        string        `env:"JWT_SECRET"`
	JWTIssuer        string        `env:"JWT_ISSUER"           envDefault:"jobboard"`
	JWTTTLMinutes    int           `env:"JWT_TTL_MINUTES"      envDefault:"60"`
	JWTTTL           time.Duration
	CORSOrigins      []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	GoogleClientID   string        `env:"GOOGLE_CLIENT_ID"`
	UploadDir        string        `env:"UPLOAD_DIR"           envDefault:"uploads"`
	StaticDir        string        `env:"STATIC_DIR"`
	LoginPath        string        `env:"LOGIN_PATH"           envDefault:"/login"`
	UnauthorizedPath string        `env:"UNAUTHORIZED_PATH"    envDefault:"/"`
	LogLevel         string        `env:"LOG_LEVEL"            envDefault:"info"`
	MaxUploadBytes   int64         `env:"MAX_UPLOAD_BYTES"     envDefault:"5242880"`
	CookieSecure     bool          `env:"COOKIE_SECURE"        envDefault:"false"`
	AdminEmail       string        `env:"ADMIN_EMAIL"`
	AdminPassword    string        `env:"ADMIN_PASSWORD"`
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.CORSOrigins = normalizeOrigins(cfg.CORSOrigins)
	if cfg.JWTTTLMinutes > 0 {
		cfg.JWTTTL = time.Duration(cfg.JWTTTLMinutes) * time.Minute
	} else {
		cfg.JWTTTL = 60 * time.Minute
	}

	if cfg.StorageDriver == DriverPostgres && cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func normalizeOrigins(in []string) []string {
	var out []string
	for _, part := range in {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
