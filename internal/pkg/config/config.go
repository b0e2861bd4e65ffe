package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// DevSecret signs tokens when JWT_SECRET is unset outside production.
// Anyone who reads this file can forge tokens for such a deployment.
const DevSecret = "dev-insecure-jwt-secret-change-me"

const EnvProduction = "production"

var ErrMissingSecret = errors.New("config: JWT_SECRET is required in production")

type Config struct {
	Port      string `env:"PORT,      default=4000"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Hash HashConfig
	HTTP HTTPConfig
}

type HashConfig struct {
	Algorithm  string `env:"HASH_ALGORITHM, default=bcrypt"`
	BcryptCost int    `env:"BCRYPT_COST,    default=10"`
}

type HTTPConfig struct {
	CORSOrigins     []string      `env:"CORS_ORIGINS,     default=*"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
}

// IsProduction reports whether the service runs with production guarantees.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// SigningSecret returns the token signing secret. Production requires an
// explicit JWT_SECRET; elsewhere DevSecret is used and fallback is true.
func (c *Config) SigningSecret() (secret string, fallback bool, err error) {
	if c.JWTSecret != "" {
		return c.JWTSecret, false, nil
	}
	if c.IsProduction() {
		return "", false, ErrMissingSecret
	}
	return DevSecret, true, nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from an arbitrary lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
