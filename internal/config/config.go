package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// StartupMode controls when the database connection is established.
type StartupMode string

const (
	// StartupEager connects to the database during process start.
	StartupEager StartupMode = "eager"
	// StartupLazy defers the connection until the first request needs it.
	StartupLazy StartupMode = "lazy"
)

// Config holds the application configuration.
type Config struct {
	ServerPort int    `env:"PORT" envDefault:"8080"`
	MongoURI   string `env:"MONGO_URI,required"`
	MongoDB    string `env:"MONGO_DB" envDefault:"estate"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	AllowedOrigins []string    `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	Startup        StartupMode `env:"STARTUP_MODE" envDefault:"eager"`

	// Standard cron expression for the database health check.
	HealthCheckSchedule string `env:"HEALTH_CHECK_SCHEDULE" envDefault:"* * * * *"`

	// Redis is optional; an empty address disables the listing cache.
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"30s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
}

// Load reads a .env file if present and parses configuration from the
// environment.
func Load() (*Config, error) {
	// Missing .env is fine; system environment still applies.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.Startup != StartupEager && cfg.Startup != StartupLazy {
		return nil, fmt.Errorf("invalid STARTUP_MODE %q: must be %q or %q", cfg.Startup, StartupEager, StartupLazy)
	}

	return cfg, nil
}

// IsProduction reports whether the process runs with production settings.
// It controls the Secure flag on session cookies.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
