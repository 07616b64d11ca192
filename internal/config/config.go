package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Server struct {
		Addr            string        `yaml:"addr" env:"HTTP_ADDR" env-default:"0.0.0.0:8080"`
		Env             string        `yaml:"env" env:"APP_ENV" env-default:"development"`
		SecretKey       string        `yaml:"secret_key" env:"SECRET_KEY" env-default:"dev"`
		SessionTTL      time.Duration `yaml:"session_ttl" env:"SESSION_TTL" env-default:"24h"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"30s"`
		AllowedOrigins  []string      `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
	} `yaml:"server"`

	Storage string `yaml:"storage" env:"STORAGE" env-default:"postgres"`

	Postgres struct {
		Host        string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
		Port        string `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
		User        string `yaml:"user" env:"POSTGRES_USER" env-default:"postgres"`
		Password    string `yaml:"password" env:"POSTGRES_PASSWORD"`
		DB          string `yaml:"db" env:"POSTGRES_DB" env-default:"webapps"`
		SSLMode     string `yaml:"sslmode" env:"POSTGRES_SSLMODE" env-default:"disable"`
		AutoMigrate bool   `yaml:"auto_migrate" env:"AUTO_MIGRATE" env-default:"true"`
	} `yaml:"postgres"`

	Log struct {
		Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
		Format string `yaml:"format" env:"LOG_FORMAT" env-default:"console"`
	} `yaml:"log"`

	Calculator struct {
		MaxExpressionLength int `yaml:"max_expression_length" env:"CALC_MAX_EXPRESSION_LENGTH" env-default:"1024"`
	} `yaml:"calculator"`

	// An empty schedule disables the in-process recount job.
	VoteTallySchedule string `yaml:"vote_tally_schedule" env:"VOTE_TALLY_SCHEDULE" env-default:"@every 10m"`
}

// Load reads .env when present, then the optional file named by CONFIG_PATH,
// then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE %q, want %q or %q", c.Storage, StoragePostgres, StorageMemory)
	}
	if c.Server.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY must not be empty")
	}
	// Credentialed CORS responses may not use a wildcard origin.
	for _, origin := range c.Server.AllowedOrigins {
		if strings.Contains(origin, "*") {
			return fmt.Errorf("CORS_ALLOWED_ORIGINS must list explicit origins, got %q", origin)
		}
	}
	if c.Calculator.MaxExpressionLength <= 0 {
		return fmt.Errorf("CALC_MAX_EXPRESSION_LENGTH must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// PostgresDSN builds a lib/pq connection URL.
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Postgres.User, c.Postgres.Password),
		Host:     c.Postgres.Host + ":" + c.Postgres.Port,
		Path:     "/" + c.Postgres.DB,
		RawQuery: "sslmode=" + url.QueryEscape(c.Postgres.SSLMode),
	}
	return u.String()
}
