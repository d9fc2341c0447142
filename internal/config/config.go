package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Likes backends.
const (
	LikesMemory   = "memory"
	LikesFile     = "file"
	LikesRedis    = "redis"
	LikesPostgres = "postgres"
	LikesSQLite   = "sqlite"
)

// Config holds the server settings.
type Config struct {
	Environment    string        `toml:"environment"`
	ServerAddress  string        `toml:"server_address"`
	APIBaseURL     string        `toml:"api_base_url"`
	SecretKey      string        `toml:"secret_key"`
	RequestTimeout time.Duration `toml:"-"`
	LogLevel       string        `toml:"log_level"`

	LikesBackend   string `toml:"likes_backend"`
	LikesPath      string `toml:"likes_path"`
	DatabaseURL    string `toml:"database_url"`
	MigrationsPath string `toml:"migrations_path"`

	RedisAddress  string `toml:"redis_address"`
	RedisUsername string `toml:"redis_username"`
	RedisPassword string `toml:"redis_password"`

	MQTTBroker   string `toml:"mqtt_broker"`
	MQTTClientID string `toml:"mqtt_client_id"`

	CatalogTTL time.Duration `toml:"-"`
}

func defaults() *Config {
	return &Config{
		Environment:    "production",
		ServerAddress:  ":8080",
		RequestTimeout: 15 * time.Second,
		LogLevel:       "info",
		LikesBackend:   LikesFile,
		LikesPath:      "./data/likes",
		MQTTClientID:   "tilawat",
		CatalogTTL:     30 * time.Minute,
	}
}

// Load reads .env (if present), then the TOML file named by CONFIG_FILE
// (if set), then environment variables, each overriding the previous.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.readEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	var durations struct {
		RequestTimeout string `toml:"request_timeout"`
		CatalogTTL     string `toml:"catalog_ttl"`
	}
	if err := toml.Unmarshal(data, &durations); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if c.RequestTimeout, err = duration("request_timeout", durations.RequestTimeout, c.RequestTimeout); err != nil {
		return err
	}
	if c.CatalogTTL, err = duration("catalog_ttl", durations.CatalogTTL, c.CatalogTTL); err != nil {
		return err
	}
	return nil
}

func (c *Config) readEnv() error {
	str := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	str(&c.Environment, "APP_ENV")
	str(&c.ServerAddress, "SERVER_ADDRESS")
	str(&c.APIBaseURL, "API_BASE_URL")
	str(&c.SecretKey, "SECRET_KEY")
	str(&c.LogLevel, "LOG_LEVEL")
	str(&c.LikesBackend, "LIKES_BACKEND")
	str(&c.LikesPath, "LIKES_PATH")
	str(&c.DatabaseURL, "DATABASE_URL")
	str(&c.MigrationsPath, "MIGRATIONS_PATH")
	str(&c.RedisAddress, "REDIS_ADDRESS")
	str(&c.RedisUsername, "REDIS_USERNAME")
	str(&c.RedisPassword, "REDIS_PASSWORD")
	str(&c.MQTTBroker, "MQTT_BROKER")
	str(&c.MQTTClientID, "MQTT_CLIENT_ID")

	var err error
	if c.RequestTimeout, err = duration("REQUEST_TIMEOUT", os.Getenv("REQUEST_TIMEOUT"), c.RequestTimeout); err != nil {
		return err
	}
	if c.CatalogTTL, err = duration("CATALOG_TTL", os.Getenv("CATALOG_TTL"), c.CatalogTTL); err != nil {
		return err
	}
	return nil
}

// duration parses a Go duration or a number of seconds; empty keeps def.
func duration(name, v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", name, v)
	}
	return d, nil
}

func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	switch c.LikesBackend {
	case LikesMemory:
	case LikesFile:
		if c.LikesPath == "" {
			return errors.New("LIKES_PATH is required for the file likes backend")
		}
	case LikesRedis:
		if c.RedisAddress == "" {
			return errors.New("REDIS_ADDRESS is required for the redis likes backend")
		}
	case LikesPostgres, LikesSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s likes backend", c.LikesBackend)
		}
	default:
		return fmt.Errorf("unknown likes backend %q", c.LikesBackend)
	}
	return nil
}

func (c *Config) Development() bool { return c.Environment == "development" }
