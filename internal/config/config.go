// Package config loads toyrobot settings from defaults, an optional YAML file and
// TOYROBOT_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config is the full toyrobot configuration.
type Config struct {
	GridSize int          `mapstructure:"grid_size" env:"TOYROBOT_GRID_SIZE"`
	Server   ServerConfig `mapstructure:"server"`
	Store    StoreConfig  `mapstructure:"store"`
	Client   ClientConfig `mapstructure:"client"`
	Log      LogConfig    `mapstructure:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port            int           `mapstructure:"port" env:"TOYROBOT_PORT"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" env:"TOYROBOT_SHUTDOWN_TIMEOUT"`
}

// StoreConfig selects and configures the position log backend.
type StoreConfig struct {
	Driver string      `mapstructure:"driver" env:"TOYROBOT_STORE"`
	Path   string      `mapstructure:"path" env:"TOYROBOT_STORE_PATH"`
	Redis  RedisConfig `mapstructure:"redis"`
}

// RedisConfig is used when Store.Driver is "redis".
type RedisConfig struct {
	Addr     string `mapstructure:"addr" env:"TOYROBOT_REDIS_ADDR"`
	Password string `mapstructure:"password" env:"TOYROBOT_REDIS_PASSWORD"`
	DB       int    `mapstructure:"db" env:"TOYROBOT_REDIS_DB"`
	Prefix   string `mapstructure:"prefix" env:"TOYROBOT_REDIS_PREFIX"`
	// Lock serializes appends across server replicas.
	Lock bool `mapstructure:"lock" env:"TOYROBOT_REDIS_LOCK"`
}

// ClientConfig configures the interactive client.
type ClientConfig struct {
	ServerURL string        `mapstructure:"server_url" env:"TOYROBOT_SERVER_URL"`
	Timeout   time.Duration `mapstructure:"timeout" env:"TOYROBOT_CLIENT_TIMEOUT"`
}

// LogConfig configures internal/logging.
type LogConfig struct {
	Level  string `mapstructure:"level" env:"TOYROBOT_LOG_LEVEL"`
	Format string `mapstructure:"format" env:"TOYROBOT_LOG_FORMAT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		GridSize: 5,
		Server: ServerConfig{
			Port:            3000,
			ShutdownTimeout: 5 * time.Second,
		},
		Store: StoreConfig{
			Driver: DriverSQLite,
			Path:   "toyrobot.db",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "toyrobot:position:",
			},
		},
		Client: ClientConfig{
			ServerURL: "http://localhost:3000",
			Timeout:   5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when path is empty)
// and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeYAML overlays the document onto cfg. Keys absent from the document keep their value.
func decodeYAML(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// Validate checks the values that would otherwise fail late.
func (c Config) Validate() error {
	var errs []error

	if c.GridSize < 1 {
		errs = append(errs, fmt.Errorf("grid_size must be positive, got %d", c.GridSize))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	switch c.Store.Driver {
	case DriverMemory, DriverRedis:
	case DriverSQLite:
		if c.Store.Path == "" {
			errs = append(errs, errors.New("store.path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q (want memory, sqlite or redis)", c.Store.Driver))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}
