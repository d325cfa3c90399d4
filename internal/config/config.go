package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Autosave  AutosaveConfig  `yaml:"autosave"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "stdio" or "http"
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

type DBConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "postgres"
	Path   string `yaml:"path"`   // sqlite file path
	DSN    string `yaml:"dsn"`    // postgres connection string
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type AutosaveConfig struct {
	DelayMS int `yaml:"delay_ms"`
}

// Delay returns the autosave quiet period.
func (a AutosaveConfig) Delay() time.Duration {
	return time.Duration(a.DelayMS) * time.Millisecond
}

// Load reads configuration from an optional .env file, an optional YAML
// file, and environment variables, in increasing precedence.
func Load() (Config, error) {
	// Missing .env is fine; it only exists in dev setups.
	_ = godotenv.Load()

	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		DB: DBConfig{
			Driver: "sqlite",
			Path:   "jobsite.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Autosave: AutosaveConfig{
			DelayMS: 600,
		},
	}

	if path := os.Getenv("JOBSITE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("JOBSITE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("JOBSITE_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid JOBSITE_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("JOBSITE_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if enabled := os.Getenv("JOBSITE_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return Config{}, fmt.Errorf("invalid JOBSITE_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	if driver := os.Getenv("JOBSITE_DB_DRIVER"); driver != "" {
		cfg.DB.Driver = driver
	}
	if dbPath := os.Getenv("JOBSITE_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if dsn := os.Getenv("JOBSITE_DB_DSN"); dsn != "" {
		cfg.DB.DSN = dsn
	}
	if level := os.Getenv("JOBSITE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if delayStr := os.Getenv("JOBSITE_AUTOSAVE_DELAY_MS"); delayStr != "" {
		delay, err := strconv.Atoi(delayStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid JOBSITE_AUTOSAVE_DELAY_MS: %w", err)
		}
		cfg.Autosave.DelayMS = delay
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("unknown transport mode %q", c.Transport.Mode)
	}
	switch c.DB.Driver {
	case "sqlite":
	case "postgres":
		if c.DB.DSN == "" {
			return fmt.Errorf("db driver postgres requires a dsn")
		}
	default:
		return fmt.Errorf("unknown db driver %q", c.DB.Driver)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
