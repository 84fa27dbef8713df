package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mchmarny/toolbar/pkg/server"
)

// Environment variables overriding the file settings.
const (
	EnvPort     = "TOOLBAR_PORT"
	EnvDatabase = "TOOLBAR_DB"
	EnvLocales  = "TOOLBAR_LOCALES"
	EnvLogLevel = "LOG_LEVEL"
)

// Config holds the toolbard configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	I18n    I18nConfig    `yaml:"i18n"`
	Assets  AssetsConfig  `yaml:"assets"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port            int    `yaml:"port"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	CertFile        string `yaml:"cert_file"`
	KeyFile         string `yaml:"key_file"`
}

// StoreConfig selects the mailbox store.
type StoreConfig struct {
	// Driver is "memory" or "sqlite".
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	// Seed loads demo subjects and messages on startup.
	Seed bool `yaml:"seed"`
}

// I18nConfig configures translations.
type I18nConfig struct {
	DefaultLocale string `yaml:"default_locale"`
	// Dir holds extra <locale>.yaml files loaded on top of the built-in ones.
	Dir string `yaml:"dir"`
}

// AssetsConfig configures links and images of the menu.
type AssetsConfig struct {
	BasePath  string `yaml:"base_path"`
	ImagePath string `yaml:"image_path"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            server.DefaultPort,
			ShutdownTimeout: server.DefaultShutdownTimeout.String(),
		},
		Store: StoreConfig{
			Driver: "memory",
			Seed:   true,
		},
		I18n: I18nConfig{
			DefaultLocale: "en",
		},
		Assets: AssetsConfig{
			ImagePath: "/images",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path over the defaults and applies environment overrides.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Server.Port = port
	}

	if v := os.Getenv(EnvDatabase); v != "" {
		c.Store.Driver = "sqlite"
		c.Store.DSN = v
	}

	if v := os.Getenv(EnvLocales); v != "" {
		c.I18n.Dir = v
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}

	return nil
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}

	if _, err := c.ShutdownTimeout(); err != nil {
		return err
	}

	switch c.Store.Driver {
	case "memory":
	case "sqlite":
		if c.Store.DSN == "" {
			return fmt.Errorf("store dsn is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if (c.Server.CertFile == "") != (c.Server.KeyFile == "") {
		return fmt.Errorf("cert_file and key_file must be set together")
	}

	return nil
}

// ShutdownTimeout parses Server.ShutdownTimeout, the server default when empty.
func (c *Config) ShutdownTimeout() (time.Duration, error) {
	if c.Server.ShutdownTimeout == "" {
		return server.DefaultShutdownTimeout, nil
	}

	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid shutdown_timeout: %w", err)
	}

	return d, nil
}
