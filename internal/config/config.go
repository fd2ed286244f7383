// Package config loads elhem settings from YAML with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fentz26/elhem/internal/store"
)

// Config holds all elhem settings.
type Config struct {
	// DataDir is where the fs driver keeps one JSON file per collection.
	DataDir   string          `yaml:"data_dir"`
	Store     StoreConfig     `yaml:"store"`
	Server    ServerConfig    `yaml:"server"`
	Assistant AssistantConfig `yaml:"assistant"`
	Log       LogConfig       `yaml:"log"`
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	// Driver is one of fs, memory, sqlite, postgres, s3.
	Driver      string   `yaml:"driver"`
	SQLitePath  string   `yaml:"sqlite_path,omitempty"`
	PostgresDSN string   `yaml:"postgres_dsn,omitempty"`
	S3          S3Config `yaml:"s3,omitempty"`
}

// S3Config configures the s3 driver. Credentials come from the default AWS
// chain unless ELHEM_S3_ACCESS_KEY_ID and ELHEM_S3_SECRET_ACCESS_KEY are set.
type S3Config struct {
	Bucket    string `yaml:"bucket,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	PathStyle bool   `yaml:"path_style,omitempty"`

	accessKeyID     string
	secretAccessKey string
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// AssistantConfig is served verbatim by GET /config.
type AssistantConfig struct {
	BotPersonality string `yaml:"bot_personality" json:"botPersonality"`
	SystemName     string `yaml:"system_name" json:"systemName"`
	Version        string `yaml:"version" json:"version"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`
	// Format is json or console.
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "data",
		Store:   StoreConfig{Driver: string(store.DriverFilesystem)},
		Server:  ServerConfig{Listen: "127.0.0.1:3000"},
		Assistant: AssistantConfig{
			BotPersonality: "friendly",
			SystemName:     "إلهام",
			Version:        "1.0.0",
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// DefaultPath returns ~/.elhem/config.yaml, or "" if the home directory is
// unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".elhem", "config.yaml")
}

// Load reads configuration from a YAML file and applies environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories if needed.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	set := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	set("ELHEM_DATA_DIR", &c.DataDir)
	set("ELHEM_STORE_DRIVER", &c.Store.Driver)
	set("ELHEM_SQLITE_PATH", &c.Store.SQLitePath)
	set("ELHEM_POSTGRES_DSN", &c.Store.PostgresDSN)
	set("ELHEM_S3_BUCKET", &c.Store.S3.Bucket)
	set("ELHEM_S3_REGION", &c.Store.S3.Region)
	set("ELHEM_S3_ENDPOINT", &c.Store.S3.Endpoint)
	set("ELHEM_S3_PREFIX", &c.Store.S3.Prefix)
	set("ELHEM_S3_ACCESS_KEY_ID", &c.Store.S3.accessKeyID)
	set("ELHEM_S3_SECRET_ACCESS_KEY", &c.Store.S3.secretAccessKey)
	set("ELHEM_LISTEN", &c.Server.Listen)
	set("ELHEM_LOG_LEVEL", &c.Log.Level)
	set("ELHEM_LOG_FORMAT", &c.Log.Format)

	if v, ok := os.LookupEnv("ELHEM_S3_PATH_STYLE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ELHEM_S3_PATH_STYLE: %w", err)
		}
		c.Store.S3.PathStyle = b
	}
	// PORT keeps the host and replaces the port, as hosting platforms set it.
	if port, ok := os.LookupEnv("PORT"); ok && port != "" {
		host := "0.0.0.0"
		if i := strings.LastIndex(c.Server.Listen, ":"); i >= 0 && c.Server.Listen[:i] != "" {
			host = c.Server.Listen[:i]
		}
		c.Server.Listen = host + ":" + port
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch store.Driver(c.Store.Driver) {
	case store.DriverFilesystem:
		if c.DataDir == "" {
			return fmt.Errorf("data_dir is required for the fs driver")
		}
	case store.DriverMemory, store.DriverSQLite:
	case store.DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("store.postgres_dsn is required for the postgres driver")
		}
	case store.DriverS3:
		if c.Store.S3.Bucket == "" {
			return fmt.Errorf("store.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("invalid store driver %q, must be: fs, memory, sqlite, postgres, or s3", c.Store.Driver)
	}

	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level %q, must be: debug, info, warn, or error", c.Log.Level)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("invalid log format %q, must be: json or console", c.Log.Format)
	}
	return nil
}

// StoreOptions converts the store settings for store.Open. The sqlite
// database defaults to elhem.db inside DataDir.
func (c *Config) StoreOptions() store.Options {
	sqlitePath := c.Store.SQLitePath
	if sqlitePath == "" {
		sqlitePath = filepath.Join(c.DataDir, "elhem.db")
	}
	return store.Options{
		Driver:      store.Driver(c.Store.Driver),
		Dir:         c.DataDir,
		SQLitePath:  sqlitePath,
		PostgresDSN: c.Store.PostgresDSN,
		S3: store.S3Config{
			Bucket:          c.Store.S3.Bucket,
			Region:          c.Store.S3.Region,
			Endpoint:        c.Store.S3.Endpoint,
			Prefix:          c.Store.S3.Prefix,
			PathStyle:       c.Store.S3.PathStyle,
			AccessKeyID:     c.Store.S3.accessKeyID,
			SecretAccessKey: c.Store.S3.secretAccessKey,
		},
	}
}
