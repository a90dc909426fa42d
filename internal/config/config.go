package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/localrivet/configurator"

	"github.com/localrivet/hrdesk/internal/logger"
)

// Config represents the HRDesk configuration
type Config struct {
	// Server contains MCP server configuration.
	Server struct {
		// Name is the name the MCP server announces to clients.
		Name string `json:"name" env:"SERVER_NAME" validate:"required"`
	} `json:"server"`

	// Store contains storage-related configuration.
	Store struct {
		// SQLitePath is the path to the SQLite database file. Empty keeps all
		// state in memory.
		SQLitePath string `json:"sqlite_path" env:"SQLITE_PATH"`
	} `json:"store"`

	// Logging contains logging-related configuration.
	Logging struct {
		// Level is the minimum log level to display ("debug", "info", "warn", "error").
		Level string `json:"level" env:"LOG_LEVEL" validate:"required"`

		// Format is the log format to use ("text", "json").
		Format string `json:"format" env:"LOG_FORMAT"`
	} `json:"logging"`

	// Metrics contains the ops HTTP configuration.
	Metrics struct {
		// Addr is the listen address of the ops HTTP server. Empty disables it.
		Addr string `json:"addr" env:"METRICS_ADDR"`
	} `json:"metrics"`

	// Internal state (not saved to config file)
	configPath     string       `json:"-"`
	mutex          sync.RWMutex `json:"-"`
	lastModifiedAt time.Time    `json:"-"`
}

// Default configuration values
const (
	DefaultConfigFilename = ".hrdeskconfig"
	DefaultServerName     = "hr-desk"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	EnvPrefix             = "HRDESK"
)

// NewConfig creates a new Config instance with default values
func NewConfig() *Config {
	config := &Config{}
	config.Server.Name = DefaultServerName
	config.Logging.Level = DefaultLogLevel
	config.Logging.Format = DefaultLogFormat
	return config
}

// LoadConfig loads the configuration from the default path
func LoadConfig() (*Config, error) {
	return LoadConfigWithPath(DefaultConfigFilename)
}

// LoadConfigWithPath loads the configuration from a specific path. A missing
// file leaves the defaults in place; environment variables prefixed with
// HRDESK_ apply either way.
func LoadConfigWithPath(configPath string) (*Config, error) {
	// stdout belongs to the MCP transport
	stdLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := NewConfig()

	// Try to find config file if path is default
	if configPath == DefaultConfigFilename {
		foundPath, err := configurator.FindConfigFile(configPath)
		if err == nil {
			configPath = foundPath
			stdLogger.Debug("Found config file at " + foundPath)
		}
	}

	config := configurator.New(stdLogger).
		WithProvider(configurator.NewDefaultProvider())

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		stdLogger.Info("Config file not found, using default configuration", "path", configPath)
	} else {
		stdLogger.Info("Loading configuration", "path", configPath)
		config = config.WithProvider(configurator.NewFileProvider(configPath))
	}

	config = config.
		WithProvider(configurator.NewEnvProvider(EnvPrefix)).
		WithValidator(configurator.NewDefaultValidator())

	if err := config.Load(context.Background(), cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.configPath = configPath
	cfg.lastModifiedAt = time.Now()

	return cfg, nil
}

// SaveToFile saves the configuration to the specified file
func (c *Config) SaveToFile(path string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	// Create directory if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Save using configurator's SaveToFile function
	if err := configurator.SaveToFile(c, path, configurator.FormatJSON); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	c.configPath = path
	c.lastModifiedAt = time.Now()

	return nil
}

// Save saves the configuration to the last used file path
func (c *Config) Save() error {
	if c.configPath == "" {
		c.configPath = DefaultConfigFilename
	}
	return c.SaveToFile(c.configPath)
}

// GetConfigPath returns the path of the currently loaded configuration file
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// Persistent reports whether state is kept in a SQLite file.
func (c *Config) Persistent() bool {
	return c.Store.SQLitePath != ""
}

// GetLoggerFromConfig creates a slog logger based on the configuration
func GetLoggerFromConfig(cfg *Config) *slog.Logger {
	return logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format)
}
