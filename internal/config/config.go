// Package config provides configuration for chessboard-go.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/lgbarn/chessboard-go/internal/errors"
)

// LogFormat selects how log lines are rendered.
type LogFormat string

const (
	ConsoleLog LogFormat = "console" // Human readable, for terminals
	JSONLog    LogFormat = "json"    // One JSON object per line
)

// StoreConfig holds settings for board persistence.
type StoreConfig struct {
	// Dir is the save directory; boards live at <Dir>/<name>.txt.
	Dir string `yaml:"dir"`
}

// ServerConfig holds settings for the HTTP server.
type ServerConfig struct {
	// Listen is the TCP address to serve on.
	Listen string `yaml:"listen"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxGames caps concurrently open game sessions (0 = unlimited).
	MaxGames int `yaml:"max_games"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string    `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Config holds all program configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Dir: "save",
		},
		Server: ServerConfig{
			Listen:          ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: ConsoleLog,
		},
	}
}

// Load reads a YAML config file on top of the defaults. Keys missing from
// the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	return Parse(data)
}

// Parse decodes YAML config data on top of the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%v: %w", err, errors.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validLevels lists the accepted log level names.
var validLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true,
	"error": true, "fatal": true, "panic": true, "disabled": true,
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Store.Dir) == "" {
		problems = append(problems, "store.dir must not be empty")
	}
	if c.Server.Listen == "" {
		problems = append(problems, "server.listen must not be empty")
	}
	if c.Server.ShutdownTimeout < 0 {
		problems = append(problems, "server.shutdown_timeout must not be negative")
	}
	if c.Server.MaxGames < 0 {
		problems = append(problems, "server.max_games must not be negative")
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		problems = append(problems, fmt.Sprintf("log.level %q is unknown", c.Log.Level))
	}
	if c.Log.Format != ConsoleLog && c.Log.Format != JSONLog {
		problems = append(problems, fmt.Sprintf("log.format %q must be console or json", c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s: %w", strings.Join(problems, "; "), errors.ErrInvalidConfig)
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
