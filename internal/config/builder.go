package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances.
type ConfigBuilder struct {
	cfg *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: NewConfig(),
	}
}

// From starts the builder from an existing Config instead of the defaults.
// The Config is copied.
func From(cfg *Config) *ConfigBuilder {
	c := *cfg
	return &ConfigBuilder{cfg: &c}
}

// Build returns the built Config.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

// WithSaveDir sets the save directory. Empty values are ignored.
func (b *ConfigBuilder) WithSaveDir(dir string) *ConfigBuilder {
	if dir != "" {
		b.cfg.Store.Dir = dir
	}
	return b
}

// WithListen sets the server listen address. Empty values are ignored.
func (b *ConfigBuilder) WithListen(addr string) *ConfigBuilder {
	if addr != "" {
		b.cfg.Server.Listen = addr
	}
	return b
}

// WithShutdownTimeout sets the graceful shutdown bound.
func (b *ConfigBuilder) WithShutdownTimeout(d time.Duration) *ConfigBuilder {
	b.cfg.Server.ShutdownTimeout = d
	return b
}

// WithMaxGames caps the number of open sessions.
func (b *ConfigBuilder) WithMaxGames(n int) *ConfigBuilder {
	b.cfg.Server.MaxGames = n
	return b
}

// WithLogLevel sets the log level. Empty values are ignored.
func (b *ConfigBuilder) WithLogLevel(level string) *ConfigBuilder {
	if level != "" {
		b.cfg.Log.Level = level
	}
	return b
}

// WithLogFormat sets the log format. Empty values are ignored.
func (b *ConfigBuilder) WithLogFormat(format LogFormat) *ConfigBuilder {
	if format != "" {
		b.cfg.Log.Format = format
	}
	return b
}
