// Package config loads application settings and level policies.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Store   StoreConfig   `mapstructure:"store"`
	Log     LogConfig     `mapstructure:"log" validate:"required"`
	Policy  PolicyConfig  `mapstructure:"policy"`
	Session SessionConfig `mapstructure:"session" validate:"required"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// StoreConfig locates the SQLite database. An empty path means the
// default data directory.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// PolicyConfig points at a YAML policy document. Empty means built-in defaults.
type PolicyConfig struct {
	File string `mapstructure:"file" validate:"omitempty,file"`
}

// SessionConfig tunes session planning. The 300-sentence gate is fixed.
type SessionConfig struct {
	DefaultLimit int `mapstructure:"default_limit" validate:"gt=0,lte=100"`
}
