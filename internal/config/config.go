// Package config loads studyflow settings from defaults, an optional YAML file
// and STUDYFLOW_* environment variables, in increasing order of precedence.
package config

// Config holds all application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Log     LogConfig     `mapstructure:"log" validate:"required"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend string      `mapstructure:"backend" validate:"required,oneof=sqlite redis"`
	Path    string      `mapstructure:"path" validate:"required_if=Backend sqlite"`
	Redis   RedisConfig `mapstructure:"redis"`
}

// RedisConfig is used when Backend is "redis".
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0,lte=15"`
	Prefix   string `mapstructure:"prefix"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=console json"`
}
