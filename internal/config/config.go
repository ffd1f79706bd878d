// Package config loads and validates application configuration.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Study    StudyConfig    `mapstructure:"study"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// Driver selects the persistence backend: "postgres" for the cloud store,
// "sqlite" for the local store. URL is a postgres connection string or a
// sqlite file path respectively.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	URL    string `mapstructure:"url"    validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret           string `mapstructure:"jwt_secret"            validate:"required,min=32"`
	TokenLifetimeMins   int    `mapstructure:"token_lifetime_mins"   validate:"required,gt=0"`
	RefreshLifetimeMins int    `mapstructure:"refresh_lifetime_mins" validate:"required,gt=0"`
}

// StudyConfig tunes the scheduling engine. Zero values fall back to the
// algorithm defaults; the weight vector itself is not exposed here.
type StudyConfig struct {
	DesiredRetention   float64 `mapstructure:"desired_retention"    validate:"omitempty,gt=0,lte=1"`
	MaximumIntervalDay int     `mapstructure:"maximum_interval_days" validate:"omitempty,gte=1"`
}
