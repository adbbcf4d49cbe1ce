package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes controls how long issued tokens remain valid.
	// Zero issues tokens without an expiry claim.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"gte=0"`
}

// CacheConfig contains settings for the optional Redis feed cache.
// The cache is disabled when RedisAddr is empty.
type CacheConfig struct {
	RedisAddr  string `mapstructure:"redis_addr"`
	TTLSeconds int    `mapstructure:"ttl_seconds" validate:"gte=0"`
}
