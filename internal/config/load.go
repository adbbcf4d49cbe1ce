package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory, applies defaults, and validates the
// result. Environment variables use the MURMUR_ prefix with underscores for
// nesting, e.g. MURMUR_DATABASE_URL, MURMUR_AUTH_JWT_SECRET.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 3001)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.token_lifetime_minutes", 0)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl_seconds", 60)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MURMUR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Viper's AutomaticEnv does not bind env vars for keys absent from both
	// defaults and the config file, so the required keys are bound explicitly.
	for _, key := range []string{"database.url", "auth.jwt_secret"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env var for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; env vars and defaults cover everything.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks the loaded configuration against the struct tags and
// reports all violations in one error.
func validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			problems := make([]string, 0, len(validationErrors))
			for _, fieldErr := range validationErrors {
				problems = append(problems, fmt.Sprintf(
					"%s failed on the '%s' rule",
					fieldErr.Namespace(),
					fieldErr.Tag(),
				))
			}
			return fmt.Errorf("config validation failed: %s", strings.Join(problems, "; "))
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
