package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/choreclock/internal/clock"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. CHORECLOCK_SERVER_PORT.
const EnvPrefix = "CHORECLOCK"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.choreclock")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only applies to keys viper already knows; bind the ones
	// without defaults explicitly.
	if err := v.BindEnv("database.url"); err != nil {
		return nil, fmt.Errorf("error binding database.url: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("store.driver", DriverFile)
	v.SetDefault("store.file_path", "choreclock.json")
	v.SetDefault("store.key", "household")
	v.SetDefault("scheduler.poll_interval", "30m")
	v.SetDefault("scheduler.timezone", "Local")
	v.SetDefault("scheduler.history_limit", 500)
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.suppress_ttl", "24h")
}

// Validate checks struct tags plus the rules that span several sections.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Store.Driver == DriverPostgres && cfg.Database.URL == "" {
		return fmt.Errorf("config validation failed: database.url is required for the %s store", DriverPostgres)
	}

	if _, err := clock.LoadLocation(cfg.Scheduler.Timezone); err != nil {
		return fmt.Errorf("config validation failed: scheduler.timezone: %w", err)
	}

	return nil
}
