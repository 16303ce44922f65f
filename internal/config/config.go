package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server        ServerConfig        `mapstructure:"server" validate:"required"`
	Store         StoreConfig         `mapstructure:"store" validate:"required"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Scheduler     SchedulerConfig     `mapstructure:"scheduler" validate:"required"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// StoreConfig selects where the household snapshot is persisted.
type StoreConfig struct {
	Driver   string `mapstructure:"driver" validate:"required,oneof=memory file postgres"`
	FilePath string `mapstructure:"file_path" validate:"required_if=Driver file"`
	// Key names the snapshot row when several households share one database.
	Key string `mapstructure:"key" validate:"required"`
}

// DatabaseConfig is only required by the postgres driver.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// SchedulerConfig controls the polling loop and the reset engine.
// Timezone is an IANA name or "Local"; every calendar decision uses it.
type SchedulerConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"gt=0"`
	Timezone     string        `mapstructure:"timezone" validate:"required"`
	HistoryLimit int           `mapstructure:"history_limit" validate:"gte=0"`
}

// NotificationsConfig controls pre-due notification delivery.
type NotificationsConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	SuppressTTL time.Duration `mapstructure:"suppress_ttl" validate:"gt=0"`
}
