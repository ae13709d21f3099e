package config

// Config holds all configuration of the answers core.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Log      LogConfig      `mapstructure:"log" validate:"required"`
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// DatabaseConfig selects the storage backend.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite memory"`
	// URL is a PostgreSQL connection URL or an SQLite file path. The memory
	// driver ignores it.
	URL string `mapstructure:"url" validate:"required_unless=Driver memory"`
	// MaxOpenConns bounds the connection pool of relational drivers.
	MaxOpenConns int `mapstructure:"max_open_conns" validate:"gte=0"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}
