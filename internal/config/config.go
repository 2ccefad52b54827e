package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/daap14/teamcap/internal/database"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL    string `envconfig:"DATABASE_URL" required:"true"`
	Version        string `envconfig:"VERSION" default:"dev"`
	BcryptCost     int    `envconfig:"BCRYPT_COST" default:"12"`
	AuthRateLimit  int    `envconfig:"AUTH_RATE_LIMIT" default:"20"`
	MigrateOnStart bool   `envconfig:"MIGRATE_ON_START" default:"true"`

	// Zero pool settings keep what DATABASE_URL or pgx defaults provide.
	DBMaxConns        int32         `envconfig:"DB_MAX_CONNS" default:"0"`
	DBMinConns        int32         `envconfig:"DB_MIN_CONNS" default:"0"`
	DBMaxConnIdleTime time.Duration `envconfig:"DB_MAX_CONN_IDLE_TIME" default:"0s"`

	// SweepInterval of zero disables the backup code sweeper.
	SweepInterval       time.Duration `envconfig:"SWEEP_INTERVAL" default:"1h"`
	BackupCodeRetention time.Duration `envconfig:"BACKUP_CODE_RETENTION" default:"720h"`
}

// Load reads configuration from environment variables into a Config struct.
// The database URL is normalized so that it always carries an sslmode.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.AuthRateLimit <= 0 {
		return nil, fmt.Errorf("AUTH_RATE_LIMIT must be positive, got %d", cfg.AuthRateLimit)
	}
	if cfg.SweepInterval < 0 {
		return nil, fmt.Errorf("SWEEP_INTERVAL must not be negative, got %s", cfg.SweepInterval)
	}
	cfg.DatabaseURL = database.NormalizeURL(cfg.DatabaseURL)
	return &cfg, nil
}

// Pool returns the connection pool settings.
func (c *Config) Pool() database.PoolOptions {
	return database.PoolOptions{
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnIdleTime: c.DBMaxConnIdleTime,
	}
}
