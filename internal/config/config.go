// Package config loads the server configuration from a YAML file with
// ACHIEVEMENTS_ environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. ACHIEVEMENTS_DATABASE_URL.
const EnvPrefix = "ACHIEVEMENTS"

// Config is the root configuration.
type Config struct {
	Logging       LoggingConfig       `mapstructure:"logging"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Data          DataConfig          `mapstructure:"data"`
	Engine        EngineConfig        `mapstructure:"engine"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Tracing       TracingConfig       `mapstructure:"tracing"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig selects the store.
type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	URL        string `mapstructure:"url"`
	MaxConns   int32  `mapstructure:"max_conns"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// DataConfig locates the definition data pack.
type DataConfig struct {
	PackPath string `mapstructure:"pack_path"`
}

// EngineConfig tunes evaluation and the realm loops.
type EngineConfig struct {
	RealmFirstKillWindow time.Duration `mapstructure:"realm_first_kill_window"`
	MaxModifierDepth     int           `mapstructure:"max_modifier_depth"`
	DisabledCriteria     []uint32      `mapstructure:"disabled_criteria"`
	TickInterval         time.Duration `mapstructure:"tick_interval"`
	SaveInterval         time.Duration `mapstructure:"save_interval"`
	SaveConcurrency      int           `mapstructure:"save_concurrency"`
}

// NotificationsConfig controls the websocket feed.
type NotificationsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
	Buffer  int    `mapstructure:"buffer"`
}

// TracingConfig controls OpenTelemetry export.
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

// DisabledSet returns the disabled criteria ids as a lookup set.
func (c EngineConfig) DisabledSet() map[uint32]bool {
	set := make(map[uint32]bool, len(c.DisabledCriteria))
	for _, id := range c.DisabledCriteria {
		set[id] = true
	}
	return set
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.sqlite_path", "data/achievements.db")

	v.SetDefault("data.pack_path", "data/achievements.yaml")

	v.SetDefault("engine.realm_first_kill_window", time.Minute)
	v.SetDefault("engine.max_modifier_depth", 32)
	v.SetDefault("engine.disabled_criteria", []uint32{})
	v.SetDefault("engine.tick_interval", 100*time.Millisecond)
	v.SetDefault("engine.save_interval", 30*time.Second)
	v.SetDefault("engine.save_concurrency", 4)

	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.address", ":8090")
	v.SetDefault("notifications.buffer", 256)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "http://localhost:4318")
	v.SetDefault("tracing.service_name", "achievement-server")
}

// Load reads path and applies environment overrides. An empty path uses
// defaults and the environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "postgres", "postgresql":
		if c.Database.URL == "" {
			errs = append(errs, errors.New("database.url is required for postgres"))
		}
	case "sqlite", "sqlite3":
		if c.Database.SQLitePath == "" {
			errs = append(errs, errors.New("database.sqlite_path is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not supported", c.Database.Driver))
	}
	if c.Data.PackPath == "" {
		errs = append(errs, errors.New("data.pack_path is required"))
	}
	if c.Engine.MaxModifierDepth <= 0 {
		errs = append(errs, errors.New("engine.max_modifier_depth must be positive"))
	}
	if c.Engine.TickInterval <= 0 || c.Engine.SaveInterval <= 0 {
		errs = append(errs, errors.New("engine intervals must be positive"))
	}
	if c.Engine.SaveConcurrency <= 0 {
		errs = append(errs, errors.New("engine.save_concurrency must be positive"))
	}
	if c.Notifications.Enabled && c.Notifications.Address == "" {
		errs = append(errs, errors.New("notifications.address is required when enabled"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
