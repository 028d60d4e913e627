package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type DatabaseDriver string

const (
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
)

type CacheType string

const (
	CacheTypeMemory CacheType = "memory"
	CacheTypeRedis  CacheType = "redis"
)

type SessionMode string

const (
	// SessionModeGlobal shares a single active user between all clients.
	SessionModeGlobal SessionMode = "global"
	// SessionModeCookie keeps the active user per browser in a signed cookie.
	SessionModeCookie SessionMode = "cookie"
)

// Config holds the configuration for the familytravel server and its dependencies.
type Config struct {
	// Listen is the address the server will listen on.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// Port overrides the port of Listen if set (PORT env var of the original deployment).
	Port int `yaml:"port" mapstructure:"port"`
	// DefaultUserID is the user that is active after the server starts.
	DefaultUserID int64 `yaml:"default_user_id" mapstructure:"default_user_id"`
	// Session holds the active user session configuration.
	Session *SessionConfig `yaml:"session" mapstructure:"session"`
	// Database holds the database configuration.
	Database *DatabaseConfig `yaml:"database" mapstructure:"database"`
	// Cache holds the cache engine configuration.
	Cache *CacheConfig `yaml:"cache" mapstructure:"cache"`
}

// SessionConfig controls how the active user is tracked.
type SessionConfig struct {
	// Mode is either "global" (one active user for everyone) or "cookie" (per browser).
	Mode SessionMode `yaml:"mode" mapstructure:"mode"`
	// Key is the key used to sign session cookies. Only used in cookie mode.
	Key string `yaml:"key" mapstructure:"key"`
	// MaxAge is the maximum age of a session cookie in seconds.
	MaxAge int `yaml:"max_age" mapstructure:"max_age"`
}

// DatabaseConfig holds the database configuration.
type DatabaseConfig struct {
	// Driver selects the store implementation ("sqlite" or "postgres").
	Driver DatabaseDriver `yaml:"driver" mapstructure:"driver"`
	// Path is the path to the sqlite database file.
	Path string `yaml:"path" mapstructure:"path"`
	// URL is a full postgres connection string. Takes precedence over the individual fields.
	URL string `yaml:"url" mapstructure:"url"`
	// Host is the postgres host.
	Host string `yaml:"host" mapstructure:"host"`
	// Port is the postgres port.
	Port int `yaml:"port" mapstructure:"port"`
	// User is the postgres user.
	User string `yaml:"user" mapstructure:"user"`
	// Password is the postgres password.
	Password string `yaml:"password" mapstructure:"password"`
	// Name is the postgres database name.
	Name string `yaml:"name" mapstructure:"name"`
	// SSLMode is passed as sslmode to postgres.
	SSLMode string `yaml:"sslmode" mapstructure:"sslmode"`
	// MaxConns limits the size of the postgres connection pool.
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
}

// CacheConfig holds the configuration for the cache engine.
type CacheConfig struct {
	// Type is the type of cache engine to use (e.g., "memory", "redis").
	Type CacheType `yaml:"type" mapstructure:"type"`
	// RedisURL is the URL for the Redis cache if using Redis.
	RedisURL string `yaml:"redis_url" mapstructure:"redis_url"`
	// FlushSchedule is the cron schedule used to flush the country lookup cache.
	FlushSchedule string `yaml:"flush_schedule" mapstructure:"flush_schedule"`
}

// Load reads the configuration from the specified path and returns a Config struct.
// If path is empty, it will use default search paths for config files.
// Variables from a .env file in the working directory are loaded into the environment first.
func Load(path string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	bindNestedEnv(v)

	setDefaults(v)

	v.SetConfigType("yaml")
	v.SetEnvPrefix("FAMILYTRAVEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var configFileFound bool
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.familytravel")
		v.AddConfigPath("/etc/familytravel")
	}

	if err := v.ReadInConfig(); err != nil {
		// If no config file is found, use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileFound = true
	}

	if configFileFound {
		log.Debug("Using config file", "file", v.ConfigFileUsed())
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	sanitizeConfig(&c)

	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// setDefaults sets default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", "0.0.0.0:6969")
	v.SetDefault("port", 0)
	v.SetDefault("default_user_id", 1)

	v.SetDefault("session.mode", SessionModeGlobal)
	v.SetDefault("session.key", "")
	v.SetDefault("session.max_age", 2592000) // 30 days

	v.SetDefault("database.driver", DatabaseDriverSQLite)
	v.SetDefault("database.path", "./data/familytravel.db")
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "world")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)

	v.SetDefault("cache.type", CacheTypeMemory)
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.flush_schedule", "0 */6 * * *")
}

// bindNestedEnv binds the prefixed env vars and the plain variables used by
// the original node deployment (PORT, DB_*). The prefixed name wins if both are set.
func bindNestedEnv(v *viper.Viper) {
	v.MustBindEnv("port", "FAMILYTRAVEL_PORT", "PORT")

	v.MustBindEnv("database.host", "FAMILYTRAVEL_DATABASE_HOST", "DB_HOST")
	v.MustBindEnv("database.port", "FAMILYTRAVEL_DATABASE_PORT", "DB_PORT")
	v.MustBindEnv("database.user", "FAMILYTRAVEL_DATABASE_USER", "DB_USER")
	v.MustBindEnv("database.password", "FAMILYTRAVEL_DATABASE_PASSWORD", "DB_PASSWORD")
	v.MustBindEnv("database.name", "FAMILYTRAVEL_DATABASE_NAME", "DB_NAME")
	v.MustBindEnv("database.url", "FAMILYTRAVEL_DATABASE_URL", "DATABASE_URL")
}

// validateConfig validates the configuration.
func validateConfig(c *Config) error {
	if c == nil {
		return fmt.Errorf("missing config")
	}

	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}

	if c.DefaultUserID <= 0 {
		return fmt.Errorf("default user id must be greater than 0")
	}

	if c.Session == nil {
		c.Session = &SessionConfig{Mode: SessionModeGlobal}
	}
	switch c.Session.Mode {
	case SessionModeGlobal, SessionModeCookie:
	default:
		return fmt.Errorf("unknown session mode %q", c.Session.Mode)
	}

	if c.Database == nil {
		return fmt.Errorf("missing database config")
	}
	switch c.Database.Driver {
	case DatabaseDriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required when using sqlite")
		}
	case DatabaseDriverPostgres:
		if c.Database.URL == "" {
			if c.Database.Host == "" {
				return fmt.Errorf("database host is required when using postgres")
			}
			if c.Database.Name == "" {
				return fmt.Errorf("database name is required when using postgres")
			}
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	if c.Cache != nil {
		if c.Cache.Type == "" {
			return fmt.Errorf("cache type is required when cache is enabled")
		}
		if c.Cache.Type == CacheTypeRedis && c.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when Redis cache is enabled") //nolint:staticcheck
		}
		if c.Cache.FlushSchedule != "" {
			if _, err := cron.ParseStandard(c.Cache.FlushSchedule); err != nil {
				return fmt.Errorf("invalid cache flush schedule: %w", err)
			}
		}
	} else {
		c.Cache = &CacheConfig{
			Type: CacheTypeMemory,
		}
	}

	return nil
}

// sanitizeConfig sanitizes the configuration values.
func sanitizeConfig(c *Config) {
	if c == nil {
		return
	}

	c.Listen = strings.TrimSpace(c.Listen)
	if c.Port > 0 {
		host, _, err := net.SplitHostPort(c.Listen)
		if err != nil {
			host = "0.0.0.0"
		}
		c.Listen = net.JoinHostPort(host, strconv.Itoa(c.Port))
	}

	if c.Database != nil {
		c.Database.Driver = DatabaseDriver(strings.ToLower(strings.TrimSpace(string(c.Database.Driver))))
		c.Database.URL = strings.TrimSpace(c.Database.URL)
	}

	if c.Session != nil {
		c.Session.Mode = SessionMode(strings.ToLower(strings.TrimSpace(string(c.Session.Mode))))
	}
}

// DSN returns the postgres connection string for the database config.
func (d *DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	if d.Password != "" {
		u.User = url.UserPassword(d.User, d.Password)
	} else if d.User != "" {
		u.User = url.User(d.User)
	}
	if d.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{d.SSLMode}}.Encode()
	}
	return u.String()
}
