// Package config loads rentapp settings from ~/.config/rentapp/config.yaml
// with RENTAPP_* environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds settings persisted to disk.
type Config struct {
	Driver        string        `yaml:"driver,omitempty"`
	DBPath        string        `yaml:"db_path,omitempty"`
	PostgresDSN   string        `yaml:"postgres_dsn,omitempty"`
	CacheTTL      time.Duration `yaml:"cache_ttl,omitempty"`
	Retention     time.Duration `yaml:"retention,omitempty"`
	SeedFile      string        `yaml:"seed_file,omitempty"`
	DevMode       bool          `yaml:"dev_mode,omitempty"`
	WatchInterval time.Duration `yaml:"watch_interval,omitempty"`
	Port          int           `yaml:"port,omitempty"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Config {
	return Config{
		Driver:        DriverSQLite,
		CacheTTL:      100 * time.Millisecond,
		Retention:     30 * 24 * time.Hour,
		WatchInterval: 500 * time.Millisecond,
		Port:          8080,
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "rentapp", "config.yaml"), nil
}

// Load reads the config file over the defaults, then applies environment
// overrides. A missing file is not an error.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(path)
}

// LoadFile is Load for an explicit path.
func LoadFile(path string) (Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ReadFile reads the file at path over the defaults. Environment overrides
// are not applied and the result is not validated.
func ReadFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return Config{}, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
	}
	return cfg, nil
}

// Save writes cfg to the config file.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks the driver and the settings it needs.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("driver %q requires postgres_dsn", c.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Driver)
	}
	if c.CacheTTL < 0 || c.Retention <= 0 || c.WatchInterval <= 0 {
		return fmt.Errorf("durations must be positive")
	}
	return nil
}

// Keys lists the settings Set accepts, in file order.
var Keys = []string{
	"driver", "db_path", "postgres_dsn", "cache_ttl", "retention",
	"seed_file", "dev_mode", "watch_interval", "port",
}

// Set assigns one setting by its file key.
func (c *Config) Set(key, value string) error {
	var err error
	switch key {
	case "driver":
		c.Driver = value
	case "db_path":
		c.DBPath = value
	case "postgres_dsn":
		c.PostgresDSN = value
	case "seed_file":
		c.SeedFile = value
	case "dev_mode":
		c.DevMode, err = strconv.ParseBool(value)
	case "port":
		c.Port, err = strconv.Atoi(value)
	case "cache_ttl":
		c.CacheTTL, err = time.ParseDuration(value)
	case "retention":
		c.Retention, err = time.ParseDuration(value)
	case "watch_interval":
		c.WatchInterval, err = time.ParseDuration(value)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("RENTAPP_DRIVER"); v != "" {
		c.Driver = v
	}
	if v := os.Getenv("RENTAPP_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("RENTAPP_POSTGRES_DSN"); v != "" {
		c.PostgresDSN = v
	}
	if v := os.Getenv("RENTAPP_SEED_FILE"); v != "" {
		c.SeedFile = v
	}
	if v := os.Getenv("RENTAPP_DEV"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("RENTAPP_DEV: %w", err)
		}
		c.DevMode = b
	}
	if v := os.Getenv("RENTAPP_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RENTAPP_PORT: %w", err)
		}
		c.Port = p
	}

	durations := []struct {
		env string
		dst *time.Duration
	}{
		{"RENTAPP_CACHE_TTL", &c.CacheTTL},
		{"RENTAPP_RETENTION", &c.Retention},
		{"RENTAPP_WATCH_INTERVAL", &c.WatchInterval},
	}
	for _, d := range durations {
		v := os.Getenv(d.env)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.env, err)
		}
		*d.dst = parsed
	}
	return nil
}
