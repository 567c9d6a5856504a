package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/statekit-dev/statekit/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "statekit.json"

	// DefaultBackend is the storage backend used when none is configured.
	DefaultBackend = "file"

	// DefaultAuthKey is the storage key for the credential header store.
	DefaultAuthKey = "statekit:auth"

	// DefaultUIKey is the storage key for the UI chrome store.
	DefaultUIKey = "statekit:ui"

	// DefaultDevtoolsHost is the default devtools bind host.
	DefaultDevtoolsHost = "localhost"

	// DefaultDevtoolsPort is the default devtools port.
	DefaultDevtoolsPort = 7677
)

// Backends lists the supported storage backend names.
var Backends = []string{"memory", "file", "redis", "sql", "s3", "null"}

// Config represents the complete statekit.json configuration.
type Config struct {
	// Name is the console name, used in logs and devtools output.
	Name string `json:"name,omitempty"`

	// Storage selects and configures the persistence backend.
	Storage StorageConfig `json:"storage,omitempty"`

	// Keys names the storage slots for each store.
	Keys KeysConfig `json:"keys,omitempty"`

	// Devtools configures the state inspector server.
	Devtools DevtoolsConfig `json:"devtools,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend is one of: memory, file, redis, sql, s3, null.
	Backend string `json:"backend,omitempty"`

	// File configures the file backend.
	File FileConfig `json:"file,omitempty"`

	// Redis configures the redis backend.
	Redis RedisConfig `json:"redis,omitempty"`

	// SQL configures the sql backend.
	SQL SQLConfig `json:"sql,omitempty"`

	// S3 configures the s3 backend.
	S3 S3Config `json:"s3,omitempty"`
}

// FileConfig contains file backend settings.
type FileConfig struct {
	// Dir is the directory holding one file per key.
	// Default: ~/.statekit.
	Dir string `json:"dir,omitempty"`
}

// RedisConfig contains redis backend settings.
type RedisConfig struct {
	// Addr is the host:port of the redis server.
	Addr string `json:"addr,omitempty"`

	// Prefix is the key prefix. Default: "statekit:".
	Prefix string `json:"prefix,omitempty"`
}

// SQLConfig contains sql backend settings.
type SQLConfig struct {
	// Driver is the database/sql driver name.
	Driver string `json:"driver,omitempty"`

	// DSN is the connection string.
	DSN string `json:"dsn,omitempty"`

	// Table is the entries table. Default: "statekit_entries".
	Table string `json:"table,omitempty"`

	// Dialect is one of: postgres, mysql, sqlite. Default: postgres.
	Dialect string `json:"dialect,omitempty"`
}

// S3Config contains s3 backend settings.
type S3Config struct {
	// Bucket is the S3 bucket holding state objects.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the object key prefix. Default: "statekit/".
	Prefix string `json:"prefix,omitempty"`
}

// KeysConfig names the storage slots.
type KeysConfig struct {
	// Auth is the credential header store key.
	Auth string `json:"auth,omitempty"`

	// UI is the UI chrome store key.
	UI string `json:"ui,omitempty"`
}

// DevtoolsConfig contains state inspector settings.
type DevtoolsConfig struct {
	// Host is the bind host.
	Host string `json:"host,omitempty"`

	// Port is the listen port.
	Port int `json:"port,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: DefaultBackend,
			Redis: RedisConfig{
				Prefix: "statekit:",
			},
			SQL: SQLConfig{
				Table:   "statekit_entries",
				Dialect: "postgres",
			},
			S3: S3Config{
				Prefix: "statekit/",
			},
		},
		Keys: KeysConfig{
			Auth: DefaultAuthKey,
			UI:   DefaultUIKey,
		},
		Devtools: DevtoolsConfig{
			Host: DefaultDevtoolsHost,
			Port: DefaultDevtoolsPort,
		},
	}
}

// Load reads configuration from statekit.json in the given directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E101").
				WithDetail("No " + ConfigFileName + " found at " + path).
				WithSuggestion("Create " + ConfigFileName + " or pass --config")
		}
		return nil, errors.New("E102").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E102").
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Storage.Backend == "" {
		c.Storage.Backend = DefaultBackend
	}
	if c.Storage.Redis.Prefix == "" {
		c.Storage.Redis.Prefix = "statekit:"
	}
	if c.Storage.SQL.Table == "" {
		c.Storage.SQL.Table = "statekit_entries"
	}
	if c.Storage.SQL.Dialect == "" {
		c.Storage.SQL.Dialect = "postgres"
	}
	if c.Storage.S3.Prefix == "" {
		c.Storage.S3.Prefix = "statekit/"
	}
	if c.Keys.Auth == "" {
		c.Keys.Auth = DefaultAuthKey
	}
	if c.Keys.UI == "" {
		c.Keys.UI = DefaultUIKey
	}
	if c.Devtools.Host == "" {
		c.Devtools.Host = DefaultDevtoolsHost
	}
	if c.Devtools.Port == 0 {
		c.Devtools.Port = DefaultDevtoolsPort
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	valid := false
	for _, b := range Backends {
		if c.Storage.Backend == b {
			valid = true
			break
		}
	}
	if !valid {
		return errors.New("E103").
			WithDetail("backend " + strconv.Quote(c.Storage.Backend) + " is not supported").
			WithSuggestion("Set storage.backend to one of: memory, file, redis, sql, s3, null")
	}

	switch c.Storage.Backend {
	case "redis":
		if c.Storage.Redis.Addr == "" {
			return errors.New("E104").
				WithDetail("the redis backend needs storage.redis.addr").
				WithSuggestion(`Set storage.redis.addr, e.g. "localhost:6379"`)
		}
	case "sql":
		if c.Storage.SQL.Driver == "" || c.Storage.SQL.DSN == "" {
			return errors.New("E104").
				WithDetail("the sql backend needs storage.sql.driver and storage.sql.dsn")
		}
		switch c.Storage.SQL.Dialect {
		case "postgres", "mysql", "sqlite":
		default:
			return errors.New("E104").
				WithDetail("storage.sql.dialect " + strconv.Quote(c.Storage.SQL.Dialect) + " is not supported").
				WithSuggestion("Use postgres, mysql or sqlite")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return errors.New("E104").
				WithDetail("the s3 backend needs storage.s3.bucket")
		}
	}

	if c.Devtools.Port < 0 || c.Devtools.Port > 65535 {
		return errors.Newf(errors.CategoryConfig, "devtools.port %d out of range", c.Devtools.Port)
	}
	return nil
}

// FileDir returns the file backend directory, resolving the default under
// the user's home directory.
func (c *Config) FileDir() string {
	if c.Storage.File.Dir != "" {
		return c.Storage.File.Dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".statekit"
	}
	return filepath.Join(home, ".statekit")
}
