package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	ErrConfigNotFound  = errors.New("config file does not exist")
	ErrInvalidDriver   = errors.New("unsupported storage driver")
	ErrMissingPostgres = errors.New("postgres host, user and db_name are required")
	ErrMissingSQLite   = errors.New("sqlite path is required")
	ErrMissingPort     = errors.New("http and monitoring ports are required")
)

type Config struct {
	Env        string           // Env is the current environment: local, development, production.
	HTTP       HTTPConfig       // HTTP holds the API server configuration.
	Monitoring MonitoringConfig // Monitoring holds the health and metrics server configuration.
	Storage    StorageConfig    // Storage selects the persistence backend.
	Postgres   PostgresConfig   // Postgres holds the database configuration.
	SQLite     SQLiteConfig     // SQLite holds the embedded database configuration.
	Migrations string           // Migrations is the directory with goose migration files.
}

// HTTPConfig struct holds the API server listener and timeouts.
type HTTPConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Address returns the host:port the API server listens on.
func (h HTTPConfig) Address() string {
	return net.JoinHostPort(h.Host, h.Port)
}

type MonitoringConfig struct {
	Port string
}

type StorageConfig struct {
	Driver string // Driver is either "postgres" or "sqlite".
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Dbname   string // Dbname is the name of the database.
}

type SQLiteConfig struct {
	Path string // Path is the database file, ":memory:" is accepted.
}

// MustLoad loads the configuration and panics if it is invalid.
// Variables from a .env file in the working directory are exported first, then the optional
// YAML file at CONFIG_PATH is read and EMS_* environment variables override it.
func MustLoad() *Config {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic("config error: " + err.Error())
	}

	return cfg
}

// Load reads configuration from the file at path (skipped when path is empty) and the environment.
func Load(path string) (*Config, error) {
	vpr := viper.New()
	vpr.SetEnvPrefix("EMS")
	vpr.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vpr.AutomaticEnv()
	setDefaults(vpr)

	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}

		vpr.SetConfigFile(path)
		vpr.SetConfigType(configType(path))
		if err := vpr.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	httpCfg, err := loadHTTP(vpr)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:  vpr.GetString("env"),
		HTTP: httpCfg,
		Monitoring: MonitoringConfig{
			Port: vpr.GetString("monitoring.port"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(vpr.GetString("storage.driver")),
		},
		Postgres: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Dbname:   vpr.GetString("postgres.db_name"),
		},
		SQLite: SQLiteConfig{
			Path: vpr.GetString("sqlite.path"),
		},
		Migrations: vpr.GetString("migrations.dir"),
	}

	if err = cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(vpr *viper.Viper) {
	vpr.SetDefault("env", "local")
	vpr.SetDefault("http.host", "")
	vpr.SetDefault("http.port", "8080")
	vpr.SetDefault("http.read_timeout", "10s")
	vpr.SetDefault("http.write_timeout", "10s")
	vpr.SetDefault("http.idle_timeout", "60s")
	vpr.SetDefault("http.shutdown_timeout", "15s")
	vpr.SetDefault("monitoring.port", "9090")
	vpr.SetDefault("storage.driver", DriverPostgres)
	vpr.SetDefault("postgres.port", "5432")
	vpr.SetDefault("sqlite.path", "ems.db")
	vpr.SetDefault("migrations.dir", "migrations")
}

func loadHTTP(vpr *viper.Viper) (HTTPConfig, error) {
	cfg := HTTPConfig{
		Host: vpr.GetString("http.host"),
		Port: vpr.GetString("http.port"),
	}

	durations := map[string]*time.Duration{
		"http.read_timeout":     &cfg.ReadTimeout,
		"http.write_timeout":    &cfg.WriteTimeout,
		"http.idle_timeout":     &cfg.IdleTimeout,
		"http.shutdown_timeout": &cfg.ShutdownTimeout,
	}
	for key, dst := range durations {
		parsed, err := time.ParseDuration(vpr.GetString(key))
		if err != nil {
			return HTTPConfig{}, fmt.Errorf("failed to parse %s: %w", key, err)
		}
		*dst = parsed
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Port == "" || c.Monitoring.Port == "" {
		return ErrMissingPort
	}

	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Postgres.Host == "" || c.Postgres.User == "" || c.Postgres.Dbname == "" {
			return ErrMissingPostgres
		}
	case DriverSQLite:
		if c.SQLite.Path == "" {
			return ErrMissingSQLite
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDriver, c.Storage.Driver)
	}

	return nil
}

func configType(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "yaml"
	}

	return ext
}
