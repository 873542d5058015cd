package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers understood by the service.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// EnvPrefix is prepended to every environment variable read by the configuration, e.g.
// EMPLOYEES_HTTP_ADDRESS overrides http.address.
const EnvPrefix = "EMPLOYEES"

var (
	ErrUnknownDriver   = errors.New("unknown storage driver")
	ErrMissingPostgres = errors.New("postgres host and database name are required for the postgres driver")
)

type Config struct {
	Env       string          // Env is the current environment: local, development, production.
	HTTP      HTTPConfig      // HTTP holds the listener configuration.
	Storage   StorageConfig   // Storage selects the entity store backend.
	Postgres  PostgresConfig  // Postgres holds the database configuration
	Employees EmployeesConfig // Employees holds the behaviour switches of the services.
}

// HTTPConfig holds the address and timeouts of the API server.
type HTTPConfig struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StorageConfig selects the entity store backend.
type StorageConfig struct {
	Driver string // Driver is either "memory" or "postgres".
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string // Host is the database server address.
	Port     string // Port is the database server port.
	User     string // User is the database user.
	Password string // Password is the database user's password.
	Dbname   string // Dbname is the name of the database.
}

type EmployeesConfig struct {
	// StrictValidation rejects blank names or departments and negative salaries.
	StrictValidation bool
}

// MustLoad loads the configuration and panics if it is invalid.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic("config error: " + err.Error())
	}

	return cfg
}

// Load reads the configuration from defaults, an optional YAML file pointed to by CONFIG_PATH,
// an optional .env file and EMPLOYEES_* environment variables, in increasing priority.
func Load() (*Config, error) {
	// .env is optional; variables already present in the environment win.
	_ = godotenv.Load()

	vpr := viper.New()
	vpr.SetEnvPrefix(EnvPrefix)
	vpr.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vpr.AutomaticEnv()
	setDefaults(vpr)

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		// check if file exists
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configPath)
		}

		vpr.SetConfigFile(configPath)
		if filepath.Ext(configPath) == "" {
			vpr.SetConfigType("yaml")
		}
		if err := vpr.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return build(vpr)
}

func setDefaults(vpr *viper.Viper) {
	vpr.SetDefault("env", "local")
	vpr.SetDefault("http.address", ":8080")
	vpr.SetDefault("http.read_timeout", "10s")
	vpr.SetDefault("http.write_timeout", "10s")
	vpr.SetDefault("http.shutdown_timeout", "5s")
	vpr.SetDefault("storage.driver", DriverMemory)
	vpr.SetDefault("postgres.port", "5432")
	vpr.SetDefault("employees.strict_validation", true)
}

func build(vpr *viper.Viper) (*Config, error) {
	var err error
	cfg := &Config{
		Env: vpr.GetString("env"),
		HTTP: HTTPConfig{
			Address: vpr.GetString("http.address"),
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
		Employees: EmployeesConfig{
			StrictValidation: vpr.GetBool("employees.strict_validation"),
		},
	}

	if cfg.HTTP.ReadTimeout, err = duration(vpr, "http.read_timeout"); err != nil {
		return nil, err
	}
	if cfg.HTTP.WriteTimeout, err = duration(vpr, "http.write_timeout"); err != nil {
		return nil, err
	}
	if cfg.HTTP.ShutdownTimeout, err = duration(vpr, "http.shutdown_timeout"); err != nil {
		return nil, err
	}

	switch cfg.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if cfg.Postgres.Host == "" || cfg.Postgres.Dbname == "" {
			return nil, ErrMissingPostgres
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Storage.Driver)
	}

	return cfg, nil
}

func duration(vpr *viper.Viper, key string) (time.Duration, error) {
	value, err := time.ParseDuration(vpr.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s from configuration: %w", key, err)
	}

	return value, nil
}
