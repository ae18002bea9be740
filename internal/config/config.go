// Package config handles loading and parsing application configuration.
// It supports three sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//  3. Neither: values come from the environment and the defaults below.
//
// Every field can be overridden by the environment variable named in its
// env:"..." tag, so a container only needs DB_HOST, DB_PASSWORD, etc.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/ilyakaznacheev/cleanenv"
)

// Supported values for Database.Driver.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev" validate:"oneof=dev staging prod"`

	HTTPServer HTTPServer `yaml:"http_server"`
	Database   Database   `yaml:"database"`
	Dashboard  Dashboard  `yaml:"dashboard"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. ":8501".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:":8501" validate:"required"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Database describes where the people table lives.
//
// The defaults match the docker-compose deployment: a MySQL server
// reachable as "db" holding the "testdb" schema.
type Database struct {
	Driver string `yaml:"driver" env:"DB_DRIVER" env-default:"mysql" validate:"oneof=mysql sqlite"`

	Host     string `yaml:"host" env:"DB_HOST" env-default:"db" validate:"required_if=Driver mysql"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"3306" validate:"min=1,max=65535"`
	User     string `yaml:"user" env:"DB_USER" env-default:"user" validate:"required_if=Driver mysql"`
	Password string `yaml:"password" env:"DB_PASSWORD" env-default:"password"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"testdb" validate:"required_if=Driver mysql"`

	// DialTimeout bounds the TCP connect to the MySQL server.
	DialTimeout time.Duration `yaml:"dial_timeout" env:"DB_DIAL_TIMEOUT" env-default:"5s"`

	// Path is the SQLite database file, used when Driver is "sqlite".
	Path string `yaml:"path" env:"DB_PATH" validate:"required_if=Driver sqlite"`

	// Migrate creates the people table on startup when it is missing.
	Migrate bool `yaml:"migrate" env:"DB_MIGRATE"`
}

// Dashboard holds settings for the rendered page.
type Dashboard struct {
	Title string `yaml:"title" env:"DASHBOARD_TITLE" env-default:"People Data from MySQL" validate:"required"`

	// QueryTimeout bounds one connect/query/fetch cycle per page load.
	// Zero falls back to the default; negative values are rejected.
	QueryTimeout time.Duration `yaml:"query_timeout" env:"DASHBOARD_QUERY_TIMEOUT" env-default:"10s" validate:"gt=0"`
}

// DSN returns the go-sql-driver/mysql data source name for d.
func (d Database) DSN() string {
	c := mysql.NewConfig()
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	c.User = d.User
	c.Passwd = d.Password
	c.DBName = d.Name
	c.Timeout = d.DialTimeout
	return c.FormatDSN()
}

// Load reads the configuration at path, or only the environment when
// path is empty, fills defaults and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	} else {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad resolves the config path from CONFIG_PATH or --config and
// returns the loaded config. It exits the process on any error, so a
// returned config is always valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %s", err.Error())
	}

	return cfg
}

func validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	var msgs []string
	for _, e := range validateErrs {
		switch e.ActualTag() {
		case "required", "required_if":
			msgs = append(msgs, fmt.Sprintf("field %s is required", e.Namespace()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of [%s]", e.Namespace(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is invalid", e.Namespace()))
		}
	}

	return fmt.Errorf("invalid config: %s", strings.Join(msgs, ", "))
}
