// server/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Port         string `yaml:"port"`
	DataDir      string `yaml:"data_dir"`
	PublicDir    string `yaml:"public_dir"`
	StoreDriver  string `yaml:"store_driver"`
	SQLitePath   string `yaml:"sqlite_path"`
	DatabaseURL  string `yaml:"database_url"`
	TaskIDFormat string `yaml:"task_id_format"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
}

func Default() Config {
	return Config{
		Port:         "3000",
		DataDir:      "./data",
		PublicDir:    "./public",
		StoreDriver:  DriverFile,
		TaskIDFormat: "timestamp",
		LogLevel:     "info",
		LogFormat:    "console",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE, then the environment. A .env file in the working directory is
// read first if present.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv(os.Getenv)

	if cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join(cfg.DataDir, "kanban.db")
	}

	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Port, "PORT")
	set(&c.DataDir, "DATA_DIR")
	set(&c.PublicDir, "PUBLIC_DIR")
	set(&c.StoreDriver, "STORE_DRIVER")
	set(&c.SQLitePath, "SQLITE_PATH")
	set(&c.DatabaseURL, "DATABASE_URL")
	set(&c.TaskIDFormat, "TASK_ID_FORMAT")
	set(&c.LogLevel, "LOG_LEVEL")
	set(&c.LogFormat, "LOG_FORMAT")
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverFile, DriverMemory, DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("store driver %q requires DATABASE_URL", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}

	switch c.TaskIDFormat {
	case "timestamp", "uuid":
	default:
		return fmt.Errorf("unknown task id format %q", c.TaskIDFormat)
	}
	return nil
}
