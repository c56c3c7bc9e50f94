package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ModelPath is where the exported LSTM is read from. It is not configurable.
const ModelPath = "model/lstm.onnx"

// Config holds all application configuration.
type Config struct {
	CSVPath   string `yaml:"csv_path"`
	Window    int    `yaml:"window"`
	Port      int    `yaml:"port"`
	ModelPath string `yaml:"-"`

	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
	Inference struct {
		LibraryPath string `yaml:"library_path"`
		InputName   string `yaml:"input_name"`
		OutputName  string `yaml:"output_name"`
	} `yaml:"inference"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
		Disabled   bool   `yaml:"disabled"`
	} `yaml:"database"`
	Refresh struct {
		Enabled    bool   `yaml:"enabled"`
		Symbol     string `yaml:"symbol"`
		Cron       string `yaml:"cron"`
		Days       int    `yaml:"days"`
		RunOnStart bool   `yaml:"run_on_start"`
	} `yaml:"refresh"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file and a .env file if present, then
// applies environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// Environment variable overrides
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("ONNXRUNTIME_LIB"); v != "" {
		cfg.Inference.LibraryPath = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v, ok := envBool("SQLITE_DISABLED"); ok {
		cfg.Database.Disabled = v
	}
	if v, ok := envBool("REFRESH_ENABLED"); ok {
		cfg.Refresh.Enabled = v
	}
	if v := os.Getenv("REFRESH_SYMBOL"); v != "" {
		cfg.Refresh.Symbol = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Refresh.Cron = v
	}
	if v, ok := envBool("RUN_ON_START"); ok {
		cfg.Refresh.RunOnStart = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	cfg.ModelPath = ModelPath
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = 50
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = 5
	}
	if cfg.Log.MaxAgeDays == 0 {
		cfg.Log.MaxAgeDays = 28
	}
	if cfg.Inference.InputName == "" {
		cfg.Inference.InputName = "input"
	}
	if cfg.Inference.OutputName == "" {
		cfg.Inference.OutputName = "dense"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/predictions.db"
	}
	if cfg.Refresh.Cron == "" {
		cfg.Refresh.Cron = "0 30 22 * * 1-5"
	}
	if cfg.Refresh.Days == 0 {
		cfg.Refresh.Days = 60
	}

	return cfg, nil
}

// ApplyArgs sets the positional CSV_PATH WINDOW PORT arguments.
func (c *Config) ApplyArgs(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("expected 3 arguments (CSV_PATH WINDOW PORT), got %d", len(args))
	}
	window, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("window %q: %w", args[1], err)
	}
	port, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("port %q: %w", args[2], err)
	}
	c.CSVPath = args[0]
	c.Window = window
	c.Port = port
	return nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.CSVPath == "" {
		return fmt.Errorf("csv_path is required")
	}
	if c.Window < 1 {
		return fmt.Errorf("window must be at least 1, got %d", c.Window)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", c.Port)
	}
	if c.Refresh.Enabled {
		if c.Refresh.Symbol == "" {
			return fmt.Errorf("refresh.symbol is required when refresh is enabled")
		}
		if c.Refresh.Days < 1 {
			return fmt.Errorf("refresh.days must be positive")
		}
	}
	return nil
}

func envBool(key string) (bool, bool) {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
