package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Remote test service
	ServiceURL     string        `env:"FRIDAY_SERVICE_URL"`
	APIToken       string        `env:"FRIDAY_API_TOKEN"`
	RequestTimeout time.Duration `env:"FRIDAY_REQUEST_TIMEOUT"`

	// Submission defaults
	BaseURL        string `env:"FRIDAY_BASE_URL"`
	OutputFilename string `env:"FRIDAY_OUTPUT"`

	// Discovery settings
	SpecPath      string
	PathsToIgnore []string

	// History settings
	HistoryDir   string `env:"FRIDAY_HISTORY_DIR"`
	HistoryFile  string
	HistoryDSN   string `env:"FRIDAY_HISTORY_DSN"`
	HistoryLimit int    `env:"FRIDAY_HISTORY_LIMIT"`

	LogLevel string `env:"FRIDAY_LOG_LEVEL"`
	EnvFile  string

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	SpecFile   string
	BaseURL    string
	Output     string
	ServiceURL string
	Check      bool
	Validate   bool
	SpecPath   string
	NameFilter string
	Limit      int
	Verbose    bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ServiceURL:     DefaultServiceURL,
		RequestTimeout: DefaultRequestTimeout,
		OutputFilename: DefaultOutputFilename,
		SpecPath:       DefaultSpecPath,
		HistoryDir:     DefaultHistoryDir,
		HistoryFile:    DefaultHistoryFile,
		HistoryLimit:   DefaultHistoryLimit,
		LogLevel:       DefaultLogLevel,
		EnvFile:        DefaultEnvFile,
	}
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// LoadEnv reads the dotenv file (without overriding the process environment) and
// applies FRIDAY_* variables on top of the current values.
func (c *Config) LoadEnv() error {
	if err := godotenv.Load(c.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", c.EnvFile, err)
	}
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// GetServiceURL returns the service address, using the flag if provided
func (c *Config) GetServiceURL() string {
	if u := strings.TrimSpace(c.Flags.ServiceURL); u != "" {
		return strings.TrimRight(u, "/")
	}
	return strings.TrimRight(strings.TrimSpace(c.ServiceURL), "/")
}

// GetBaseURL returns the base URL of the API under test, flag first
func (c *Config) GetBaseURL() string {
	if c.Flags.BaseURL != "" {
		return c.Flags.BaseURL
	}
	return c.BaseURL
}

// GetOutputFilename returns the report name, flag first. It may be empty;
// the form applies the default on submit.
func (c *Config) GetOutputFilename() string {
	if c.Flags.Output != "" {
		return c.Flags.Output
	}
	return c.OutputFilename
}

// GetSpecPath returns the discovery root, using flag if provided
func (c *Config) GetSpecPath() string {
	if c.Flags.SpecPath != "" {
		return filepath.Clean(c.Flags.SpecPath)
	}
	return filepath.Clean(c.SpecPath)
}

// GetHistoryPath returns the absolute path of the JSON run history
func (c *Config) GetHistoryPath() string {
	p := filepath.Join(c.HistoryDir, c.HistoryFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetLogLevel returns debug when --verbose is set, else the configured level
func (c *Config) GetLogLevel() string {
	if c.Flags.Verbose {
		return "debug"
	}
	return c.LogLevel
}
