package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ServerConfig configures the local HTTP API
type ServerConfig struct {
	// Addr is the listen address of `ctxgen serve`
	Addr string `yaml:"addr"`

	// ReadTimeout bounds how long a request body may take to arrive
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// HistoryConfig configures the record of generated contexts
type HistoryConfig struct {
	// Enabled turns history recording on or off
	Enabled bool `yaml:"enabled"`

	// DBPath is the SQLite database file ("" = <data_dir>/history.db)
	DBPath string `yaml:"db_path"`

	// Keep is the number of newest records retained (0 = unlimited)
	Keep int `yaml:"keep"`
}

// Config represents ctxgen configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir, when set, makes the server also write run logs to this directory
	LogDir string `yaml:"log_dir"`

	// DataDir holds the exclusion rules and custom instructions files
	DataDir string `yaml:"data_dir"`

	Server  ServerConfig  `yaml:"server"`
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		LogDir:   "",
		DataDir:  "",
		Server: ServerConfig{
			Addr:        "127.0.0.1:5000",
			ReadTimeout: 30 * time.Second,
		},
		History: HistoryConfig{
			Enabled: true,
			DBPath:  "",
			Keep:    200,
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations are read as strings so "30s" style values parse.
	type yamlConfig struct {
		LogLevel string `yaml:"log_level"`
		LogDir   string `yaml:"log_dir"`
		DataDir  string `yaml:"data_dir"`
		Server   struct {
			Addr        string `yaml:"addr"`
			ReadTimeout string `yaml:"read_timeout"`
		} `yaml:"server"`
		History HistoryConfig `yaml:"history"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}
	if yamlCfg.DataDir != "" {
		cfg.DataDir = yamlCfg.DataDir
	}
	if yamlCfg.Server.Addr != "" {
		cfg.Server.Addr = yamlCfg.Server.Addr
	}
	if yamlCfg.Server.ReadTimeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.Server.ReadTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid server.read_timeout %q: %w", yamlCfg.Server.ReadTimeout, err)
		}
		cfg.Server.ReadTimeout = timeout
	}

	// history.enabled may legitimately be false, so look at which keys exist.
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if section, ok := rawMap["history"].(map[string]interface{}); ok {
			if _, exists := section["enabled"]; exists {
				cfg.History.Enabled = yamlCfg.History.Enabled
			}
			if _, exists := section["db_path"]; exists {
				cfg.History.DBPath = yamlCfg.History.DBPath
			}
			if _, exists := section["keep"]; exists {
				cfg.History.Keep = yamlCfg.History.Keep
			}
		}
	}

	return cfg, nil
}

// ApplyEnv overlays CTXGEN_* environment variables onto the configuration.
// When envFile exists it is loaded first; variables already set in the
// process environment win over the file.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("CTXGEN_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("CTXGEN_LOG_DIR")); v != "" {
		c.LogDir = v
	}
	if v := strings.TrimSpace(os.Getenv("CTXGEN_DATA_DIR")); v != "" {
		c.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("CTXGEN_ADDR")); v != "" {
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("CTXGEN_HISTORY_DB")); v != "" {
		c.History.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("CTXGEN_HISTORY")); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CTXGEN_HISTORY %q: %w", v, err)
		}
		c.History.Enabled = enabled
	}
	return nil
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(logLevel *string, dataDir *string, addr *string) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if dataDir != nil {
		c.DataDir = *dataDir
	}
	if addr != nil {
		c.Server.Addr = *addr
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}
	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("server.read_timeout must be >= 0, got %v", c.Server.ReadTimeout)
	}

	if c.History.Keep < 0 {
		return fmt.Errorf("history.keep must be >= 0, got %d", c.History.Keep)
	}

	return nil
}

// Resolve fills in the derived paths: DataDir falls back to GetHome and the
// history database defaults to history.db inside DataDir.
func (c *Config) Resolve() error {
	if c.DataDir == "" {
		home, err := GetHome()
		if err != nil {
			return err
		}
		c.DataDir = home
	}
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if c.History.DBPath == "" {
		c.History.DBPath = filepath.Join(c.DataDir, "history.db")
	}
	return nil
}
