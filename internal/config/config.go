// Package config loads ringwalk settings from an optional YAML file,
// RINGWALK_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/purehyperbole/ringwalk"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. RINGWALK_LOG_LEVEL=debug
const EnvPrefix = "RINGWALK"

// Config is the root application configuration.
type Config struct {
	// Host all nodes share; a node's address is (Host, port)
	Host string `mapstructure:"host"`
	// StartDelay before a node sends its own ping
	StartDelay time.Duration `mapstructure:"start_delay"`
	// Wire codec name: json, cbor or flatbuffers
	Wire string `mapstructure:"wire"`
	// SendWorkers zero sends inline, more uses a bounded pool
	SendWorkers int `mapstructure:"send_workers"`
	// BatchSize datagrams read per socket call
	BatchSize int `mapstructure:"batch_size"`
	// ReuseAddr sets SO_REUSEADDR on node sockets
	ReuseAddr bool `mapstructure:"reuse_addr"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// Outputs: stdout, stderr, or file paths
	Outputs []string `mapstructure:"outputs"`
	// Development enables colored levels and dev-mode zap options
	Development bool `mapstructure:"development"`

	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Host:        "::1",
		StartDelay:  ringwalk.DefaultStartDelay,
		Wire:        "json",
		SendWorkers: 0,
		BatchSize:   ringwalk.DefaultBatchSize,
		Log: LogConfig{
			Level:   "info",
			Format:  "console",
			Outputs: []string{"stdout"},
			Rotation: RotationConfig{
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
	}
}

// Load reads configuration from path if it is set, otherwise from
// $RINGWALK_CONFIG or the first ringwalk.yaml found in ., ./configs or
// ~/.ringwalk. A missing file is not an error when searching.
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// env only keys are invisible to viper without a default
	v.SetDefault("host", cfg.Host)
	v.SetDefault("start_delay", cfg.StartDelay)
	v.SetDefault("wire", cfg.Wire)
	v.SetDefault("send_workers", cfg.SendWorkers)
	v.SetDefault("batch_size", cfg.BatchSize)
	v.SetDefault("reuse_addr", cfg.ReuseAddr)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.outputs", cfg.Log.Outputs)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
	v.SetDefault("log.rotation.filename", cfg.Log.Rotation.Filename)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ringwalk")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".ringwalk"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate normalizes the config and rejects values no node could run with.
func (c *Config) Validate() error {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}

	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch c.Log.Format {
	case "":
		c.Log.Format = "console"
	case "console", "json":
	default:
		return fmt.Errorf("invalid log.format: %q", c.Log.Format)
	}

	if len(c.Log.Outputs) == 0 {
		c.Log.Outputs = []string{"stdout"}
	}

	c.Wire = strings.ToLower(strings.TrimSpace(c.Wire))
	if _, err := ringwalk.LookupCodec(c.Wire); err != nil {
		return fmt.Errorf("invalid wire: %w", err)
	}

	if strings.TrimSpace(c.Host) == "" {
		return errors.New("host must not be empty")
	}

	if c.SendWorkers < 0 {
		return fmt.Errorf("invalid send_workers: %d", c.SendWorkers)
	}

	if c.BatchSize < 1 {
		return fmt.Errorf("invalid batch_size: %d", c.BatchSize)
	}

	if c.StartDelay <= 0 {
		return fmt.Errorf("invalid start_delay: %s", c.StartDelay)
	}

	return nil
}
