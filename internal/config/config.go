package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/vedsharma/resterx/internal/model"
	"github.com/vedsharma/resterx/internal/storage"
)

const (
	ConfigFileName      = ".resterx"
	ConfigFileExtension = ".yaml"
	EnvPrefix           = "RESTERX"
)

// Keys
const (
	KeyDataDir      = "data_dir"
	KeyStorage      = "storage"
	KeyTimeout      = "timeout"
	KeyRetries      = "retries"
	KeyRetryDelay   = "retry_delay"
	KeyHistoryLimit = "history_limit"
	KeyLogLevel     = "log_level"
)

// Config is the resolved runtime configuration
type Config struct {
	DataDir      string        `mapstructure:"data_dir"`
	Storage      string        `mapstructure:"storage"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Retries      int           `mapstructure:"retries"`
	RetryDelay   time.Duration `mapstructure:"retry_delay"`
	HistoryLimit int           `mapstructure:"history_limit"`
	LogLevel     string        `mapstructure:"log_level"`
}

// DefaultConfigPath returns $HOME/.resterx.yaml
func DefaultConfigPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}
	return filepath.Join(home, ConfigFileName+ConfigFileExtension), nil
}

// SetDefaults registers the default of every key on v
func SetDefaults(v *viper.Viper) error {
	home, err := homedir.Dir()
	if err != nil {
		return fmt.Errorf("failed to find home directory: %w", err)
	}
	v.SetDefault(KeyDataDir, filepath.Join(home, ".resterx"))
	v.SetDefault(KeyStorage, storage.BackendSQLite)
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyRetries, 0)
	v.SetDefault(KeyRetryDelay, time.Second)
	v.SetDefault(KeyHistoryLimit, model.MaxHistoryEntries)
	v.SetDefault(KeyLogLevel, "info")
	return nil
}

// Load reads configuration from cfgFile (or $HOME/.resterx.yaml when empty),
// RESTERX_* environment variables and whatever flags were bound to v. A
// missing default config file is not an error; a missing explicit one is.
func Load(v *viper.Viper, cfgFile string) (Config, error) {
	if err := SetDefaults(v); err != nil {
		return Config{}, err
	}

	v.SetConfigType("yaml")
	if cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			return Config{}, fmt.Errorf("invalid config path %q: %w", cfgFile, err)
		}
		v.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return Config{}, fmt.Errorf("failed to find home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(ConfigFileName)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	dir, err := homedir.Expand(c.DataDir)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", KeyDataDir, c.DataDir, err)
	}
	c.DataDir = dir
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))

	switch c.Storage {
	case storage.BackendSQLite, storage.BackendJSON, storage.BackendMemory:
	default:
		return &model.ValidationError{Field: KeyStorage, Reason: fmt.Sprintf("unknown backend %q (want sqlite, json or memory)", c.Storage)}
	}
	if c.Timeout < 0 {
		return &model.ValidationError{Field: KeyTimeout, Reason: "must not be negative"}
	}
	if c.Retries < 0 {
		return &model.ValidationError{Field: KeyRetries, Reason: "must not be negative"}
	}
	if c.RetryDelay < 0 {
		return &model.ValidationError{Field: KeyRetryDelay, Reason: "must not be negative"}
	}
	if c.HistoryLimit <= 0 || c.HistoryLimit > model.MaxHistoryEntries {
		c.HistoryLimit = model.MaxHistoryEntries
	}
	return nil
}
