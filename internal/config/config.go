// Package config resolves settings from flags, TADA_* environment variables
// and an optional ~/.tada/config.yaml, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Backend names.
const (
	BackendMemory   = "memory"
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

var Backends = []string{BackendMemory, BackendJSON, BackendSQLite, BackendPostgres, BackendS3}

const envPrefix = "TADA"

type Config struct {
	Backend string `mapstructure:"backend"`
	Theme   string `mapstructure:"theme"`
	Banner  string `mapstructure:"banner"`

	JSON struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"json"`
	SQLite struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"sqlite"`
	Postgres struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"postgres"`
	S3 struct {
		Bucket          string `mapstructure:"bucket"`
		Key             string `mapstructure:"key"`
		Region          string `mapstructure:"region"`
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
		PathStyle       bool   `mapstructure:"path_style"`
	} `mapstructure:"s3"`
	Log struct {
		File  string `mapstructure:"file"`
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Metrics struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"metrics"`
}

// Dir is the per-user settings directory (~/.tada).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".tada"), nil
}

// New returns a viper instance with defaults and env binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("backend", BackendJSON)
	v.SetDefault("theme", "classic")
	v.SetDefault("banner", "")
	v.SetDefault("json.path", "")
	v.SetDefault("sqlite.path", "")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.key", "")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.path_style", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("metrics.addr", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags maps persistent flags onto their config keys.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	binds := map[string]string{
		"backend":      "backend",
		"theme":        "theme",
		"file":         "json.path",
		"log-file":     "log.file",
		"log-level":    "log.level",
		"metrics-addr": "metrics.addr",
	}
	for flag, key := range binds {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", flag, err)
		}
	}
	return nil
}

// Load reads the config file (explicit path, or ~/.tada/config.yaml when it
// exists) and decodes everything into a Config.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	known := false
	for _, b := range Backends {
		if c.Backend == b {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown backend %q (want one of %s)", c.Backend, strings.Join(Backends, ", "))
	}
	if c.Backend == BackendS3 && c.S3.Bucket == "" {
		return errors.New("s3 backend needs s3.bucket (TADA_S3_BUCKET)")
	}
	return nil
}
