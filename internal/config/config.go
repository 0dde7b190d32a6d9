// Package config loads carnetlify settings from an optional YAML file,
// CARNETLIFY_* environment variables, and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/carnetlify/carnetlify/internal/remote"
)

// Config is the full set of settings shared by the client and the server.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Auth   AuthConfig   `yaml:"auth"`
	Store  StoreConfig  `yaml:"store"`
	Local  LocalConfig  `yaml:"local"`
	Redis  RedisConfig  `yaml:"redis"`
	Remote RemoteConfig `yaml:"remote"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	// Addr is the listen address for `carnetlify serve`.
	Addr string `yaml:"addr" validate:"required"`

	// BaseURL is where the client reaches the progress service.
	BaseURL string `yaml:"base_url" validate:"required,url"`

	// AllowedOrigins feeds the CORS middleware.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type AuthConfig struct {
	// Secret signs and verifies HS256 tokens. The client uses it to mint
	// its own token when Token is empty.
	Secret string `yaml:"secret"`

	Issuer   string        `yaml:"issuer"`
	TokenTTL time.Duration `yaml:"token_ttl" validate:"gte=0"`

	// Token is a pre-issued bearer token for the client.
	Token string `yaml:"token"`
}

type StoreConfig struct {
	// DBPath is the server's SQLite file. Empty uses store.DefaultDBPath.
	DBPath string `yaml:"db_path"`
}

type LocalConfig struct {
	// Dir holds the client's local progress cache. Empty uses
	// kvstore.DefaultDir.
	Dir string `yaml:"dir"`
}

type RedisConfig struct {
	// Addr enables the server's snapshot cache when set.
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"gte=0"`
	TTL      time.Duration `yaml:"ttl" validate:"gte=0"`
}

type RemoteConfig struct {
	Timeout       time.Duration `yaml:"timeout" validate:"gt=0"`
	Retry         RetryConfig   `yaml:"retry"`
	RatePerSecond float64       `yaml:"rate_per_second" validate:"gte=0"`
	Burst         int           `yaml:"burst" validate:"gte=0"`
}

type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" validate:"gte=1,lte=10"`
	InitialWait time.Duration `yaml:"initial_wait" validate:"gte=0"`
	MaxWait     time.Duration `yaml:"max_wait" validate:"gte=0"`
	Multiplier  float64       `yaml:"multiplier" validate:"gte=1"`
}

type LogConfig struct {
	Mode  string `yaml:"mode" validate:"oneof=dev prod"`
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// File receives client logs. Empty uses DefaultLogPath.
	File string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	rc := remote.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Addr:    ":8080",
			BaseURL: rc.BaseURL,
		},
		Auth: AuthConfig{
			Issuer:   "carnetlify",
			TokenTTL: time.Hour,
		},
		Redis: RedisConfig{TTL: 30 * time.Second},
		Remote: RemoteConfig{
			Timeout: rc.Timeout,
			Retry: RetryConfig{
				MaxAttempts: rc.Retry.MaxAttempts,
				InitialWait: rc.Retry.InitialWait,
				MaxWait:     rc.Retry.MaxWait,
				Multiplier:  rc.Retry.Multiplier,
			},
			RatePerSecond: rc.WritesPerSecond,
			Burst:         rc.WriteBurst,
		},
		Log: LogConfig{Mode: "dev", Level: "info"},
	}
}

// Load reads path (or DefaultPath when empty) over the defaults, applies
// the environment, and validates the result. A missing file is not an
// error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays CARNETLIFY_* variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("CARNETLIFY_SERVER_ADDR", &c.Server.Addr)
	str("CARNETLIFY_SERVER_URL", &c.Server.BaseURL)
	str("CARNETLIFY_AUTH_SECRET", &c.Auth.Secret)
	str("CARNETLIFY_AUTH_ISSUER", &c.Auth.Issuer)
	str("CARNETLIFY_TOKEN", &c.Auth.Token)
	str("CARNETLIFY_DB", &c.Store.DBPath)
	str("CARNETLIFY_LOCAL_DIR", &c.Local.Dir)
	str("CARNETLIFY_REDIS_ADDR", &c.Redis.Addr)
	str("CARNETLIFY_REDIS_PASSWORD", &c.Redis.Password)
	str("CARNETLIFY_LOG_MODE", &c.Log.Mode)
	str("CARNETLIFY_LOG_LEVEL", &c.Log.Level)
	str("CARNETLIFY_LOG_FILE", &c.Log.File)

	if v, ok := lookup("CARNETLIFY_AUTH_TOKEN_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CARNETLIFY_AUTH_TOKEN_TTL: %w", err)
		}
		c.Auth.TokenTTL = d
	}
	if v, ok := lookup("CARNETLIFY_REMOTE_RATE"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("CARNETLIFY_REMOTE_RATE: %w", err)
		}
		c.Remote.RatePerSecond = f
	}
	return nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RemoteClient converts the client settings into a remote.Config.
func (c *Config) RemoteClient() remote.Config {
	return remote.Config{
		BaseURL: c.Server.BaseURL,
		Timeout: c.Remote.Timeout,
		Retry: remote.RetryConfig{
			MaxAttempts: c.Remote.Retry.MaxAttempts,
			InitialWait: c.Remote.Retry.InitialWait,
			MaxWait:     c.Remote.Retry.MaxWait,
			Multiplier:  c.Remote.Retry.Multiplier,
		},
		WritesPerSecond: c.Remote.RatePerSecond,
		WriteBurst:      c.Remote.Burst,
	}
}

// DefaultPath resolves the config file location:
// 1. CARNETLIFY_CONFIG environment variable
// 2. $XDG_CONFIG_HOME/carnetlify/config.yaml
// 3. ~/.config/carnetlify/config.yaml
func DefaultPath() (string, error) {
	if p := os.Getenv("CARNETLIFY_CONFIG"); p != "" {
		return p, nil
	}
	return xdgPath("XDG_CONFIG_HOME", ".config", "config.yaml")
}

// DefaultLogPath resolves the client log file:
// $XDG_STATE_HOME/carnetlify/carnetlify.log, else
// ~/.local/state/carnetlify/carnetlify.log.
func DefaultLogPath() (string, error) {
	return xdgPath("XDG_STATE_HOME", filepath.Join(".local", "state"), "carnetlify.log")
}

func xdgPath(env, fallback, name string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(base, "carnetlify", name), nil
}

// Write stores cfg as YAML at path, creating parent directories.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
