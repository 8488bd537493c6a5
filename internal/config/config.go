package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. PM_SERVER_PORT.
const EnvPrefix = "PM"

// Config is the full runtime configuration of the API server.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Log      LogConfig      `mapstructure:"log"`
	Seed     SeedConfig     `mapstructure:"seed"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// DatabaseConfig points at the SQLite database. ":memory:" keeps all state in
// process memory.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	Issuer   string        `mapstructure:"issuer"`
	Audience string        `mapstructure:"audience"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

// NATSConfig enables fan-out of notifications when URL is set.
type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SeedConfig struct {
	Demo bool `mapstructure:"demo"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8008")
	v.SetDefault("database.path", ":memory:")
	v.SetDefault("auth.secret", "development-insecure-secret-change-me")
	v.SetDefault("auth.issuer", "project-management-api")
	v.SetDefault("auth.audience", "project-management-clients")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject", "pm.notifications")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("seed.demo", false)
}

// Load reads defaults, then the optional YAML file at path, then PM_* environment
// variables, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// defaults are static and always valid
		panic(err)
	}
	return cfg
}

// Validate ensures the config can be used to start the server.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return fmt.Errorf("config.server.port is required")
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("config.database.path is required")
	}
	if c.Auth.Secret == "" {
		return fmt.Errorf("config.auth.secret is required")
	}
	if c.Auth.Issuer == "" || c.Auth.Audience == "" {
		return fmt.Errorf("config.auth.issuer and config.auth.audience are required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("config.auth.token_ttl must be positive")
	}
	if c.NATS.URL != "" && c.NATS.Subject == "" {
		return fmt.Errorf("config.nats.subject is required when nats.url is set")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config.log.level must be one of debug, info, warn, error")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config.log.format must be text or json")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Server.Port, ":")
}
