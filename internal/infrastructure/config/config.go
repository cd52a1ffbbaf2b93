package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"log_level"`

	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	FMCSA    FMCSAConfig    `koanf:"fmcsa"`
	Security SecurityConfig `koanf:"security"`
}

type ServerConfig struct {
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

type RedisConfig struct {
	URL          string        `koanf:"url"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db"`
	PoolSize     int           `koanf:"pool_size"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

type FMCSAConfig struct {
	BaseURL           string        `koanf:"base_url"`
	WebKey            string        `koanf:"web_key"`
	Timeout           time.Duration `koanf:"timeout"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`
	RequestsPerSecond int           `koanf:"requests_per_second"`
}

type SecurityConfig struct {
	APIKey    string          `koanf:"api_key"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerSecond int `koanf:"requests_per_second"`
	BurstSize         int `koanf:"burst_size"`
}

func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Load defaults
	defaults := &Config{
		Version:     "dev",
		Environment: "development",
		LogLevel:    "info",
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			URL:             "postgres://localhost:5432/carrier_sales?sslmode=disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			URL:          "localhost:6379",
			DB:           0,
			PoolSize:     10,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		FMCSA: FMCSAConfig{
			BaseURL:           "https://mobile.fmcsa.dot.gov/qc/services/carriers",
			Timeout:           10 * time.Second,
			CacheTTL:          time.Hour,
			RequestsPerSecond: 5,
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 50,
				BurstSize:         100,
			},
		},
	}

	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// Load from config file if present; absence is fine.
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		if !strings.Contains(err.Error(), "no such file") {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	// Override with environment variables. Double underscore nests, single
	// underscore stays literal: CARRIER_FMCSA__WEB_KEY -> fmcsa.web_key.
	if err := k.Load(env.Provider("CARRIER_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "CARRIER_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate catches configurations that cannot serve traffic.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database url is required")
	}
	if c.Environment == "production" && c.Security.APIKey == "" {
		return fmt.Errorf("api key is required in production")
	}
	return nil
}

// AuthDisabled reports whether requests should skip the API key check.
// Only development deployments may run without a key.
func (c *Config) AuthDisabled() bool {
	return c.Security.APIKey == ""
}
