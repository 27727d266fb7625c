package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"aircon-bridge/internal/logger"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Controller ControllerConfig `yaml:"controller"`
	Database   DatabaseConfig   `yaml:"database"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// ControllerConfig describes how to reach the remote HVAC controller.
type ControllerConfig struct {
	URL             string        `yaml:"url"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
	TimeoutSeconds  int           `yaml:"timeout_seconds"`
	Timeout         time.Duration `yaml:"-"`
	Retry           int           `yaml:"retry"`
	HTTPProxy       string        `yaml:"http_proxy"`
}

// DatabaseConfig holds the command log database configuration.
type DatabaseConfig struct {
	Enabled                bool   `yaml:"enabled"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// MQTTConfig holds the broker settings for the state publisher.
type MQTTConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Broker    string `yaml:"broker"`
	ClientID  string `yaml:"client_id"`
	TopicRoot string `yaml:"topic_root"`
	Workers   int    `yaml:"workers"`
}

// LogConfig selects the minimum log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() error {
	if cfg.Controller.URL == "" {
		return errors.New("controller.url must be set")
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 5
	}

	if cfg.Controller.IntervalSeconds <= 0 {
		cfg.Controller.IntervalSeconds = 15
	}
	cfg.Controller.Interval = time.Duration(cfg.Controller.IntervalSeconds) * time.Second

	if cfg.Controller.TimeoutSeconds <= 0 {
		cfg.Controller.TimeoutSeconds = 10
	}
	cfg.Controller.Timeout = time.Duration(cfg.Controller.TimeoutSeconds) * time.Second

	if cfg.Controller.Retry <= 0 {
		cfg.Controller.Retry = 5
	}

	if cfg.MQTT.Enabled && cfg.MQTT.Broker == "" {
		return errors.New("mqtt.broker must be set when mqtt is enabled")
	}
	if cfg.MQTT.TopicRoot == "" {
		cfg.MQTT.TopicRoot = "aircon"
	}
	if cfg.MQTT.Workers <= 0 {
		logger.Warn("mqtt.workers is not set or invalid; defaulting to 1")
		cfg.MQTT.Workers = 1
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	return nil
}
