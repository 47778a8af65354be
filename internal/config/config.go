// Package config loads application configuration from a YAML file with
// environment variable overrides (prefix MACROSIM).
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration for both the
// collaborator server and the terminal simulator.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Session   SessionConfig   `mapstructure:"session"`
	Collab    CollabConfig    `mapstructure:"collaborator"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Recording RecordingConfig `mapstructure:"recording"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds the HTTP collaborator service configuration.
type ServerConfig struct {
	ListenAddr      string        `mapstructure:"listen_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RefreshSpec     string        `mapstructure:"conditions_refresh_cron"`
}

// SessionConfig holds simulation session behavior configuration.
type SessionConfig struct {
	Length           int           `mapstructure:"length_seconds"`
	TickInterval     time.Duration `mapstructure:"tick_interval"`
	InitialValue     float64       `mapstructure:"initial_value"`
	DriftEveryTicks  int           `mapstructure:"drift_every_ticks"`
	EventEveryTicks  int           `mapstructure:"event_every_ticks"`
	NotificationTTL  time.Duration `mapstructure:"notification_ttl"`
	RandomSeed       int64         `mapstructure:"random_seed"`
	InflationCeiling float64       `mapstructure:"inflation_stability_threshold"`
}

// CollabConfig holds the collaborator API client configuration.
type CollabConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// AlertsConfig holds user alert persistence and evaluation configuration.
type AlertsConfig struct {
	FilePath string `mapstructure:"file_path"`
	CronSpec string `mapstructure:"cron"`
}

// TelegramConfig holds optional Telegram notification configuration.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	Enabled  bool   `mapstructure:"enabled"`
}

// RecordingConfig holds session history persistence configuration.
type RecordingConfig struct {
	SQLitePath string `mapstructure:"sqlite_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Load reads configuration from the given file path, applying defaults and
// environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	setDefaults(v)

	v.SetEnvPrefix("MACROSIM")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// defaults are static; an unmarshal failure here is a programming error
		panic(err)
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_addr", ":8085")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("server.conditions_refresh_cron", "@every 1m")

	v.SetDefault("session.length_seconds", 120)
	v.SetDefault("session.tick_interval", "1s")
	v.SetDefault("session.initial_value", 1_000_000.0)
	v.SetDefault("session.drift_every_ticks", 10)
	v.SetDefault("session.event_every_ticks", 20)
	v.SetDefault("session.notification_ttl", "3s")
	v.SetDefault("session.random_seed", 0)
	v.SetDefault("session.inflation_stability_threshold", 5.0)

	v.SetDefault("collaborator.base_url", "http://localhost:8085")
	v.SetDefault("collaborator.timeout", "5s")
	v.SetDefault("collaborator.max_retries", 3)

	v.SetDefault("alerts.file_path", "./data/alerts.json")
	v.SetDefault("alerts.cron", "@every 1m")

	v.SetDefault("telegram.enabled", false)

	v.SetDefault("recording.sqlite_path", "./data/macrosim.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file", "")
}

// Validate checks that all configuration values are usable.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	if c.Session.Length < 1 {
		return fmt.Errorf("session.length_seconds must be at least 1")
	}
	if c.Session.TickInterval <= 0 {
		return fmt.Errorf("session.tick_interval must be positive")
	}
	if c.Session.InitialValue <= 0 {
		return fmt.Errorf("session.initial_value must be positive")
	}
	if c.Session.DriftEveryTicks < 1 {
		return fmt.Errorf("session.drift_every_ticks must be at least 1")
	}
	if c.Session.EventEveryTicks < 1 {
		return fmt.Errorf("session.event_every_ticks must be at least 1")
	}
	if c.Session.NotificationTTL <= 0 {
		return fmt.Errorf("session.notification_ttl must be positive")
	}
	if c.Collab.BaseURL == "" {
		return fmt.Errorf("collaborator.base_url is required")
	}
	if c.Collab.MaxRetries < 1 {
		return fmt.Errorf("collaborator.max_retries must be at least 1")
	}
	if c.Alerts.FilePath == "" {
		return fmt.Errorf("alerts.file_path is required")
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	return nil
}
