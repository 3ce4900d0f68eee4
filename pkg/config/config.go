// Package config loads runtime settings from file and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/spf13/viper"
)

// Config holds all soc-alerts configuration
type Config struct {
	DataDir string        `mapstructure:"data_dir"`
	User    string        `mapstructure:"user"`
	Monitor MonitorConfig `mapstructure:"monitor"`
	History HistoryConfig `mapstructure:"history"`
	Webhook WebhookConfig `mapstructure:"webhook"`
	Sounds  SoundsConfig  `mapstructure:"sounds"`
	Hotkey  HotkeyConfig  `mapstructure:"hotkey"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// MonitorConfig controls the polling loop
type MonitorConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// HistoryConfig controls the firing log
type HistoryConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// WebhookConfig defines the optional HTTP sink
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Secret  string `mapstructure:"secret"`
}

// SoundsConfig holds optional WAV overrides per urgency
type SoundsConfig struct {
	Low    string `mapstructure:"low"`
	Normal string `mapstructure:"normal"`
	High   string `mapstructure:"high"`
	Muted  bool   `mapstructure:"muted"`
}

// HotkeyConfig controls the global Alerts Center shortcut
type HotkeyConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Key     string `mapstructure:"key"`
}

// LoggingConfig defines logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".soc-alerts"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetDefault("data_dir", "./config")
	v.SetDefault("user", currentUser())
	v.SetDefault("monitor.poll_interval", "10s")
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")
	v.SetDefault("history.retention_days", 90)
	v.SetDefault("webhook.enabled", false)
	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.secret", "")
	v.SetDefault("sounds.low", "")
	v.SetDefault("sounds.normal", "")
	v.SetDefault("sounds.high", "")
	v.SetDefault("sounds.muted", false)
	v.SetDefault("hotkey.enabled", true)
	v.SetDefault("hotkey.key", "F7")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetEnvPrefix("SOCALERTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the app cannot run with
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	if sanitizeUser(c.User) == "" {
		return errors.New("user must not be empty")
	}
	if c.Monitor.PollInterval < time.Second {
		return fmt.Errorf("monitor.poll_interval must be at least 1s, got %s", c.Monitor.PollInterval)
	}
	if c.Webhook.Enabled && c.Webhook.URL == "" {
		return errors.New("webhook.url is required when webhook.enabled is set")
	}
	return nil
}

// AlertsPath is the per-user alert file
func (c *Config) AlertsPath() string {
	return filepath.Join(c.DataDir, fmt.Sprintf("alerts_%s.json", sanitizeUser(c.User)))
}

// SnippetsPath is the per-user clipboard snippet file
func (c *Config) SnippetsPath() string {
	return filepath.Join(c.DataDir, fmt.Sprintf("clipboard_%s.json", sanitizeUser(c.User)))
}

// HistoryPath is the firing log database
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return filepath.Join(c.DataDir, "history.db")
}

// SoundOverrides maps urgencies to configured WAV files
func (c *Config) SoundOverrides() map[models.Urgency]string {
	overrides := map[models.Urgency]string{}
	for u, path := range map[models.Urgency]string{
		models.UrgencyLow:    c.Sounds.Low,
		models.UrgencyNormal: c.Sounds.Normal,
		models.UrgencyHigh:   c.Sounds.High,
	} {
		if path != "" {
			overrides[u] = path
		}
	}
	return overrides
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	for _, env := range []string{"USER", "USERNAME"} {
		if name := os.Getenv(env); name != "" {
			return name
		}
	}
	return "default"
}

// sanitizeUser strips a Windows domain prefix and path separators
func sanitizeUser(name string) string {
	if i := strings.LastIndexAny(name, `\/`); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSpace(name)
}
