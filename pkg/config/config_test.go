package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/borgmon/soc-alerts/pkg/config"
	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "./config", cfg.DataDir)
	assert.NotEmpty(t, cfg.User)
	assert.Equal(t, 10*time.Second, cfg.Monitor.PollInterval)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 90, cfg.History.RetentionDays)
	assert.False(t, cfg.Webhook.Enabled)
	assert.True(t, cfg.Hotkey.Enabled)
	assert.Equal(t, "F7", cfg.Hotkey.Key)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.SoundOverrides())
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	data := []byte(`
data_dir: /srv/soc
user: jdoe
monitor:
  poll_interval: 5s
history:
  path: /var/lib/soc/history.db
webhook:
  enabled: true
  url: https://hooks.example.com/soc
sounds:
  high: /srv/soc/siren.wav
logging:
  level: debug
  format: json
`)
	require.NoError(t, os.WriteFile(cfgPath, data, 0o644))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Monitor.PollInterval)
	assert.Equal(t, filepath.Join("/srv/soc", "alerts_jdoe.json"), cfg.AlertsPath())
	assert.Equal(t, filepath.Join("/srv/soc", "clipboard_jdoe.json"), cfg.SnippetsPath())
	assert.Equal(t, "/var/lib/soc/history.db", cfg.HistoryPath())
	assert.True(t, cfg.Webhook.Enabled)
	assert.Equal(t, "https://hooks.example.com/soc", cfg.Webhook.URL)
	assert.Equal(t, map[models.Urgency]string{models.UrgencyHigh: "/srv/soc/siren.wav"}, cfg.SoundOverrides())
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SOCALERTS_USER", `CORP\jdoe`)
	t.Setenv("SOCALERTS_DATA_DIR", "/tmp/soc")
	t.Setenv("SOCALERTS_MONITOR_POLL_INTERVAL", "30s")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Monitor.PollInterval)
	assert.Equal(t, filepath.Join("/tmp/soc", "alerts_jdoe.json"), cfg.AlertsPath())
	assert.Equal(t, filepath.Join("/tmp/soc", "history.db"), cfg.HistoryPath())
}

func TestLoad_InvalidFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("invalid: [yaml"), 0o644))

	_, err := config.Load(cfgPath)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := config.Config{DataDir: "d", User: "u", Monitor: config.MonitorConfig{PollInterval: 10 * time.Second}}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *config.Config)
	}{
		{"empty data dir", func(c *config.Config) { c.DataDir = "" }},
		{"empty user", func(c *config.Config) { c.User = " " }},
		{"poll too fast", func(c *config.Config) { c.Monitor.PollInterval = 100 * time.Millisecond }},
		{"webhook without url", func(c *config.Config) { c.Webhook.Enabled = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
