package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/borgmon/soc-alerts/pkg/config"
	"github.com/borgmon/soc-alerts/pkg/dispatch"
	"github.com/borgmon/soc-alerts/pkg/history"
	"github.com/borgmon/soc-alerts/pkg/snippets"
	"github.com/borgmon/soc-alerts/pkg/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "soc-alerts",
	Short: "SOC Alerts - scheduled reminders for the operations desk",
	Long: `SOC Alerts runs in the system tray and raises time-of-day alerts with
optional repetition, urgency-keyed sound cues and a linked clipboard snippet.
Run without a subcommand to start the tray app.`,
	SilenceUsage: true,
	RunE:         runApp,
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.soc-alerts/config.yaml)")
}

// loadConfig reads an optional .env file into the environment, then the config
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return config.Load(cfgFile)
}

// newLogger creates a structured logger from config
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// services are the stores and sinks shared by the tray app and the subcommands
type services struct {
	cfg       *config.Config
	logger    *slog.Logger
	alerts    *store.AlertStore
	snippets  *snippets.Store
	history   *history.SQLite // nil when disabled
	notifiers []dispatch.Notifier
}

func openServices(cfg *config.Config, logger *slog.Logger) (*services, error) {
	s := &services{
		cfg:      cfg,
		logger:   logger,
		alerts:   store.NewAlertStore(cfg.AlertsPath(), logger),
		snippets: snippets.NewStore(cfg.SnippetsPath(), logger),
	}

	if cfg.History.Enabled {
		h, err := history.NewSQLite(cfg.HistoryPath())
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		s.history = h
		s.notifiers = append(s.notifiers, h)
	}

	if cfg.Webhook.Enabled {
		s.notifiers = append(s.notifiers, dispatch.NewWebhookNotifier(cfg.Webhook.URL, cfg.Webhook.Secret))
	}

	return s, nil
}

// acknowledger returns the history store as a dispatch.Acknowledger, or nil
func (s *services) acknowledger() dispatch.Acknowledger {
	if s.history == nil {
		return nil
	}
	return s.history
}

func (s *services) Close() error {
	if s.history == nil {
		return nil
	}
	return s.history.Close()
}
