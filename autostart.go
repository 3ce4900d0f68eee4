package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"
)

func setupAutostart(enable bool, logger *slog.Logger) error {
	execPath, err := os.Executable()
	if err != nil {
		return err
	}

	// Resolve symlinks if any
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return err
	}

	app := &autostart.App{
		Name:        "soc-alerts",
		DisplayName: "SOC Alerts",
		Exec:        []string{execPath},
	}

	switch {
	case enable && !app.IsEnabled():
		if err := app.Enable(); err != nil {
			return err
		}
		logger.Info("autostart enabled", "exec", execPath)
	case !enable && app.IsEnabled():
		if err := app.Disable(); err != nil {
			return err
		}
		logger.Info("autostart disabled")
	}

	return nil
}
