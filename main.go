package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/borgmon/soc-alerts/pkg/audio"
	"github.com/borgmon/soc-alerts/pkg/config"
	"github.com/borgmon/soc-alerts/pkg/dispatch"
	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/borgmon/soc-alerts/pkg/monitor"
	"github.com/borgmon/soc-alerts/pkg/platform"
	"github.com/borgmon/soc-alerts/pkg/store"
	"github.com/borgmon/soc-alerts/pkg/watch"
	"github.com/spf13/cobra"
)

const appID = "com.borgmon.soc-alerts"

// trayRefreshInterval keeps the upcoming list from showing past entries
const trayRefreshInterval = time.Minute

type SOCAlerts struct {
	*services

	app        fyne.App
	prefsStore *store.PrefsStore
	cues       *audio.CuePlayer
	dispatcher *dispatch.Dispatcher
	monitor    *monitor.Monitor

	prefsMu sync.RWMutex
	prefs   *models.Preferences

	centerWindow *CenterWindow

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func main() {
	Execute()
}

func runApp(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	sa, err := newSOCAlerts(app.NewWithID(appID), cfg, logger)
	if err != nil {
		return err
	}
	defer sa.services.Close()

	sa.initialize()
	sa.run()
	return nil
}

func newSOCAlerts(a fyne.App, cfg *config.Config, logger *slog.Logger) (*SOCAlerts, error) {
	svc, err := openServices(cfg, logger)
	if err != nil {
		return nil, err
	}

	sa := &SOCAlerts{
		services:   svc,
		app:        a,
		prefsStore: store.NewPrefsStore(a.Preferences()),
		cues:       audio.NewCuePlayer(cfg.SoundOverrides(), logger),
	}
	sa.prefs = sa.prefsStore.Load()
	sa.ctx, sa.cancel = context.WithCancel(context.Background())

	sa.dispatcher = dispatch.New(dispatch.Options{
		Presenter:    sa,
		Clipboard:    dispatch.AppClipboard{App: a},
		Sound:        sa.cues,
		Snippets:     svc.snippets,
		Notifiers:    svc.notifiers,
		Acknowledger: svc.acknowledger(),
		RunOnUI:      dispatch.RunOnFyne,
		Quiet:        sa.soundSuppressed,
		Logger:       logger,
	})

	sa.monitor = monitor.New(svc.alerts, sa.dispatcher, monitor.Config{
		Interval: cfg.Monitor.PollInterval,
		Logger:   logger,
		OnError:  sa.reportPersistError,
	})

	return sa, nil
}

func (sa *SOCAlerts) initialize() {
	prefs := sa.preferences()

	// Sync autostart state with preferences on startup
	if err := setupAutostart(prefs.AutoStart, sa.logger); err != nil {
		sa.logger.Warn("setup autostart", "error", err)
	}
	applyTheme(sa.app, prefs.Theme)

	sa.pruneHistory()
	sa.setupSystemTray()
	sa.startWatcher()
	sa.startTrayRefresh()
	sa.registerHotkey()
	sa.monitor.Start(sa.ctx)
}

func (sa *SOCAlerts) run() {
	sa.app.Lifecycle().SetOnStarted(func() {
		platform.HideFromDock()
	})
	sa.app.Lifecycle().SetOnStopped(sa.shutdown)
	sa.app.Run()
}

func (sa *SOCAlerts) preferences() models.Preferences {
	sa.prefsMu.RLock()
	defer sa.prefsMu.RUnlock()
	return *sa.prefs
}

func (sa *SOCAlerts) savePreferences(p models.Preferences) error {
	old := sa.preferences()
	if p.AutoStart != old.AutoStart {
		if err := setupAutostart(p.AutoStart, sa.logger); err != nil {
			return fmt.Errorf("set autostart: %w", err)
		}
	}

	sa.prefsMu.Lock()
	sa.prefs = &p
	sa.prefsMu.Unlock()

	sa.prefsStore.Save(&p)
	if p.Theme != old.Theme {
		applyTheme(sa.app, p.Theme)
	}
	sa.logger.Info("preferences saved", "theme", p.Theme, "muted", p.Muted, "hold_seconds", p.HoldTimeSeconds)
	sa.updateSystemTrayMenu()
	return nil
}

func (sa *SOCAlerts) soundSuppressed(t time.Time) bool {
	if sa.cfg.Sounds.Muted {
		return true
	}
	sa.prefsMu.RLock()
	defer sa.prefsMu.RUnlock()
	return sa.prefs.SoundSuppressed(t)
}

// ShowAlert implements dispatch.Presenter. It runs on the UI thread.
func (sa *SOCAlerts) ShowAlert(f models.Firing, a models.Alert) {
	hold := 0
	if a.Urgency == models.UrgencyHigh {
		hold = sa.preferences().HoldTimeSeconds
	}

	NewAlertWindow(sa.app, f, a, hold, sa.acknowledge, sa.dispatcher.CopySnippet).Show()
	sa.updateSystemTrayMenu()
}

func (sa *SOCAlerts) acknowledge(f models.Firing) {
	sa.cues.Stop()
	go func() {
		sa.dispatcher.Acknowledge(sa.ctx, f)
		fyne.Do(func() {
			if sa.centerWindow != nil {
				sa.centerWindow.refreshHistory()
			}
		})
	}()
}

// reportPersistError is called from the monitor goroutine
func (sa *SOCAlerts) reportPersistError(err error) {
	fyne.Do(func() {
		if sa.centerWindow != nil && sa.centerWindow.visible {
			sa.centerWindow.showError(fmt.Errorf("fired alerts could not be saved: %w", err))
			return
		}
		sa.app.SendNotification(fyne.NewNotification("SOC Alerts: save failed", err.Error()))
	})
}

func (sa *SOCAlerts) pruneHistory() {
	if sa.history == nil || sa.cfg.History.RetentionDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -sa.cfg.History.RetentionDays)
	n, err := sa.history.Prune(sa.ctx, cutoff)
	if err != nil {
		sa.logger.Warn("prune history", "error", err)
		return
	}
	if n > 0 {
		sa.logger.Info("history pruned", "deleted", n, "before", cutoff.Format(time.DateOnly))
	}
}

// startWatcher refreshes the UI when the data files change on disk
func (sa *SOCAlerts) startWatcher() {
	alertsPath, _ := filepath.Abs(sa.alerts.Path())
	snippetsPath, _ := filepath.Abs(sa.snippets.Path())

	w, err := watch.New([]string{alertsPath, snippetsPath}, watch.DefaultDebounce, func(path string) {
		fyne.Do(func() {
			switch path {
			case alertsPath:
				sa.updateSystemTrayMenu()
				if sa.centerWindow != nil {
					sa.centerWindow.refreshAlerts()
				}
			case snippetsPath:
				if sa.centerWindow != nil {
					sa.centerWindow.refreshSnippets()
				}
			}
		})
	}, sa.logger)
	if err != nil {
		sa.logger.Warn("file watcher unavailable", "error", err)
		return
	}

	sa.wg.Add(1)
	go func() {
		defer sa.wg.Done()
		if err := w.Run(sa.ctx); err != nil {
			sa.logger.Warn("file watcher stopped", "error", err)
		}
	}()
}

func (sa *SOCAlerts) startTrayRefresh() {
	sa.wg.Add(1)
	go func() {
		defer sa.wg.Done()
		ticker := time.NewTicker(trayRefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fyne.Do(sa.updateSystemTrayMenu)
			case <-sa.ctx.Done():
				return
			}
		}
	}()
}

func (sa *SOCAlerts) showCenterWindow() {
	if sa.centerWindow == nil {
		sa.centerWindow = NewCenterWindow(sa)
	}
	sa.centerWindow.Show()
}

func (sa *SOCAlerts) toggleCenterWindow() {
	if sa.centerWindow != nil && sa.centerWindow.visible {
		sa.centerWindow.Hide()
		return
	}
	sa.showCenterWindow()
}

func (sa *SOCAlerts) shutdown() {
	sa.monitor.Stop()
	sa.cancel()
	sa.wg.Wait()
	sa.cues.Stop()
	sa.dispatcher.Close()
}

func (sa *SOCAlerts) quit() {
	sa.app.Quit()
}
