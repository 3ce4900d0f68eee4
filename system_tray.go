package main

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/borgmon/soc-alerts/pkg/schedule"
)

const upcomingLimit = 5

func (sa *SOCAlerts) setupSystemTray() {
	sa.updateSystemTrayMenu()
}

// updateSystemTrayMenu rebuilds the tray menu. It must run on the UI thread.
func (sa *SOCAlerts) updateSystemTrayMenu() {
	desk, ok := sa.app.(desktop.App)
	if !ok {
		return
	}

	menu := fyne.NewMenu("SOC Alerts", sa.trayMenuItems(time.Now())...)
	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(theme.WarningIcon())
}

func (sa *SOCAlerts) trayMenuItems(now time.Time) []*fyne.MenuItem {
	menuItems := []*fyne.MenuItem{}

	// Upcoming alerts section at the top
	upcoming := schedule.Upcoming(sa.alerts.Load(), now, upcomingLimit)
	if len(upcoming) > 0 {
		headerItem := fyne.NewMenuItem("Upcoming Today:", nil)
		headerItem.Disabled = true
		menuItems = append(menuItems, headerItem)

		for _, o := range upcoming {
			alertText := fmt.Sprintf("  %s - %s", o.At.Format("3:04 PM"), truncateString(o.Alert.Title, 35))
			alertItem := fyne.NewMenuItem(alertText, nil)
			alertItem.Disabled = true
			menuItems = append(menuItems, alertItem)
		}
	} else {
		noneItem := fyne.NewMenuItem("No more alerts today", nil)
		noneItem.Disabled = true
		menuItems = append(menuItems, noneItem)
	}
	menuItems = append(menuItems, fyne.NewMenuItemSeparator())

	muteItem := fyne.NewMenuItem("Mute Sounds", sa.toggleMute)
	muteItem.Checked = sa.preferences().Muted

	menuItems = append(menuItems,
		fyne.NewMenuItem("Alerts Center", sa.showCenterWindow),
		muteItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", sa.quit),
	)
	return menuItems
}

func (sa *SOCAlerts) toggleMute() {
	p := sa.preferences()
	p.Muted = !p.Muted
	if err := sa.savePreferences(p); err != nil {
		sa.logger.Error("save preferences", "error", err)
	}
}
