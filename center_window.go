package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/soc-alerts/pkg/snippets"
	"github.com/borgmon/soc-alerts/pkg/store"
	"github.com/borgmon/soc-alerts/pkg/ui/components"
)

// CenterWindow is the Alerts Center: alert cards, clipboard snippets,
// firing history and settings in one tabbed window
type CenterWindow struct {
	window  fyne.Window
	sa      *SOCAlerts
	tabs    *container.AppTabs
	visible bool

	// Alerts tab
	alertList   *components.ActionList
	alertRows   []store.Listed
	alertsEmpty *widget.Label

	// Clipboard tab
	snippetList  *components.ActionList
	snippetRows  []snippets.Listed
	snippetsInfo *widget.Label

	// History tab
	historyList *components.ActionList
	historyInfo *widget.Label

	// Settings tab
	autoStartCheck  *widget.Check
	themeSelect     *widget.Select
	mutedCheck      *widget.Check
	holdTimeSelect  *widget.Select
	quietTimeEntry  *widget.Entry
	saveStatusLabel *widget.Label
	saveButton      *widget.Button
}

func NewCenterWindow(sa *SOCAlerts) *CenterWindow {
	cw := &CenterWindow{sa: sa}

	cw.window = sa.app.NewWindow("SOC Alerts - Alerts Center")
	cw.buildUI()
	cw.window.Resize(fyne.NewSize(720, 520))
	cw.window.SetCloseIntercept(cw.Hide)

	return cw
}

func (cw *CenterWindow) buildUI() {
	historyTab := container.NewTabItem("History", cw.buildHistoryTab())

	cw.tabs = container.NewAppTabs(
		container.NewTabItem("Alerts", cw.buildAlertsTab()),
		container.NewTabItem("Clipboard", cw.buildSnippetsTab()),
		historyTab,
		container.NewTabItem("Settings", cw.buildSettingsTab()),
	)
	cw.tabs.OnSelected = func(item *container.TabItem) {
		if item == historyTab {
			cw.refreshHistory()
		}
	}

	cw.window.SetContent(cw.tabs)
}

// Show refreshes every tab and brings the window to front
func (cw *CenterWindow) Show() {
	cw.refreshAlerts()
	cw.refreshSnippets()
	cw.refreshHistory()
	cw.visible = true
	cw.window.Show()
	cw.window.RequestFocus()
}

func (cw *CenterWindow) Hide() {
	cw.visible = false
	cw.window.Hide()
}

func (cw *CenterWindow) showError(err error) {
	dialog.ShowError(err, cw.window)
}
