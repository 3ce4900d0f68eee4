package main

import (
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/soc-alerts/pkg/dispatch"
	"github.com/borgmon/soc-alerts/pkg/store"
	"github.com/borgmon/soc-alerts/pkg/ui/components"
)

func (cw *CenterWindow) buildAlertsTab() fyne.CanvasObject {
	var list fyne.CanvasObject
	cw.alertList, list = components.NewActionList([]components.RowAction{
		{
			Icon: theme.DocumentCreateIcon(),
			Run:  func(i int) { cw.showAlertForm(&cw.alertRows[i]) },
		},
		{
			Customize: func(i int, b *widget.Button) {
				if cw.alertRows[i].Alert.Enabled {
					b.SetText("Disable")
				} else {
					b.SetText("Enable")
				}
			},
			Run: func(i int) { cw.toggleAlert(cw.alertRows[i]) },
		},
		{
			Icon: theme.DeleteIcon(),
			Run:  func(i int) { cw.confirmDeleteAlert(cw.alertRows[i]) },
		},
	})

	cw.alertsEmpty = widget.NewLabel("No alerts yet. Use New Alert to create one.")
	cw.alertsEmpty.Alignment = fyne.TextAlignCenter

	newButton := widget.NewButtonWithIcon("New Alert", theme.ContentAddIcon(), func() {
		cw.showAlertForm(nil)
	})
	newButton.Importance = widget.HighImportance

	toolbar := container.NewHBox(newButton)
	return container.NewBorder(
		container.NewVBox(toolbar, widget.NewSeparator()),
		nil, nil, nil,
		container.NewStack(list, container.NewCenter(cw.alertsEmpty)),
	)
}

func (cw *CenterWindow) refreshAlerts() {
	cw.alertRows = cw.sa.alerts.List()

	rows := make([]components.Row, len(cw.alertRows))
	for i, l := range cw.alertRows {
		rows[i] = alertRow(l)
	}
	cw.alertList.SetRows(rows)

	if len(rows) == 0 {
		cw.alertsEmpty.Show()
	} else {
		cw.alertsEmpty.Hide()
	}
}

func alertRow(l store.Listed) components.Row {
	a := l.Alert
	details := []string{describeSchedule(a), string(a.Urgency)}
	if a.LinkedClipboard != "" {
		details = append(details, "copies "+truncateString(a.LinkedClipboard, 25))
	}
	if a.LastTriggered != "" {
		details = append(details, "last fired "+a.LastTriggered)
	}
	if !a.Enabled {
		details = append(details, "disabled")
	}

	return components.Row{
		Title:  a.Title,
		Detail: strings.Join(details, " | "),
		Accent: dispatch.HeaderColor(a.Urgency),
		Dimmed: !a.Enabled,
	}
}

func (cw *CenterWindow) toggleAlert(l store.Listed) {
	if err := cw.sa.alerts.SetEnabled(l.Ref, !l.Alert.Enabled); err != nil {
		cw.showStoreError(err)
		return
	}
	cw.alertsChanged()
}

func (cw *CenterWindow) confirmDeleteAlert(l store.Listed) {
	msg := fmt.Sprintf("Delete alert %q?", l.Alert.Title)
	dialog.ShowConfirm("Delete Alert", msg, func(confirmed bool) {
		if !confirmed {
			return
		}
		if err := cw.sa.alerts.Delete(l.Ref); err != nil {
			cw.showStoreError(err)
			return
		}
		cw.alertsChanged()
	}, cw.window)
}

// alertsChanged refreshes everything that shows alerts without waiting for
// the file watcher
func (cw *CenterWindow) alertsChanged() {
	cw.refreshAlerts()
	cw.sa.updateSystemTrayMenu()
}

func (cw *CenterWindow) showStoreError(err error) {
	if errors.Is(err, store.ErrNotFound) {
		err = errors.New("the alert was changed elsewhere, the list has been reloaded")
		cw.refreshAlerts()
	}
	cw.showError(err)
}
