package main

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/soc-alerts/pkg/dispatch"
	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/borgmon/soc-alerts/pkg/ui/components"
)

const (
	historyLimit   = 100
	historyTimeout = 5 * time.Second
)

func (cw *CenterWindow) buildHistoryTab() fyne.CanvasObject {
	var list fyne.CanvasObject
	cw.historyList, list = components.NewActionList(nil)

	cw.historyInfo = widget.NewLabel("")
	cw.historyInfo.Alignment = fyne.TextAlignCenter
	cw.historyInfo.Wrapping = fyne.TextWrapWord

	refreshButton := widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), cw.refreshHistory)
	header := widget.NewLabel(fmt.Sprintf("Last %d fired alerts", historyLimit))

	return container.NewBorder(
		container.NewVBox(container.NewBorder(nil, nil, header, refreshButton), widget.NewSeparator()),
		nil, nil, nil,
		container.NewStack(list, container.NewCenter(cw.historyInfo)),
	)
}

// refreshHistory reloads the firing log. It must be called on the UI thread;
// the query itself runs in the background.
func (cw *CenterWindow) refreshHistory() {
	h := cw.sa.history
	if h == nil {
		cw.historyList.SetRows(nil)
		cw.historyInfo.SetText("History is disabled. Set history.enabled in the config file to record fired alerts.")
		cw.historyInfo.Show()
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(cw.sa.ctx, historyTimeout)
		defer cancel()
		firings, err := h.Recent(ctx, historyLimit)

		fyne.Do(func() {
			if err != nil {
				cw.sa.logger.Error("read history", "error", err)
				cw.historyList.SetRows(nil)
				cw.historyInfo.SetText(fmt.Sprintf("History could not be read: %v", err))
				cw.historyInfo.Show()
				return
			}

			rows := make([]components.Row, len(firings))
			for i, f := range firings {
				rows[i] = firingRow(f)
			}
			cw.historyList.SetRows(rows)

			if len(rows) == 0 {
				cw.historyInfo.SetText("No alerts have fired yet.")
				cw.historyInfo.Show()
			} else {
				cw.historyInfo.Hide()
			}
		})
	}()
}

func firingRow(f models.Firing) components.Row {
	detail := fmt.Sprintf("%s | fired %s", f.Urgency, f.FiredAt.Local().Format(time.DateTime))
	if f.AcknowledgedAt != nil {
		detail += fmt.Sprintf(" | acknowledged %s (after %s)",
			f.AcknowledgedAt.Local().Format(time.TimeOnly),
			f.AcknowledgedAt.Sub(f.FiredAt).Round(time.Second))
	} else {
		detail += " | not acknowledged"
	}

	return components.Row{
		Title:  f.Title,
		Detail: detail,
		Accent: dispatch.HeaderColor(f.Urgency),
		Dimmed: f.Acknowledged(),
	}
}
