package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/soc-alerts/pkg/dispatch"
	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/borgmon/soc-alerts/pkg/platform"
	"github.com/borgmon/soc-alerts/pkg/ui/components"
)

const focusCheckInterval = 500 * time.Millisecond

// AlertWindow is the acknowledgment popup of one firing
type AlertWindow struct {
	window      fyne.Window
	firing      models.Firing
	alert       models.Alert
	holdSeconds int

	onAcknowledge func(models.Firing)
	onCopy        func(title string) bool

	ackOnce        sync.Once
	stopMonitoring chan struct{}
}

// NewAlertWindow builds the popup. It must be called on the UI thread.
// holdSeconds > 0 requires the acknowledge button to be held and keeps the
// window in front until then.
func NewAlertWindow(app fyne.App, f models.Firing, a models.Alert, holdSeconds int, onAcknowledge func(models.Firing), onCopy func(string) bool) *AlertWindow {
	aw := &AlertWindow{
		firing:         f,
		alert:          a,
		holdSeconds:    holdSeconds,
		onAcknowledge:  onAcknowledge,
		onCopy:         onCopy,
		stopMonitoring: make(chan struct{}),
	}

	aw.window = app.NewWindow(fmt.Sprintf("Alert - %s", a.Title))
	aw.window.SetContent(aw.buildUI())
	aw.window.Resize(fyne.NewSize(520, 320))
	aw.window.CenterOnScreen()
	aw.window.SetCloseIntercept(func() {
		if aw.holdSeconds > 0 {
			return
		}
		aw.acknowledge()
	})

	if aw.holdSeconds > 0 {
		aw.setupFocusMonitoring()
	}

	return aw
}

func (aw *AlertWindow) buildUI() fyne.CanvasObject {
	title := canvas.NewText(aw.alert.Title, color.White)
	title.TextSize = 24
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter

	urgency := canvas.NewText(fmt.Sprintf("%s urgency", aw.alert.Urgency), color.White)
	urgency.Alignment = fyne.TextAlignCenter

	header := container.NewStack(
		canvas.NewRectangle(dispatch.HeaderColor(aw.alert.Urgency)),
		container.NewPadded(container.NewVBox(title, urgency)),
	)

	timeLabel := widget.NewLabel(fmt.Sprintf("Scheduled %s - fired at %s",
		describeSchedule(aw.alert), aw.firing.FiredAt.Format("3:04 PM")))
	timeLabel.Alignment = fyne.TextAlignCenter

	content := container.NewVBox(timeLabel)

	if aw.alert.Description != "" {
		description := widget.NewLabel(aw.alert.Description)
		description.Wrapping = fyne.TextWrapWord
		description.Alignment = fyne.TextAlignCenter
		content.Add(widget.NewSeparator())
		content.Add(container.NewPadded(description))
	}

	if snippet := aw.alert.LinkedClipboard; snippet != "" {
		status := widget.NewLabel(fmt.Sprintf("Snippet %q copied to clipboard", snippet))
		status.Alignment = fyne.TextAlignCenter
		copyButton := widget.NewButton("Copy Again", func() {
			if aw.onCopy != nil && !aw.onCopy(snippet) {
				status.SetText(fmt.Sprintf("Snippet %q is not available", snippet))
			}
		})
		content.Add(widget.NewSeparator())
		content.Add(status)
		content.Add(container.NewCenter(copyButton))
	}

	content.Add(widget.NewSeparator())
	content.Add(container.NewCenter(aw.acknowledgeButton()))

	return container.NewBorder(header, nil, nil, nil, container.NewPadded(container.NewVScroll(content)))
}

func (aw *AlertWindow) acknowledgeButton() fyne.CanvasObject {
	if aw.holdSeconds > 0 {
		return components.NewHoldButton(
			fmt.Sprintf("Acknowledge (Hold %ds)", aw.holdSeconds),
			time.Duration(aw.holdSeconds)*time.Second,
			aw.acknowledge,
		)
	}

	button := widget.NewButton("Acknowledge", aw.acknowledge)
	button.Importance = widget.HighImportance
	return button
}

// acknowledge runs on the UI thread
func (aw *AlertWindow) acknowledge() {
	aw.ackOnce.Do(func() {
		close(aw.stopMonitoring)
		if aw.onAcknowledge != nil {
			aw.onAcknowledge(aw.firing)
		}
		aw.window.Close()
	})
}

func (aw *AlertWindow) Show() {
	aw.window.Show()
	aw.window.RequestFocus()
}

// setupFocusMonitoring brings the app back to the front until acknowledged
func (aw *AlertWindow) setupFocusMonitoring() {
	go func() {
		ticker := time.NewTicker(focusCheckInterval)
		defer ticker.Stop()

		for {
			select {
			case <-aw.stopMonitoring:
				return
			case <-ticker.C:
				if platform.IsAppActive() {
					continue
				}
				slog.Debug("alert window not active, bringing to front", "firing", aw.firing.ID)
				platform.ActivateApp()
				fyne.Do(func() {
					select {
					case <-aw.stopMonitoring:
					default:
						aw.window.Show()
						aw.window.RequestFocus()
					}
				})
			}
		}
	}()
}
