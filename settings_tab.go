package main

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/soc-alerts/pkg/calendar"
	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/borgmon/soc-alerts/pkg/schedule"
)

const savedMessage = "Settings saved successfully"

var themeOptions = []string{"Dark", "Light"}

var holdTimeOptions = []string{"0 sec (plain button)", "1 sec", "2 sec", "3 sec", "5 sec", "10 sec"}

func (cw *CenterWindow) buildSettingsTab() fyne.CanvasObject {
	prefs := cw.sa.preferences()

	cw.autoStartCheck = widget.NewCheck("Auto Start on System Boot", func(bool) { cw.markChanged() })
	cw.autoStartCheck.SetChecked(prefs.AutoStart)

	cw.themeSelect = widget.NewSelect(themeOptions, func(string) { cw.markChanged() })
	if prefs.Theme == models.ThemeLight {
		cw.themeSelect.SetSelected("Light")
	} else {
		cw.themeSelect.SetSelected("Dark")
	}

	cw.mutedCheck = widget.NewCheck("Mute all sound cues", func(bool) { cw.markChanged() })
	cw.mutedCheck.SetChecked(prefs.Muted)

	cw.holdTimeSelect = widget.NewSelect(holdTimeOptions, func(string) { cw.markChanged() })
	cw.holdTimeSelect.SetSelected(holdTimeLabel(prefs.HoldTimeSeconds))

	cw.quietTimeEntry = widget.NewEntry()
	cw.quietTimeEntry.SetPlaceHolder("22:00-06:30, 12:00-13:00")
	cw.quietTimeEntry.SetText(formatQuietRanges(prefs.QuietTimeRanges))
	cw.quietTimeEntry.OnChanged = func(string) { cw.markChanged() }

	cw.saveStatusLabel = widget.NewLabel("")
	cw.saveButton = widget.NewButton("Save", cw.saveSettings)
	cw.saveButton.Importance = widget.HighImportance
	cw.saveButton.Disable()

	form := container.New(layout.NewFormLayout(),
		settingLabel("Auto Start:", "Launch SOC Alerts automatically when your system starts"),
		cw.autoStartCheck,

		settingLabel("Theme:", ""),
		cw.themeSelect,

		settingLabel("Sound:", "Cues are also silent inside quiet time"),
		cw.mutedCheck,

		settingLabel("Quiet Time:", "Comma separated HH:MM-HH:MM ranges, may cross midnight"),
		cw.quietTimeEntry,

		settingLabel("High Urgency:", "Hold time required to acknowledge a High urgency alert"),
		cw.holdTimeSelect,

		settingLabel("Storage Location:", "Alerts, snippets and history are stored here"),
		cw.buildStorageRow(),

		settingLabel("Calendar:", "Exchange today's alerts with calendar clients as .ics"),
		cw.buildCalendarRow(),
	)

	content := container.NewVBox(
		widget.NewLabel("Settings"),
		widget.NewSeparator(),
		form,
		widget.NewSeparator(),
		container.NewHBox(layout.NewSpacer(), cw.saveStatusLabel, cw.saveButton),
	)

	return container.NewPadded(container.NewVScroll(content))
}

func settingLabel(label, help string) fyne.CanvasObject {
	box := container.NewVBox(widget.NewLabel(label))
	if help != "" {
		helpLabel := widget.NewLabel(help)
		helpLabel.Wrapping = fyne.TextWrapWord
		helpLabel.Importance = widget.LowImportance
		box.Add(helpLabel)
	}
	return box
}

func (cw *CenterWindow) buildStorageRow() fyne.CanvasObject {
	dataDir, err := filepath.Abs(cw.sa.cfg.DataDir)
	if err != nil {
		dataDir = cw.sa.cfg.DataDir
	}

	storageEntry := widget.NewEntry()
	storageEntry.SetText(dataDir)
	storageEntry.Disable()

	openButton := widget.NewButton("Open in File Manager", func() {
		if err := openFileManager(dataDir); err != nil {
			cw.sa.logger.Warn("open file manager", "path", dataDir, "error", err)
		}
	})

	return container.NewBorder(nil, container.NewPadded(openButton), nil, nil, storageEntry)
}

func openFileManager(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("explorer", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return cmd.Start()
}

func (cw *CenterWindow) buildCalendarRow() fyne.CanvasObject {
	exportButton := widget.NewButton("Export...", func() {
		save := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
			if err != nil || w == nil {
				return
			}
			defer w.Close()
			if err := calendar.Export(w, cw.sa.alerts.Load(), time.Now()); err != nil {
				cw.showError(err)
				return
			}
			cw.sa.logger.Info("alerts exported", "uri", w.URI().String())
		}, cw.window)
		save.SetFileName("soc-alerts.ics")
		save.Show()
	})

	importButton := widget.NewButton("Import...", func() {
		dialog.ShowFileOpen(func(r fyne.URIReadCloser, err error) {
			if err != nil || r == nil {
				return
			}
			defer r.Close()

			var buf bytes.Buffer
			if _, err := buf.ReadFrom(r); err != nil {
				cw.showError(fmt.Errorf("read calendar: %w", err))
				return
			}
			added, updated, err := importAlerts(cw.sa.alerts, &buf, false)
			if err != nil {
				cw.showError(err)
				return
			}
			cw.alertsChanged()
			dialog.ShowInformation("Import Complete",
				fmt.Sprintf("%d alerts imported (%d new, %d updated)", added+updated, added, updated), cw.window)
		}, cw.window)
	})

	return container.NewHBox(exportButton, importButton)
}

func (cw *CenterWindow) markChanged() {
	if cw.saveButton == nil {
		return
	}
	cw.saveButton.Enable()
	cw.saveStatusLabel.SetText("")
}

func (cw *CenterWindow) preferencesFromUI() (models.Preferences, error) {
	ranges, err := parseQuietRanges(cw.quietTimeEntry.Text)
	if err != nil {
		return models.Preferences{}, err
	}

	p := models.Preferences{
		AutoStart:       cw.autoStartCheck.Checked,
		Theme:           models.ThemeDark,
		Muted:           cw.mutedCheck.Checked,
		HoldTimeSeconds: holdTimeFromLabel(cw.holdTimeSelect.Selected),
		QuietTimeRanges: ranges,
	}
	if cw.themeSelect.Selected == "Light" {
		p.Theme = models.ThemeLight
	}
	return p, nil
}

func (cw *CenterWindow) saveSettings() {
	p, err := cw.preferencesFromUI()
	if err != nil {
		cw.showError(err)
		return
	}

	cw.saveButton.Disable()
	if err := cw.sa.savePreferences(p); err != nil {
		cw.saveStatusLabel.Importance = widget.DangerImportance
		cw.saveStatusLabel.SetText("Error: " + err.Error())
		cw.saveButton.Enable()
		return
	}

	cw.saveStatusLabel.Importance = widget.SuccessImportance
	cw.saveStatusLabel.SetText(savedMessage)

	// Clear success message after 3 seconds
	go func() {
		time.Sleep(3 * time.Second)
		fyne.Do(func() {
			if cw.saveStatusLabel.Text == savedMessage {
				cw.saveStatusLabel.SetText("")
			}
		})
	}()
}

func holdTimeLabel(seconds int) string {
	if seconds <= 0 {
		return holdTimeOptions[0]
	}
	label := strconv.Itoa(seconds) + " sec"
	for _, o := range holdTimeOptions {
		if o == label {
			return o
		}
	}
	return "3 sec"
}

func holdTimeFromLabel(label string) int {
	var seconds int
	if _, err := fmt.Sscanf(label, "%d sec", &seconds); err != nil {
		return 0
	}
	return seconds
}

// parseQuietRanges reads "HH:MM-HH:MM" ranges separated by commas
func parseQuietRanges(s string) ([]models.TimeRange, error) {
	ranges := []models.TimeRange{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		from, to, ok := strings.Cut(part, "-")
		if !ok {
			return nil, fmt.Errorf("quiet time %q must look like 22:00-06:30", part)
		}
		start, err := schedule.ParseClock(strings.TrimSpace(from))
		if err != nil {
			return nil, fmt.Errorf("quiet time %q: invalid start", part)
		}
		end, err := schedule.ParseClock(strings.TrimSpace(to))
		if err != nil {
			return nil, fmt.Errorf("quiet time %q: invalid end", part)
		}
		ranges = append(ranges, models.TimeRange{
			StartHour: start / 60, StartMinute: start % 60,
			EndHour: end / 60, EndMinute: end % 60,
		})
	}
	return ranges, nil
}

func formatQuietRanges(ranges []models.TimeRange) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = fmt.Sprintf("%02d:%02d-%02d:%02d", r.StartHour, r.StartMinute, r.EndHour, r.EndMinute)
	}
	return strings.Join(parts, ", ")
}
