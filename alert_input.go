package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/borgmon/soc-alerts/pkg/schedule"
)

const (
	noSnippet         = "None"
	maxRepeatInterval = 24 * 60
)

// alertInput is the raw text of the alert form or the add subcommand
type alertInput struct {
	Title       string
	Description string
	Time        string
	Repeat      string
	Urgency     string
	Snippet     string
	Enabled     bool
}

func inputFromAlert(a models.Alert) alertInput {
	snippet := a.LinkedClipboard
	if snippet == "" {
		snippet = noSnippet
	}
	return alertInput{
		Title:       a.Title,
		Description: a.Description,
		Time:        a.Time,
		Repeat:      strconv.Itoa(a.RepeatInterval),
		Urgency:     string(a.Urgency),
		Snippet:     snippet,
		Enabled:     a.Enabled,
	}
}

// toAlert validates the input. The result has no id or last_triggered.
func (in alertInput) toAlert() (models.Alert, error) {
	minutes, err := schedule.ParseClock(strings.TrimSpace(in.Time))
	if err != nil {
		return models.Alert{}, fmt.Errorf("time must be HH:MM (24h), got %q", in.Time)
	}
	clock := fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)

	repeat := 0
	if s := strings.TrimSpace(in.Repeat); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > maxRepeatInterval {
			return models.Alert{}, fmt.Errorf("repeat must be 0 to %d minutes, got %q", maxRepeatInterval, in.Repeat)
		}
		repeat = n
	}

	urgency := models.UrgencyNormal
	if in.Urgency != "" {
		urgency = models.Urgency(in.Urgency)
		if !urgency.Known() {
			return models.Alert{}, fmt.Errorf("urgency must be Low, Normal or High, got %q", in.Urgency)
		}
	}

	snippet := strings.TrimSpace(in.Snippet)
	if snippet == noSnippet {
		snippet = ""
	}

	a := models.Alert{
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		Time:            clock,
		RepeatInterval:  repeat,
		Urgency:         urgency,
		Enabled:         in.Enabled,
		LinkedClipboard: snippet,
	}
	a.Normalize()
	return a, nil
}

// describeSchedule renders "09:00, every 30 min" or "09:00, once"
func describeSchedule(a models.Alert) string {
	if a.OneShot() {
		return a.Time + ", once"
	}
	return fmt.Sprintf("%s, every %d min", a.Time, a.RepeatInterval)
}

// truncateString shortens s to maxLen runes, adding "..." if needed
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
