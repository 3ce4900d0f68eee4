package models

import (
	"encoding/json"
	"time"
)

const (
	ClockLayout  = "15:04"            // anchor time of day
	MinuteLayout = "2006-01-02 15:04" // last_triggered stamp
)

// DefaultTitle is used when an alert is saved without a title
const DefaultTitle = "Untitled"

// Urgency drives the header color and sound cue of a fired alert
type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyNormal Urgency = "Normal"
	UrgencyHigh   Urgency = "High"
)

// Urgencies lists the selectable urgency levels in display order
var Urgencies = []Urgency{UrgencyLow, UrgencyNormal, UrgencyHigh}

// Known reports whether u is one of the three defined levels
func (u Urgency) Known() bool {
	return u == UrgencyLow || u == UrgencyNormal || u == UrgencyHigh
}

// Alert is one user-defined, time-of-day reminder
type Alert struct {
	ID              string  `json:"id,omitempty"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Time            string  `json:"time"`            // HH:MM, 24h
	RepeatInterval  int     `json:"repeat_interval"` // minutes, 0 = one-shot
	Urgency         Urgency `json:"urgency"`
	Enabled         bool    `json:"enabled"`
	LastTriggered   string  `json:"last_triggered"` // YYYY-MM-DD HH:MM or ""
	LinkedClipboard string  `json:"linked_clipboard,omitempty"`
}

// UnmarshalJSON treats a missing "enabled" field as true
func (a *Alert) UnmarshalJSON(data []byte) error {
	type plain Alert
	aux := struct {
		*plain
		Enabled *bool `json:"enabled"`
	}{plain: (*plain)(a)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	a.Enabled = aux.Enabled == nil || *aux.Enabled
	return nil
}

// Normalize applies load-time defaults and drops legacy last_triggered
// values that are not full minute stamps.
func (a *Alert) Normalize() {
	if a.Title == "" {
		a.Title = DefaultTitle
	}
	if a.Urgency == "" {
		a.Urgency = UrgencyNormal
	}
	if a.RepeatInterval < 0 {
		a.RepeatInterval = 0
	}
	if a.LastTriggered != "" {
		if _, err := time.Parse(MinuteLayout, a.LastTriggered); err != nil {
			a.LastTriggered = ""
		}
	}
}

// OneShot reports whether the alert disables itself after firing
func (a Alert) OneShot() bool {
	return a.RepeatInterval == 0
}

// Key identifies the alert within one process. Records written before ids
// existed fall back to title and anchor time.
func (a Alert) Key() string {
	if a.ID != "" {
		return a.ID
	}
	return a.Title + "@" + a.Time
}

// RoundToMinute rounds a time down to the nearest minute
func RoundToMinute(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}
