package models

import "time"

// Theme variants persisted in preferences
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Preferences holds the per-user toggles edited from the Settings tab
type Preferences struct {
	AutoStart       bool        `json:"auto_start"`
	Theme           string      `json:"theme"`             // dark or light
	HoldTimeSeconds int         `json:"hold_time_seconds"` // hold-to-acknowledge for High urgency, 0 = plain button
	Muted           bool        `json:"muted"`             // suppress sound cues
	QuietTimeRanges []TimeRange `json:"quiet_time_ranges"` // sound cues suppressed inside these ranges
}

// TimeRange represents a time range within a day
type TimeRange struct {
	StartHour   int `json:"start_hour"`   // 0-23
	StartMinute int `json:"start_minute"` // 0-59
	EndHour     int `json:"end_hour"`     // 0-23
	EndMinute   int `json:"end_minute"`   // 0-59
}

// SoundSuppressed reports whether sound cues should be skipped at t
func (p *Preferences) SoundSuppressed(t time.Time) bool {
	return p.Muted || p.IsTimeInQuietTime(t)
}

// IsTimeInQuietTime returns true if the given time is in a quiet time range
func (p *Preferences) IsTimeInQuietTime(t time.Time) bool {
	if len(p.QuietTimeRanges) == 0 {
		return false
	}

	currentMinutes := t.Hour()*60 + t.Minute()

	for _, tr := range p.QuietTimeRanges {
		startMinutes := tr.StartHour*60 + tr.StartMinute
		endMinutes := tr.EndHour*60 + tr.EndMinute

		// Overnight ranges (e.g., 22:00 to 08:00)
		if endMinutes < startMinutes {
			if currentMinutes >= startMinutes || currentMinutes < endMinutes {
				return true
			}
		} else if currentMinutes >= startMinutes && currentMinutes < endMinutes {
			return true
		}
	}

	return false
}
