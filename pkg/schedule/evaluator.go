// Package schedule decides when alerts fire. All decisions are at minute
// resolution against the same calendar day: an alert's anchor is an HH:MM
// wall-clock value with no date.
package schedule

import (
	"fmt"
	"time"

	"github.com/borgmon/soc-alerts/pkg/models"
)

// FormatMinute renders t as a last_triggered stamp
func FormatMinute(t time.Time) string {
	return t.Format(models.MinuteLayout)
}

// ParseClock parses an HH:MM anchor into minutes since midnight
func ParseClock(s string) (int, error) {
	t, err := time.Parse(models.ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("parse alert time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// MinuteOfDay returns the minutes elapsed since local midnight of t
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// IsDue reports whether the alert should fire during the minute containing now.
//
// A one-shot alert is due only at its anchor minute. A repeating alert is due
// at every minute that is a whole multiple of its interval past the anchor,
// the anchor itself included; minutes before the anchor are never due.
func IsDue(a models.Alert, now time.Time) bool {
	if !a.Enabled {
		return false
	}
	if a.LastTriggered == FormatMinute(now) {
		return false
	}

	anchor, err := ParseClock(a.Time)
	if err != nil {
		return false
	}

	elapsed := MinuteOfDay(now) - anchor
	if elapsed < 0 {
		return false
	}
	if a.RepeatInterval <= 0 {
		return elapsed == 0
	}
	return elapsed%a.RepeatInterval == 0
}
