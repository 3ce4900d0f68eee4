package schedule

import (
	"sort"
	"time"

	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/teambition/rrule-go"
)

// Occurrence is one future firing of an alert
type Occurrence struct {
	Alert models.Alert
	At    time.Time
}

// AnchorOn returns the alert's anchor time on the day of ref
func AnchorOn(a models.Alert, ref time.Time) (time.Time, error) {
	minutes, err := ParseClock(a.Time)
	if err != nil {
		return time.Time{}, err
	}
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	return day.Add(time.Duration(minutes) * time.Minute), nil
}

// endOfDay returns the last minute of t's day
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 0, 0, t.Location())
}

// Rule returns the same-day recurrence of a repeating alert anchored on ref's day.
// One-shot alerts have no rule.
func Rule(a models.Alert, ref time.Time) (*rrule.RRule, error) {
	if a.OneShot() {
		return nil, nil
	}
	anchor, err := AnchorOn(a, ref)
	if err != nil {
		return nil, err
	}
	return rrule.NewRRule(rrule.ROption{
		Freq:     rrule.MINUTELY,
		Interval: a.RepeatInterval,
		Dtstart:  anchor,
		Until:    endOfDay(ref),
	})
}

// occurrencesAfter lists the alert's remaining firings today, strictly after now
func occurrencesAfter(a models.Alert, now time.Time) []time.Time {
	if !a.Enabled {
		return nil
	}

	if a.OneShot() {
		anchor, err := AnchorOn(a, now)
		if err != nil || !anchor.After(now) {
			return nil
		}
		return []time.Time{anchor}
	}

	rule, err := Rule(a, now)
	if err != nil {
		return nil
	}
	return rule.Between(now, endOfDay(now).Add(time.Minute), false)
}

// NextOccurrence returns the alert's next firing today, if any
func NextOccurrence(a models.Alert, now time.Time) (time.Time, bool) {
	times := occurrencesAfter(a, now)
	if len(times) == 0 {
		return time.Time{}, false
	}
	return times[0], true
}

// Upcoming returns up to limit firings across all alerts for the rest of today, earliest first
func Upcoming(alerts []models.Alert, now time.Time, limit int) []Occurrence {
	var result []Occurrence
	for _, a := range alerts {
		for _, at := range occurrencesAfter(a, now) {
			result = append(result, Occurrence{Alert: a, At: at})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].At.Before(result[j].At)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}
