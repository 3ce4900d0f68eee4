package calendar

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"
)

const maxRepeat = 24 * 60

// Decode reads alerts from iCalendar data. Events without a timed start are
// skipped, as are duplicate UIDs.
func Decode(r io.Reader, logger *slog.Logger) ([]models.Alert, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dec := ical.NewDecoder(r)
	alerts := []models.Alert{}
	seen := map[string]bool{}
	stats := &importStats{}

	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode calendar: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			stats.events++
			normalizeComponentTimezones(comp)

			a, ok := parseEvent(comp, logger, stats)
			if !ok {
				continue
			}
			if a.ID != "" && seen[a.ID] {
				stats.duplicates++
				continue
			}
			seen[a.ID] = true
			alerts = append(alerts, a)
		}
	}

	stats.log(logger, len(alerts))
	return alerts, nil
}

func parseEvent(comp *ical.Component, logger *slog.Logger, stats *importStats) (models.Alert, bool) {
	a := models.Alert{Enabled: true}

	if p := comp.Props.Get(ical.PropUID); p != nil {
		a.ID = p.Value
	}
	a.Title = propText(comp, ical.PropSummary)
	a.Description = propText(comp, ical.PropDescription)
	a.LinkedClipboard = propText(comp, propLinkedClipboard)

	start := comp.Props.Get(ical.PropDateTimeStart)
	if start == nil || start.ValueType() == ical.ValueDate {
		stats.untimed++
		logger.Debug("skipping event without start time", "title", a.Title)
		return a, false
	}
	t, err := parseDateTimeProperty(start, getTimezoneFromComponent(comp))
	if err != nil {
		stats.untimed++
		logger.Warn("skipping event with unreadable start", "title", a.Title, "error", err)
		return a, false
	}
	a.Time = t.In(time.Local).Format(models.ClockLayout)

	a.Urgency = models.Urgency(propText(comp, propUrgency))
	if a.Urgency == "" {
		a.Urgency = urgencyFromPriority(comp)
	}

	if p := comp.Props.Get(ical.PropStatus); p != nil && strings.EqualFold(p.Value, "CANCELLED") {
		a.Enabled = false
	}

	if comp.Props.Get(ical.PropRecurrenceRule) != nil {
		rule, err := comp.Props.RecurrenceRule()
		if err != nil {
			logger.Warn("ignoring unreadable RRULE", "title", a.Title, "error", err)
		} else if rule != nil {
			a.RepeatInterval = repeatFromRule(rule)
			if a.RepeatInterval == 0 {
				stats.flattened++
			}
		}
	}

	a.Normalize()
	return a, true
}

func propText(comp *ical.Component, name string) string {
	p := comp.Props.Get(name)
	if p == nil {
		return ""
	}
	if s, err := p.Text(); err == nil {
		return s
	}
	return p.Value
}

// urgencyFromPriority maps RFC 5545 priority bands onto urgency
func urgencyFromPriority(comp *ical.Component) models.Urgency {
	p := comp.Props.Get(ical.PropPriority)
	if p == nil {
		return models.UrgencyNormal
	}
	n, err := strconv.Atoi(strings.TrimSpace(p.Value))
	switch {
	case err != nil || n == 0 || n == 5:
		return models.UrgencyNormal
	case n < 5:
		return models.UrgencyHigh
	default:
		return models.UrgencyLow
	}
}

// repeatFromRule converts a sub-daily rule into a repeat interval in minutes.
// Daily or coarser rules become one-shot alerts.
func repeatFromRule(rule *rrule.ROption) int {
	interval := rule.Interval
	if interval <= 0 {
		interval = 1
	}

	var minutes int
	switch rule.Freq {
	case rrule.MINUTELY:
		minutes = interval
	case rrule.HOURLY:
		minutes = interval * 60
	default:
		return 0
	}
	if minutes > maxRepeat {
		minutes = maxRepeat
	}
	return minutes
}

func parseDateTimeProperty(prop *ical.Prop, loc *time.Location) (time.Time, error) {
	if t, err := prop.DateTime(loc); err == nil {
		return t, nil
	}

	formats := []string{
		"20060102T150405",
		"20060102T150405Z",
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, prop.Value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse datetime value: %s", prop.Value)
}

type importStats struct {
	events     int
	untimed    int
	duplicates int
	flattened  int
}

func (s *importStats) log(logger *slog.Logger, imported int) {
	logger.Info("calendar decoded",
		"events", s.events,
		"imported", imported,
		"untimed", s.untimed,
		"duplicates", s.duplicates,
		"daily_or_coarser", s.flattened,
	)
}

// Merge folds imported alerts into existing ones. An imported alert whose id
// matches an existing alert replaces its editable fields; the rest are
// inserted at the front in import order.
func Merge(existing, imported []models.Alert) (merged []models.Alert, added, updated int) {
	index := make(map[string]int, len(existing))
	for i, a := range existing {
		if a.ID != "" {
			index[a.ID] = i
		}
	}

	merged = append([]models.Alert(nil), existing...)
	var fresh []models.Alert
	for _, in := range imported {
		if i, ok := index[in.ID]; ok && in.ID != "" {
			in.LastTriggered = merged[i].LastTriggered
			merged[i] = in
			updated++
			continue
		}
		in.LastTriggered = ""
		fresh = append(fresh, in)
		added++
	}
	return append(fresh, merged...), added, updated
}
