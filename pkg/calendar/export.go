// Package calendar converts alerts to and from iCalendar so they can be
// shared with calendar clients or other operators.
package calendar

import (
	"fmt"
	"io"
	"time"

	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/borgmon/soc-alerts/pkg/schedule"
	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

const (
	productID = "-//soc-alerts//Alert Export//EN"

	propLinkedClipboard = "X-SOC-LINKED-CLIPBOARD"
	propUrgency         = "X-SOC-URGENCY"
)

// uidNamespace derives stable UIDs for alerts saved before ids existed
var uidNamespace = uuid.MustParse("6f1c9a8e-3b7d-4e52-9a61-2d0c5f8b7e14")

var priorities = map[models.Urgency]int{
	models.UrgencyHigh:   1,
	models.UrgencyNormal: 5,
	models.UrgencyLow:    9,
}

// UID returns the iCalendar UID used for an alert
func UID(a models.Alert) string {
	if a.ID != "" {
		return a.ID
	}
	return uuid.NewSHA1(uidNamespace, []byte(a.Key())).String()
}

// Export writes alerts as a calendar of events anchored on day. Repeating
// alerts carry a minutely RRULE bounded to the same day. Alerts with an
// invalid time are skipped.
func Export(w io.Writer, alerts []models.Alert, day time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	stamp := time.Now().UTC()
	for _, a := range alerts {
		event, err := newEvent(a, day, stamp)
		if err != nil {
			continue
		}
		cal.Children = append(cal.Children, event.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func newEvent(a models.Alert, day, stamp time.Time) (*ical.Event, error) {
	anchor, err := schedule.AnchorOn(a, time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local))
	if err != nil {
		return nil, err
	}

	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, UID(a))
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	event.Props.SetDateTime(ical.PropDateTimeStart, anchor)
	event.Props.SetText(ical.PropSummary, a.Title)
	if a.Description != "" {
		event.Props.SetText(ical.PropDescription, a.Description)
	}

	urgency := ical.NewProp(propUrgency)
	urgency.Value = string(a.Urgency)
	event.Props.Set(urgency)
	if p, ok := priorities[a.Urgency]; ok {
		priority := ical.NewProp(ical.PropPriority)
		priority.Value = fmt.Sprint(p)
		event.Props.Set(priority)
	}

	if a.Enabled {
		event.Props.SetText(ical.PropStatus, "CONFIRMED")
	} else {
		event.Props.SetText(ical.PropStatus, "CANCELLED")
	}

	if a.LinkedClipboard != "" {
		linked := ical.NewProp(propLinkedClipboard)
		linked.SetText(a.LinkedClipboard)
		event.Props.Set(linked)
	}

	if !a.OneShot() {
		minutes := schedule.MinuteOfDay(anchor)
		event.Props.SetRecurrenceRule(&rrule.ROption{
			Freq:     rrule.MINUTELY,
			Interval: a.RepeatInterval,
			Count:    (24*60-1-minutes)/a.RepeatInterval + 1,
		})
	}

	event.Children = append(event.Children, newAlarm(a.Title))
	return event, nil
}

// newAlarm adds a display reminder at the start of the event
func newAlarm(title string) *ical.Component {
	alarm := ical.NewComponent(ical.CompAlarm)
	alarm.Props.SetText(ical.PropAction, "DISPLAY")
	alarm.Props.SetText(ical.PropDescription, title)
	trigger := ical.NewProp(ical.PropTrigger)
	trigger.Value = "PT0S"
	alarm.Props.Set(trigger)
	return alarm
}
