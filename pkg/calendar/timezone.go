package calendar

import (
	"strings"
	"time"

	"github.com/emersion/go-ical"
)

// Outlook and Exchange export Windows zone names in TZID
var windowsToIANA = map[string]string{
	"Pacific Standard Time":        "America/Los_Angeles",
	"Mountain Standard Time":       "America/Denver",
	"Central Standard Time":        "America/Chicago",
	"Eastern Standard Time":        "America/New_York",
	"Atlantic Standard Time":       "America/Halifax",
	"Alaskan Standard Time":        "America/Anchorage",
	"Hawaiian Standard Time":       "Pacific/Honolulu",
	"GMT Standard Time":            "Europe/London",
	"W. Europe Standard Time":      "Europe/Berlin",
	"Central Europe Standard Time": "Europe/Paris",
	"China Standard Time":          "Asia/Shanghai",
	"Tokyo Standard Time":          "Asia/Tokyo",
	"India Standard Time":          "Asia/Kolkata",
	"AUS Eastern Standard Time":    "Australia/Sydney",
}

// normalizeComponentTimezones rewrites Windows TZIDs on the start time
func normalizeComponentTimezones(comp *ical.Component) {
	for _, name := range []string{ical.PropDateTimeStart, ical.PropDateTimeEnd} {
		for i := range comp.Props[name] {
			prop := &comp.Props[name][i]
			if ianaName, ok := windowsToIANA[prop.Params.Get(ical.ParamTimezoneID)]; ok {
				prop.Params.Set(ical.ParamTimezoneID, ianaName)
			}
		}
	}
}

// getTimezoneFromComponent picks the location used to read the start time
func getTimezoneFromComponent(comp *ical.Component) *time.Location {
	dtstart := comp.Props.Get(ical.PropDateTimeStart)
	if dtstart == nil {
		return time.Local
	}

	if tzid := dtstart.Params.Get(ical.ParamTimezoneID); tzid != "" {
		if loc, err := time.LoadLocation(tzid); err == nil {
			return loc
		}
	}
	if strings.HasSuffix(dtstart.Value, "Z") {
		return time.UTC
	}
	return time.Local
}
