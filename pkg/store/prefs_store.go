package store

import (
	"encoding/json"

	"fyne.io/fyne/v2"
	"github.com/borgmon/soc-alerts/pkg/models"
)

// PrefsStore persists the Settings tab toggles using Fyne preferences
type PrefsStore struct {
	prefs fyne.Preferences
}

// NewPrefsStore creates a PrefsStore on top of the app preferences
func NewPrefsStore(prefs fyne.Preferences) *PrefsStore {
	return &PrefsStore{prefs: prefs}
}

// Load reads the preferences, falling back to defaults for unset keys
func (ps *PrefsStore) Load() *models.Preferences {
	p := &models.Preferences{
		AutoStart:       ps.prefs.BoolWithFallback("auto_start", false),
		Theme:           ps.prefs.StringWithFallback("theme", models.ThemeDark),
		HoldTimeSeconds: ps.prefs.IntWithFallback("hold_time_seconds", 3),
		Muted:           ps.prefs.BoolWithFallback("muted", false),
	}
	if p.Theme != models.ThemeLight {
		p.Theme = models.ThemeDark
	}
	if p.HoldTimeSeconds < 0 {
		p.HoldTimeSeconds = 0
	}

	// Quiet time ranges are stored as a JSON string
	p.QuietTimeRanges = []models.TimeRange{}
	if raw := ps.prefs.String("quiet_time_ranges"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &p.QuietTimeRanges); err != nil {
			p.QuietTimeRanges = []models.TimeRange{}
		}
	}

	return p
}

// Save writes the preferences
func (ps *PrefsStore) Save(p *models.Preferences) {
	ps.prefs.SetBool("auto_start", p.AutoStart)
	ps.prefs.SetString("theme", p.Theme)
	ps.prefs.SetInt("hold_time_seconds", p.HoldTimeSeconds)
	ps.prefs.SetBool("muted", p.Muted)

	if raw, err := json.Marshal(p.QuietTimeRanges); err == nil {
		ps.prefs.SetString("quiet_time_ranges", string(raw))
	}
}
