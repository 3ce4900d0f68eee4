package main

import (
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/borgmon/soc-alerts/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrayTestApp(t *testing.T, alerts ...models.Alert) *SOCAlerts {
	t.Helper()
	s := store.NewAlertStore(filepath.Join(t.TempDir(), "alerts_tester.json"), nil)
	require.NoError(t, s.Save(alerts))

	a := test.NewTempApp(t)
	return &SOCAlerts{
		services:   &services{alerts: s},
		app:        a,
		prefsStore: store.NewPrefsStore(a.Preferences()),
		prefs:      &models.Preferences{Muted: true},
	}
}

func TestTrayMenuItems_Upcoming(t *testing.T) {
	sa := newTrayTestApp(t,
		models.Alert{Title: "Radio check", Time: "10:00", RepeatInterval: 30, Urgency: models.UrgencyNormal, Enabled: true},
		models.Alert{Title: "Disabled", Time: "10:15", Urgency: models.UrgencyNormal, Enabled: false},
	)
	now := time.Date(2025, 3, 1, 10, 5, 0, 0, time.Local)

	items := sa.trayMenuItems(now)
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.Label
	}

	require.GreaterOrEqual(t, len(labels), 7)
	assert.Equal(t, "Upcoming Today:", labels[0])
	assert.True(t, items[0].Disabled)
	assert.Equal(t, "  10:30 AM - Radio check", labels[1])
	assert.Equal(t, "  11:00 AM - Radio check", labels[2])
	assert.NotContains(t, labels, "  10:15 AM - Disabled")
	assert.Contains(t, labels, "Alerts Center")
	assert.Contains(t, labels, "Quit")

	for _, it := range items {
		if it.Label == "Mute Sounds" {
			assert.True(t, it.Checked)
		}
	}
}

func TestTrayMenuItems_NothingLeftToday(t *testing.T) {
	sa := newTrayTestApp(t, models.Alert{Title: "Morning", Time: "08:00", Urgency: models.UrgencyNormal, Enabled: true})
	items := sa.trayMenuItems(time.Date(2025, 3, 1, 18, 0, 0, 0, time.Local))

	assert.Equal(t, "No more alerts today", items[0].Label)
}
