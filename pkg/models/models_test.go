package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlert_UnmarshalMissingEnabledDefaultsTrue(t *testing.T) {
	var a models.Alert
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Shift change","time":"07:00"}`), &a))
	assert.True(t, a.Enabled)

	require.NoError(t, json.Unmarshal([]byte(`{"title":"Shift change","time":"07:00","enabled":false}`), &a))
	assert.False(t, a.Enabled)
}

func TestAlert_UnmarshalKeepsFields(t *testing.T) {
	raw := `{"id":"a1","title":"Radio check","description":"All posts","time":"10:00",
		"repeat_interval":30,"urgency":"High","enabled":true,
		"last_triggered":"2025-03-01 10:30","linked_clipboard":"Radio script"}`

	var a models.Alert
	require.NoError(t, json.Unmarshal([]byte(raw), &a))
	assert.Equal(t, models.Alert{
		ID:              "a1",
		Title:           "Radio check",
		Description:     "All posts",
		Time:            "10:00",
		RepeatInterval:  30,
		Urgency:         models.UrgencyHigh,
		Enabled:         true,
		LastTriggered:   "2025-03-01 10:30",
		LinkedClipboard: "Radio script",
	}, a)
}

func TestAlert_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   models.Alert
		want models.Alert
	}{
		{
			name: "legacy time-only last_triggered is cleared",
			in:   models.Alert{Title: "A", Urgency: models.UrgencyLow, LastTriggered: "09:00"},
			want: models.Alert{Title: "A", Urgency: models.UrgencyLow, LastTriggered: ""},
		},
		{
			name: "date-only last_triggered is cleared",
			in:   models.Alert{Title: "A", Urgency: models.UrgencyLow, LastTriggered: "2025-03-01"},
			want: models.Alert{Title: "A", Urgency: models.UrgencyLow, LastTriggered: ""},
		},
		{
			name: "minute stamp is kept",
			in:   models.Alert{Title: "A", Urgency: models.UrgencyLow, LastTriggered: "2025-03-01 09:00"},
			want: models.Alert{Title: "A", Urgency: models.UrgencyLow, LastTriggered: "2025-03-01 09:00"},
		},
		{
			name: "defaults",
			in:   models.Alert{RepeatInterval: -5},
			want: models.Alert{Title: models.DefaultTitle, Urgency: models.UrgencyNormal},
		},
		{
			name: "unknown urgency is preserved",
			in:   models.Alert{Title: "A", Urgency: "Critical"},
			want: models.Alert{Title: "A", Urgency: "Critical"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.in
			a.Normalize()
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestAlert_Key(t *testing.T) {
	assert.Equal(t, "abc", models.Alert{ID: "abc", Title: "x", Time: "09:00"}.Key())
	assert.Equal(t, "x@09:00", models.Alert{Title: "x", Time: "09:00"}.Key())
}

func TestUrgency_Known(t *testing.T) {
	for _, u := range models.Urgencies {
		assert.True(t, u.Known(), u)
	}
	assert.False(t, models.Urgency("Critical").Known())
	assert.False(t, models.Urgency("").Known())
}

func TestPreferences_IsTimeInQuietTime(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2025, 3, 1, h, m, 0, 0, time.Local) }

	p := &models.Preferences{QuietTimeRanges: []models.TimeRange{
		{StartHour: 12, StartMinute: 0, EndHour: 13, EndMinute: 0},
		{StartHour: 22, StartMinute: 0, EndHour: 6, EndMinute: 30},
	}}

	assert.True(t, p.IsTimeInQuietTime(at(12, 0)))
	assert.True(t, p.IsTimeInQuietTime(at(12, 59)))
	assert.False(t, p.IsTimeInQuietTime(at(13, 0)))
	assert.True(t, p.IsTimeInQuietTime(at(23, 15)))
	assert.True(t, p.IsTimeInQuietTime(at(6, 29)))
	assert.False(t, p.IsTimeInQuietTime(at(6, 30)))
	assert.False(t, (&models.Preferences{}).IsTimeInQuietTime(at(12, 0)))
}

func TestPreferences_SoundSuppressed(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)
	assert.False(t, (&models.Preferences{}).SoundSuppressed(now))
	assert.True(t, (&models.Preferences{Muted: true}).SoundSuppressed(now))
}

func TestSnippet_DisplayTitle(t *testing.T) {
	assert.Equal(t, "Radio script", models.Snippet{Title: "Radio script", Content: "x"}.DisplayTitle())
	assert.Equal(t, "short", models.Snippet{Content: "short"}.DisplayTitle())
	assert.Equal(t, "0123456789012345678901234567890123"[:30]+"...",
		models.Snippet{Content: "0123456789012345678901234567890123"}.DisplayTitle())
}
