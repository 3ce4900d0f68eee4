package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/borgmon/soc-alerts/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *store.AlertStore {
	t.Helper()
	return store.NewAlertStore(filepath.Join(t.TempDir(), "config", "alerts_jdoe.json"), nil)
}

func TestAlertStore_LoadMissingFile(t *testing.T) {
	s := newStore(t)
	alerts := s.Load()
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)
}

func TestAlertStore_LoadCorruptFile(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	assert.Empty(t, s.Load())
}

func TestAlertStore_LoadNormalizesLegacyRecords(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	raw := `{"alerts": [
		{"title": "Shift change", "time": "07:00", "last_triggered": "07:00"},
		{"title": "", "time": "08:00", "enabled": false, "urgency": "High", "last_triggered": "2025-03-01 08:00"}
	]}`
	require.NoError(t, os.WriteFile(s.Path(), []byte(raw), 0o644))

	alerts := s.Load()
	require.Len(t, alerts, 2)

	assert.True(t, alerts[0].Enabled)
	assert.Equal(t, models.UrgencyNormal, alerts[0].Urgency)
	assert.Equal(t, "", alerts[0].LastTriggered)

	assert.False(t, alerts[1].Enabled)
	assert.Equal(t, models.DefaultTitle, alerts[1].Title)
	assert.Equal(t, "2025-03-01 08:00", alerts[1].LastTriggered)
}

func TestAlertStore_SaveFormat(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save([]models.Alert{{
		Title:          "Radio check",
		Time:           "10:00",
		RepeatInterval: 30,
		Urgency:        models.UrgencyHigh,
		Enabled:        true,
	}}))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	want := `{
    "alerts": [
        {
            "title": "Radio check",
            "description": "",
            "time": "10:00",
            "repeat_interval": 30,
            "urgency": "High",
            "enabled": true,
            "last_triggered": ""
        }
    ]
}
`
	assert.Equal(t, want, string(data))
}

func TestAlertStore_SaveEmpty(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save(nil))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"alerts\": []\n}\n", string(data))
}

func TestAlertStore_SaveLoadIsStable(t *testing.T) {
	s := newStore(t)
	_, err := s.Add(models.Alert{Title: "Camera sweep", Time: "10:00", RepeatInterval: 30, LinkedClipboard: "Sweep log"})
	require.NoError(t, err)
	_, err = s.Add(models.Alert{Title: "Briefing", Description: "Room 2 & 3 <east>", Time: "09:00", Urgency: models.UrgencyLow})
	require.NoError(t, err)

	first, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	require.NoError(t, s.Save(s.Load()))
	second, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestAlertStore_AddDefaultsAndFrontInsertion(t *testing.T) {
	s := newStore(t)

	first, err := s.Add(models.Alert{Time: "09:00", Enabled: true, LastTriggered: "2025-03-01 09:00"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, models.DefaultTitle, first.Title)
	assert.Equal(t, models.UrgencyNormal, first.Urgency)
	assert.Equal(t, "", first.LastTriggered)

	second, err := s.Add(models.Alert{Title: "Second", Time: "10:00", Enabled: true})
	require.NoError(t, err)

	alerts := s.Load()
	require.Len(t, alerts, 2)
	assert.Equal(t, second.ID, alerts[0].ID)
	assert.Equal(t, first.ID, alerts[1].ID)
}

func TestAlertStore_ListEnabledFirst(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save([]models.Alert{
		{Title: "a", Time: "01:00", Enabled: false},
		{Title: "b", Time: "02:00", Enabled: true},
		{Title: "c", Time: "03:00", Enabled: false},
		{Title: "d", Time: "04:00", Enabled: true},
	}))

	var titles []string
	for _, l := range s.List() {
		titles = append(titles, l.Alert.Title)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, titles)
}

func TestAlertStore_UpdateKeepsIdentityAndStamp(t *testing.T) {
	s := newStore(t)
	added, err := s.Add(models.Alert{Title: "Old", Time: "09:00", Enabled: true})
	require.NoError(t, err)

	_, err = s.Mutate(func(alerts []models.Alert) ([]models.Alert, bool) {
		alerts[0].LastTriggered = "2025-03-01 09:00"
		return alerts, true
	})
	require.NoError(t, err)

	ref := store.Ref{ID: added.ID}
	require.NoError(t, s.Update(ref, models.Alert{Title: "New", Time: "11:30", RepeatInterval: 15, Enabled: true}))

	alerts := s.Load()
	require.Len(t, alerts, 1)
	assert.Equal(t, added.ID, alerts[0].ID)
	assert.Equal(t, "New", alerts[0].Title)
	assert.Equal(t, "11:30", alerts[0].Time)
	assert.Equal(t, 15, alerts[0].RepeatInterval)
	assert.Equal(t, "2025-03-01 09:00", alerts[0].LastTriggered)
}

func TestAlertStore_SetEnabledAndDelete(t *testing.T) {
	s := newStore(t)
	added, err := s.Add(models.Alert{Title: "x", Time: "09:00", Enabled: true})
	require.NoError(t, err)
	ref := store.Ref{ID: added.ID}

	require.NoError(t, s.SetEnabled(ref, false))
	assert.False(t, s.Load()[0].Enabled)

	require.NoError(t, s.Delete(ref))
	assert.Empty(t, s.Load())

	assert.ErrorIs(t, s.Delete(ref), store.ErrNotFound)
	assert.ErrorIs(t, s.SetEnabled(ref, true), store.ErrNotFound)
}

func TestAlertStore_LegacyRefByPosition(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save([]models.Alert{
		{Title: "a", Time: "01:00", Enabled: true},
		{Title: "b", Time: "02:00", Enabled: true},
	}))

	alerts := s.Load()
	ref := store.RefAt(alerts, 1)
	require.NoError(t, s.SetEnabled(ref, false))
	assert.False(t, s.Load()[1].Enabled)

	// the record moved, the ref no longer matches
	require.NoError(t, s.Delete(store.RefAt(alerts, 0)))
	assert.ErrorIs(t, s.SetEnabled(ref, true), store.ErrNotFound)
}
