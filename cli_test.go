package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/borgmon/soc-alerts/pkg/calendar"
	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/borgmon/soc-alerts/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.AlertStore {
	t.Helper()
	return store.NewAlertStore(filepath.Join(t.TempDir(), "alerts_tester.json"), nil)
}

func TestPrintAlerts(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Add(models.Alert{Title: "Radio check", Time: "10:00", RepeatInterval: 30, Urgency: models.UrgencyHigh, Enabled: true})
	require.NoError(t, err)
	_, err = s.Add(models.Alert{Title: "Old briefing", Time: "08:00", Enabled: false})
	require.NoError(t, err)

	var out bytes.Buffer
	printAlerts(&out, s.List(), time.Date(2025, 3, 1, 10, 10, 0, 0, time.Local))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "TITLE")
	assert.Regexp(t, `^10:00\s+30m\s+High\s+true\s+10:30\s+Radio check$`, lines[1])
	assert.Regexp(t, `^08:00\s+once\s+Normal\s+false\s+-\s+Old briefing$`, lines[2])
}

func TestPrintFirings(t *testing.T) {
	fired := time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)
	acked := fired.Add(42 * time.Second)

	var out bytes.Buffer
	printFirings(&out, []models.Firing{
		{Title: "Briefing", Urgency: models.UrgencyNormal, FiredAt: fired, AcknowledgedAt: &acked},
		{Title: "Sweep", Urgency: models.UrgencyHigh, FiredAt: fired},
	})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^2025-03-01 09:00:00\s+Normal\s+09:00:42\s+Briefing$`, lines[1])
	assert.Regexp(t, `^2025-03-01 09:00:00\s+High\s+no\s+Sweep$`, lines[2])
}

func TestImportAlerts_ExportRoundTrip(t *testing.T) {
	src := newTestStore(t)
	_, err := src.Add(models.Alert{Title: "Camera sweep", Time: "10:00", RepeatInterval: 30, Urgency: models.UrgencyHigh, Enabled: true})
	require.NoError(t, err)
	_, err = src.Add(models.Alert{Title: "Briefing", Description: "Ops room", Time: "09:00", Urgency: models.UrgencyLow, Enabled: true})
	require.NoError(t, err)

	var ics bytes.Buffer
	require.NoError(t, calendar.Export(&ics, src.Load(), time.Now()))
	data := ics.Bytes()

	dst := newTestStore(t)
	added, updated, err := importAlerts(dst, bytes.NewReader(data), true)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, 0, updated)
	assert.Empty(t, dst.Load(), "dry run must not save")

	added, updated, err = importAlerts(dst, bytes.NewReader(data), false)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, 0, updated)

	got := dst.Load()
	require.Len(t, got, 2)
	for i, a := range src.Load() {
		assert.Equal(t, a.ID, got[i].ID)
		assert.Equal(t, a.Title, got[i].Title)
		assert.Equal(t, a.Time, got[i].Time)
		assert.Equal(t, a.RepeatInterval, got[i].RepeatInterval)
		assert.Equal(t, a.Urgency, got[i].Urgency)
	}

	// importing the same calendar again updates in place
	added, updated, err = importAlerts(dst, bytes.NewReader(data), false)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, 2, updated)
	assert.Len(t, dst.Load(), 2)
}

func TestImportAlerts_InvalidCalendar(t *testing.T) {
	_, _, err := importAlerts(newTestStore(t), strings.NewReader("not a calendar"), false)
	assert.Error(t, err)
}
