package monitor_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/borgmon/soc-alerts/pkg/monitor"
	"github.com/borgmon/soc-alerts/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu    sync.Mutex
	fired []models.Alert
}

func (r *recorder) Dispatch(_ context.Context, a models.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fired = append(r.fired, a)
}

func (r *recorder) titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, a := range r.fired {
		out = append(out, a.Title)
	}
	return out
}

// memStore keeps alerts in memory and can fail every save
type memStore struct {
	alerts  []models.Alert
	saveErr error
	saves   int
}

func (s *memStore) Mutate(fn func([]models.Alert) ([]models.Alert, bool)) ([]models.Alert, error) {
	working := append([]models.Alert(nil), s.alerts...)
	out, changed := fn(working)
	if !changed {
		return out, nil
	}
	s.saves++
	if s.saveErr != nil {
		return out, s.saveErr
	}
	s.alerts = out
	return out, nil
}

func at(h, m, sec int) time.Time {
	return time.Date(2025, 3, 1, h, m, sec, 0, time.Local)
}

func newFileStore(t *testing.T, alerts ...models.Alert) *store.AlertStore {
	t.Helper()
	s := store.NewAlertStore(filepath.Join(t.TempDir(), "alerts_jdoe.json"), nil)
	require.NoError(t, s.Save(alerts))
	return s
}

func TestCheck_OneShotFiresOnceAndDisables(t *testing.T) {
	s := newFileStore(t, models.Alert{Title: "Briefing", Time: "09:00", Enabled: true})
	rec := &recorder{}
	m := monitor.New(s, rec, monitor.Config{})

	due, err := m.Check(context.Background(), at(8, 59, 50))
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = m.Check(context.Background(), at(9, 0, 5))
	require.NoError(t, err)
	require.Len(t, due, 1)

	saved := s.Load()
	assert.False(t, saved[0].Enabled)
	assert.Equal(t, "2025-03-01 09:00", saved[0].LastTriggered)

	for _, now := range []time.Time{at(9, 0, 15), at(9, 0, 55), at(9, 1, 5)} {
		due, err = m.Check(context.Background(), now)
		require.NoError(t, err)
		assert.Empty(t, due)
	}
	assert.Equal(t, []string{"Briefing"}, rec.titles())
}

func TestCheck_RepeatFiresOncePerMatchingMinute(t *testing.T) {
	s := newFileStore(t, models.Alert{Title: "Sweep", Time: "10:00", RepeatInterval: 30, Enabled: true})
	rec := &recorder{}
	m := monitor.New(s, rec, monitor.Config{})

	// 10 second cadence from 09:59 to 11:01
	for now := at(9, 59, 0); now.Before(at(11, 1, 0)); now = now.Add(10 * time.Second) {
		_, err := m.Check(context.Background(), now)
		require.NoError(t, err)
	}

	assert.Len(t, rec.fired, 3)
	saved := s.Load()
	assert.True(t, saved[0].Enabled)
	assert.Equal(t, "2025-03-01 11:00", saved[0].LastTriggered)
}

func TestCheck_SavesOncePerPass(t *testing.T) {
	ms := &memStore{alerts: []models.Alert{
		{Title: "a", Time: "12:00", Enabled: true},
		{Title: "b", Time: "12:00", RepeatInterval: 5, Enabled: true},
		{Title: "c", Time: "13:00", Enabled: true},
	}}
	m := monitor.New(ms, &recorder{}, monitor.Config{})

	due, err := m.Check(context.Background(), at(12, 0, 0))
	require.NoError(t, err)
	assert.Len(t, due, 2)
	assert.Equal(t, 1, ms.saves)

	_, err = m.Check(context.Background(), at(12, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, ms.saves, "nothing due means nothing written")
}

func TestCheck_SaveFailureIsReportedAndDoesNotRefire(t *testing.T) {
	boom := errors.New("disk full")
	ms := &memStore{
		alerts:  []models.Alert{{Title: "a", Time: "12:00", RepeatInterval: 1, Enabled: true}},
		saveErr: boom,
	}
	rec := &recorder{}
	var reported []error
	m := monitor.New(ms, rec, monitor.Config{OnError: func(err error) { reported = append(reported, err) }})

	due, err := m.Check(context.Background(), at(12, 0, 0))
	assert.ErrorIs(t, err, boom)
	assert.Len(t, due, 1)
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], boom)

	// stamp was never persisted, the in-process guard still holds
	due, err = m.Check(context.Background(), at(12, 0, 10))
	assert.NoError(t, err)
	assert.Empty(t, due)

	// next minute fires again
	due, err = m.Check(context.Background(), at(12, 1, 0))
	assert.ErrorIs(t, err, boom)
	assert.Len(t, due, 1)

	assert.Equal(t, []string{"a", "a"}, rec.titles())
}

func TestCheck_DisabledAndInvalidAreSkipped(t *testing.T) {
	ms := &memStore{alerts: []models.Alert{
		{Title: "off", Time: "12:00", Enabled: false},
		{Title: "bad", Time: "noon", Enabled: true},
	}}
	m := monitor.New(ms, &recorder{}, monitor.Config{})

	due, err := m.Check(context.Background(), at(12, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, due)
	assert.Zero(t, ms.saves)
}

func TestStartStop(t *testing.T) {
	s := newFileStore(t, models.Alert{Title: "every minute", Time: "00:00", RepeatInterval: 1, Enabled: true})
	rec := &recorder{}
	m := monitor.New(s, rec, monitor.Config{
		Interval: 10 * time.Millisecond,
		Now:      func() time.Time { return at(12, 0, 0) },
	})

	m.Start(context.Background())
	m.Start(context.Background())

	require.Eventually(t, func() bool { return len(rec.titles()) == 1 }, time.Second, 5*time.Millisecond)
	m.Stop()
	m.Stop()

	// same minute for every pass: exactly one firing
	assert.Len(t, rec.titles(), 1)
}

func TestRun_StopsOnCancel(t *testing.T) {
	ms := &memStore{}
	m := monitor.New(ms, &recorder{}, monitor.Config{Interval: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
