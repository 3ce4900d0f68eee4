// Package monitor runs the periodic pass that fires due alerts.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/borgmon/soc-alerts/pkg/schedule"
)

// DefaultInterval is the pause between two passes
const DefaultInterval = 10 * time.Second

// Store is the persistence the monitor needs
type Store interface {
	Mutate(fn func(alerts []models.Alert) ([]models.Alert, bool)) ([]models.Alert, error)
}

// Dispatcher delivers a fired alert
type Dispatcher interface {
	Dispatch(ctx context.Context, a models.Alert)
}

// Config tunes a Monitor. Zero values select defaults.
type Config struct {
	Interval time.Duration
	Logger   *slog.Logger
	// OnError receives persistence failures. The loop keeps running.
	OnError func(err error)
	// Now replaces the wall clock in tests
	Now func() time.Time
}

// Monitor evaluates every alert once per interval
type Monitor struct {
	store      Store
	dispatcher Dispatcher
	interval   time.Duration
	logger     *slog.Logger
	onError    func(error)
	now        func() time.Time

	mu         sync.Mutex
	firedStamp string
	fired      map[string]bool // alert keys fired during firedStamp

	runMu   sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a monitor over store that hands due alerts to dispatcher
func New(store Store, dispatcher Dispatcher, cfg Config) *Monitor {
	m := &Monitor{
		store:      store,
		dispatcher: dispatcher,
		interval:   cfg.Interval,
		logger:     cfg.Logger,
		onError:    cfg.OnError,
		now:        cfg.Now,
		fired:      map[string]bool{},
	}
	if m.interval <= 0 {
		m.interval = DefaultInterval
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Check runs one pass at now: due alerts are stamped, one-shots are disabled,
// the collection is saved once, then each due alert is dispatched.
//
// Alerts fired earlier in the same minute by this monitor are skipped even if
// the stamp could not be persisted. A save error is returned after dispatching.
func (m *Monitor) Check(ctx context.Context, now time.Time) ([]models.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stamp := schedule.FormatMinute(now)
	if stamp != m.firedStamp {
		m.firedStamp = stamp
		m.fired = map[string]bool{}
	}

	var due []models.Alert
	_, err := m.store.Mutate(func(alerts []models.Alert) ([]models.Alert, bool) {
		for i := range alerts {
			a := &alerts[i]
			if m.fired[a.Key()] || !schedule.IsDue(*a, now) {
				continue
			}
			a.LastTriggered = stamp
			if a.OneShot() {
				a.Enabled = false
			}
			due = append(due, *a)
		}
		return alerts, len(due) > 0
	})

	for _, a := range due {
		m.fired[a.Key()] = true
	}

	if err != nil {
		m.logger.Error("persist fired alerts", "count", len(due), "error", err)
		if m.onError != nil {
			m.onError(err)
		}
	}

	for _, a := range due {
		if ctx.Err() != nil {
			break
		}
		m.logger.Info("alert due", "title", a.Title, "time", a.Time, "repeat", a.RepeatInterval, "urgency", a.Urgency)
		m.dispatcher.Dispatch(ctx, a)
	}

	return due, err
}

// Run checks immediately and then once per interval until ctx is cancelled
func (m *Monitor) Run(ctx context.Context) {
	m.check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.check(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (m *Monitor) check(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	// errors already went to the logger and OnError
	_, _ = m.Check(ctx, m.now())
}

// Start runs the loop in the background
func (m *Monitor) Start(ctx context.Context) {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	if m.running {
		return
	}

	ctx, m.cancel = context.WithCancel(ctx)
	m.running = true
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.Run(ctx)
	}()
	m.logger.Info("monitor started", "interval", m.interval)
}

// Stop cancels the loop and waits for the current pass to finish
func (m *Monitor) Stop() {
	m.runMu.Lock()
	defer m.runMu.Unlock()
	if !m.running {
		return
	}

	m.running = false
	m.cancel()
	m.wg.Wait()
	m.logger.Info("monitor stopped")
}
