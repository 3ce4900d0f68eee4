// Package dispatch delivers fired alerts: sound cue, popup, linked snippet
// copy and any external sinks. Everything that touches widgets is handed to
// the UI thread.
package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/google/uuid"
)

// Presenter shows the acknowledgment popup for a firing
type Presenter interface {
	ShowAlert(f models.Firing, a models.Alert)
}

// Clipboard receives the text of a linked snippet
type Clipboard interface {
	SetText(text string)
}

// SoundPlayer plays the cue for an urgency. It must not block.
type SoundPlayer interface {
	PlayCue(u models.Urgency)
}

// SnippetSource resolves a snippet display title to its content
type SnippetSource interface {
	Lookup(title string) (string, error)
}

// Notifier is an external sink that records or forwards firings
type Notifier interface {
	Name() string
	Send(ctx context.Context, f models.Firing, a models.Alert) error
}

// Acknowledger records that the operator dismissed a firing
type Acknowledger interface {
	Acknowledge(ctx context.Context, firingID string, at time.Time) error
}

// Options wires a Dispatcher. Only Presenter is required.
type Options struct {
	Presenter    Presenter
	Clipboard    Clipboard
	Sound        SoundPlayer
	Snippets     SnippetSource
	Notifiers    []Notifier
	Acknowledger Acknowledger

	// RunOnUI schedules fn on the UI thread. Defaults to calling fn directly.
	RunOnUI func(fn func())
	// Quiet reports whether sound cues are suppressed at t
	Quiet  func(t time.Time) bool
	Logger *slog.Logger
	Now    func() time.Time
}

// Dispatcher implements monitor.Dispatcher
type Dispatcher struct {
	opts   Options
	logger *slog.Logger
	wg     sync.WaitGroup
}

// New creates a Dispatcher
func New(opts Options) *Dispatcher {
	if opts.RunOnUI == nil {
		opts.RunOnUI = func(fn func()) { fn() }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{opts: opts, logger: logger}
}

// Dispatch delivers one fired alert. It returns once the UI work is queued;
// notifier sends continue in the background.
func (d *Dispatcher) Dispatch(ctx context.Context, a models.Alert) {
	now := d.opts.Now()
	f := models.Firing{
		ID:          uuid.NewString(),
		AlertID:     a.Key(),
		Title:       a.Title,
		Description: a.Description,
		Urgency:     a.Urgency,
		FiredAt:     now,
	}
	d.logger.Info("alert fired", "firing", f.ID, "title", a.Title, "urgency", a.Urgency)

	if d.opts.Sound != nil {
		if d.opts.Quiet != nil && d.opts.Quiet(now) {
			d.logger.Debug("sound cue suppressed", "firing", f.ID)
		} else {
			d.opts.Sound.PlayCue(a.Urgency)
		}
	}

	if d.opts.Presenter != nil {
		d.opts.RunOnUI(func() {
			d.opts.Presenter.ShowAlert(f, a)
		})
	}

	if a.LinkedClipboard != "" {
		title := a.LinkedClipboard
		d.opts.RunOnUI(func() {
			d.CopySnippet(title)
		})
	}

	for _, n := range d.opts.Notifiers {
		d.wg.Add(1)
		go func(n Notifier) {
			defer d.wg.Done()
			if err := n.Send(ctx, f, a); err != nil {
				d.logger.Error("notifier failed", "notifier", n.Name(), "firing", f.ID, "error", err)
			}
		}(n)
	}
}

// CopySnippet puts the content of the titled snippet on the clipboard.
// Lookup failures are logged and reported as false.
func (d *Dispatcher) CopySnippet(title string) bool {
	if d.opts.Snippets == nil || d.opts.Clipboard == nil {
		return false
	}

	content, err := d.opts.Snippets.Lookup(title)
	if err != nil {
		d.logger.Warn("linked snippet unavailable", "snippet", title, "error", err)
		return false
	}

	d.opts.Clipboard.SetText(content)
	d.logger.Info("snippet copied to clipboard", "snippet", title)
	return true
}

// Acknowledge records the operator's dismissal of f
func (d *Dispatcher) Acknowledge(ctx context.Context, f models.Firing) {
	d.logger.Info("alert acknowledged", "firing", f.ID, "title", f.Title)
	if d.opts.Acknowledger == nil {
		return
	}
	if err := d.opts.Acknowledger.Acknowledge(ctx, f.ID, d.opts.Now()); err != nil {
		d.logger.Error("record acknowledgment", "firing", f.ID, "error", err)
	}
}

// Close waits for in-flight notifier sends
func (d *Dispatcher) Close() {
	d.wg.Wait()
}
