package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/borgmon/soc-alerts/pkg/models"
	"github.com/google/uuid"
	"github.com/moby/sys/atomicwriter"
)

// ErrNotFound is returned when a Ref no longer matches a stored alert
var ErrNotFound = errors.New("alert not found")

// alertsFile is the on-disk envelope
type alertsFile struct {
	Alerts []models.Alert `json:"alerts"`
}

// AlertStore persists the alert collection as one JSON file.
//
// Load and Save are plain whole-file operations. The remaining helpers run a
// load-modify-save cycle under a process-wide mutex so that the UI and the
// monitor never mutate a stale copy.
type AlertStore struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewAlertStore creates a store backed by the file at path
func NewAlertStore(path string, logger *slog.Logger) *AlertStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &AlertStore{path: path, logger: logger}
}

// Path returns the backing file
func (s *AlertStore) Path() string {
	return s.path
}

// Load reads all alerts. A missing or unreadable file yields an empty collection.
func (s *AlertStore) Load() []models.Alert {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("read alerts file", "path", s.path, "error", err)
		}
		return []models.Alert{}
	}

	var file alertsFile
	if err := json.Unmarshal(data, &file); err != nil {
		s.logger.Warn("corrupt alerts file, treating as empty", "path", s.path, "error", err)
		return []models.Alert{}
	}

	alerts := file.Alerts
	if alerts == nil {
		alerts = []models.Alert{}
	}
	for i := range alerts {
		alerts[i].Normalize()
	}
	return alerts
}

// Save atomically replaces the persisted collection
func (s *AlertStore) Save(alerts []models.Alert) error {
	data, err := encodeAlerts(alerts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create alerts directory: %w", err)
	}
	if err := atomicwriter.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write alerts file: %w", err)
	}
	return nil
}

func encodeAlerts(alerts []models.Alert) ([]byte, error) {
	if alerts == nil {
		alerts = []models.Alert{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(alertsFile{Alerts: alerts}); err != nil {
		return nil, fmt.Errorf("encode alerts: %w", err)
	}
	return buf.Bytes(), nil
}

// Mutate loads the collection, applies fn and saves when fn reports a change.
// It returns the collection as left by fn.
func (s *AlertStore) Mutate(fn func(alerts []models.Alert) ([]models.Alert, bool)) ([]models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	alerts, changed := fn(s.Load())
	if !changed {
		return alerts, nil
	}
	return alerts, s.Save(alerts)
}

// Ref points at one stored alert. Alerts with an id are matched by id; older
// records are matched by position and title.
type Ref struct {
	ID    string
	Index int
	Title string
}

// RefAt builds a Ref for alerts[i]
func RefAt(alerts []models.Alert, i int) Ref {
	return Ref{ID: alerts[i].ID, Index: i, Title: alerts[i].Title}
}

func (r Ref) find(alerts []models.Alert) (int, error) {
	if r.ID != "" {
		for i := range alerts {
			if alerts[i].ID == r.ID {
				return i, nil
			}
		}
		return -1, ErrNotFound
	}
	if r.Index >= 0 && r.Index < len(alerts) && alerts[r.Index].ID == "" && alerts[r.Index].Title == r.Title {
		return r.Index, nil
	}
	return -1, ErrNotFound
}

// Listed is an alert in listing order together with its Ref
type Listed struct {
	Ref   Ref
	Alert models.Alert
}

// List returns the alerts for display: enabled first, otherwise in stored order
func (s *AlertStore) List() []Listed {
	alerts := s.Load()
	listed := make([]Listed, len(alerts))
	for i := range alerts {
		listed[i] = Listed{Ref: RefAt(alerts, i), Alert: alerts[i]}
	}

	sort.SliceStable(listed, func(i, j int) bool {
		return listed[i].Alert.Enabled && !listed[j].Alert.Enabled
	})
	return listed
}

// Add applies creation defaults, assigns an id and inserts the alert at the front
func (s *AlertStore) Add(a models.Alert) (models.Alert, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.LastTriggered = ""
	a.Normalize()

	_, err := s.Mutate(func(alerts []models.Alert) ([]models.Alert, bool) {
		return append([]models.Alert{a}, alerts...), true
	})
	if err != nil {
		return models.Alert{}, err
	}
	s.logger.Info("alert created", "id", a.ID, "title", a.Title, "time", a.Time, "repeat", a.RepeatInterval)
	return a, nil
}

// Update replaces the user-editable fields of the referenced alert.
// The id and last_triggered are kept.
func (s *AlertStore) Update(ref Ref, edited models.Alert) error {
	return s.modify(ref, func(a *models.Alert) {
		edited.ID = a.ID
		edited.LastTriggered = a.LastTriggered
		edited.Normalize()
		*a = edited
	})
}

// SetEnabled toggles the referenced alert
func (s *AlertStore) SetEnabled(ref Ref, enabled bool) error {
	return s.modify(ref, func(a *models.Alert) {
		a.Enabled = enabled
	})
}

// Delete removes the referenced alert
func (s *AlertStore) Delete(ref Ref) error {
	var findErr error
	_, err := s.Mutate(func(alerts []models.Alert) ([]models.Alert, bool) {
		i, err := ref.find(alerts)
		if err != nil {
			findErr = err
			return alerts, false
		}
		return append(alerts[:i], alerts[i+1:]...), true
	})
	if findErr != nil {
		return findErr
	}
	return err
}

func (s *AlertStore) modify(ref Ref, fn func(a *models.Alert)) error {
	var findErr error
	_, err := s.Mutate(func(alerts []models.Alert) ([]models.Alert, bool) {
		i, err := ref.find(alerts)
		if err != nil {
			findErr = err
			return alerts, false
		}
		fn(&alerts[i])
		return alerts, true
	})
	if findErr != nil {
		return findErr
	}
	return err
}
