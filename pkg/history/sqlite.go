// Package history keeps a log of fired alerts and their acknowledgments.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/borgmon/soc-alerts/pkg/models"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when acknowledging an unknown firing
var ErrNotFound = errors.New("firing not found")

// fixed width UTC so that text order is time order
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLite stores firings in an SQLite database. It implements
// dispatch.Notifier and dispatch.Acknowledger.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens or creates the history database at dbPath
func NewSQLite(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Name() string { return "history" }

// Send records a firing
func (s *SQLite) Send(ctx context.Context, f models.Firing, _ models.Alert) error {
	return s.Record(ctx, f)
}

// Record inserts a firing
func (s *SQLite) Record(ctx context.Context, f models.Firing) error {
	if f.FiredAt.IsZero() {
		f.FiredAt = time.Now()
	}

	var ack any
	if f.AcknowledgedAt != nil {
		ack = f.AcknowledgedAt.UTC().Format(timeLayout)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO alert_firings (id, alert_id, title, description, urgency, fired_at, acknowledged_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.AlertID, f.Title, f.Description, string(f.Urgency),
		f.FiredAt.UTC().Format(timeLayout), ack,
	)
	if err != nil {
		return fmt.Errorf("insert firing: %w", err)
	}
	return nil
}

// Acknowledge stamps a firing as dismissed. Only the first acknowledgment is kept.
func (s *SQLite) Acknowledge(ctx context.Context, firingID string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE alert_firings SET acknowledged_at = COALESCE(acknowledged_at, ?) WHERE id = ?`,
		at.UTC().Format(timeLayout), firingID,
	)
	if err != nil {
		return fmt.Errorf("acknowledge firing: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("acknowledge firing: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Recent returns up to limit firings, newest first
func (s *SQLite) Recent(ctx context.Context, limit int) ([]models.Firing, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, alert_id, title, description, urgency, fired_at, acknowledged_at
		 FROM alert_firings ORDER BY fired_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query firings: %w", err)
	}
	defer rows.Close()

	var firings []models.Firing
	for rows.Next() {
		var (
			f       models.Firing
			urgency string
			firedAt string
			ackAt   sql.NullString
		)
		if err := rows.Scan(&f.ID, &f.AlertID, &f.Title, &f.Description, &urgency, &firedAt, &ackAt); err != nil {
			return nil, fmt.Errorf("scan firing row: %w", err)
		}
		f.Urgency = models.Urgency(urgency)
		if f.FiredAt, err = time.Parse(timeLayout, firedAt); err != nil {
			return nil, fmt.Errorf("parse fired_at: %w", err)
		}
		if ackAt.Valid {
			t, err := time.Parse(timeLayout, ackAt.String)
			if err != nil {
				return nil, fmt.Errorf("parse acknowledged_at: %w", err)
			}
			f.AcknowledgedAt = &t
		}
		firings = append(firings, f)
	}
	return firings, rows.Err()
}

// Prune deletes firings older than before and reports how many were removed
func (s *SQLite) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM alert_firings WHERE fired_at < ?`, before.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("prune firings: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}
