package models

import "time"

// Firing records one delivery of an alert
type Firing struct {
	ID             string     `json:"id"`
	AlertID        string     `json:"alert_id"` // Alert.Key() at fire time
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Urgency        Urgency    `json:"urgency"`
	FiredAt        time.Time  `json:"fired_at"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
}

// Acknowledged reports whether the operator dismissed the alert
func (f Firing) Acknowledged() bool {
	return f.AcknowledgedAt != nil
}
