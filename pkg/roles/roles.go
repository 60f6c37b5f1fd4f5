// Package roles defines typed contracts for plugin roles.
// Plugins that fill a role (declared via PluginInfo.Roles) should implement
// the corresponding interface so callers can use type-safe access via
// PluginResolver.ResolveByRole followed by a type assertion.
package roles

import (
	"context"
	"time"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"
)

// Role name constants match the strings used in PluginInfo.Roles.
const (
	RoleCognition    = "cognition"
	RoleNotification = "notification"
)

// CognitionProvider is implemented by the plugin that owns patient baselines
// and analyses. Resolve via PluginResolver.ResolveByRole(RoleCognition).
type CognitionProvider interface {
	// Baseline returns the patient's frozen baseline. The bool is false
	// while fewer than three analyses exist.
	Baseline(ctx context.Context, patientID string) (cognitive.MetricVector, bool, error)

	// Aggregate averages the patient's analyses in [from, to]. Nil bounds
	// are open. The bool is false when no analysis falls in range.
	Aggregate(ctx context.Context, patientID string, from, to *time.Time) (cognitive.MetricVector, bool, error)
}

// Notification is an outbound message about a patient. Severity is empty
// for messages that are not alerts.
type Notification struct {
	Topic           string             `json:"topic"`
	PatientID       string             `json:"patient_id,omitempty"`
	Severity        cognitive.Severity `json:"severity,omitempty"`
	Summary         string             `json:"summary"`
	Recommendations []string           `json:"recommendations,omitempty"`
	Meta            map[string]string  `json:"meta,omitempty"`
}

// Notifier is implemented by plugins that deliver notifications outside the
// service (webhooks, email, push).
type Notifier interface {
	// Notify sends a notification with the given payload.
	Notify(ctx context.Context, notification Notification) error
}
