package cognitive

import "time"

// Severity is an alert-level or per-metric severity tier.
type Severity string

const (
	SeverityBaja    Severity = "baja"
	SeverityMedia   Severity = "media"
	SeverityAlta    Severity = "alta"
	SeverityCritica Severity = "critica"
)

// Rank orders severities from lowest (1) to highest (4). Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityBaja:
		return 1
	case SeverityMedia:
		return 2
	case SeverityAlta:
		return 3
	case SeverityCritica:
		return 4
	}
	return 0
}

// Valid reports whether s is one of the four known tiers.
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// Deviation is a per-metric deterioration of a current vector relative to
// the baseline.
type Deviation struct {
	Metric        Metric   `json:"metric"`
	BaselineValue float64  `json:"baseline_value"`
	CurrentValue  float64  `json:"current_value"`
	Difference    float64  `json:"difference"` // baseline - current
	Percentage    float64  `json:"percentage"` // difference / baseline
	Severity      Severity `json:"severity"`   // per-metric tag
}

// Action is one entry in an alert's action log.
type Action struct {
	ID          string    `json:"id"`
	ActorID     string    `json:"actor_id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Alert is the persisted record of a clinically significant deviation.
type Alert struct {
	ID              string      `json:"id"`
	PatientID       string      `json:"patient_id"`
	ClinicianID     string      `json:"clinician_id"`
	AnalysisID      string      `json:"analysis_id"`
	Severity        Severity    `json:"severity"`
	Message         string      `json:"message"`
	Deviations      []Deviation `json:"deviations"`
	Recommendations []string    `json:"recommendations"`
	Read            bool        `json:"read"`
	ReadAt          *time.Time  `json:"read_at,omitempty"`
	ReadBy          string      `json:"read_by,omitempty"`
	Actions         []Action    `json:"actions"`
	CreatedAt       time.Time   `json:"created_at"`
}
