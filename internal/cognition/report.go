package cognition

import (
	"time"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"
)

// ReportBundle gathers everything a clinical report needs for one patient
// and period.
type ReportBundle struct {
	PatientID           string                   `json:"patient_id"`
	From                *time.Time               `json:"from,omitempty"`
	To                  *time.Time               `json:"to,omitempty"`
	BaselineEstablished bool                     `json:"baseline_established"`
	Baseline            *cognitive.MetricVector  `json:"baseline,omitempty"`
	Aggregate           *cognitive.MetricVector  `json:"aggregate,omitempty"`
	Analyses            []cognitive.MetricVector `json:"analyses"`
	Alerts              []cognitive.Alert        `json:"alerts"`
	ElapsedMs           int64                    `json:"elapsed_ms"`
}

// BaselineView is the response shape of a baseline lookup.
type BaselineView struct {
	PatientID   string                  `json:"patient_id"`
	Established bool                    `json:"established"`
	Baseline    *cognitive.MetricVector `json:"baseline,omitempty"`
	Message     string                  `json:"message,omitempty"`
}

// IngestResult describes the outcome of ingesting one ScoreReport.
type IngestResult struct {
	Analysis            cognitive.MetricVector  `json:"analysis"`
	BaselineEstablished bool                    `json:"baseline_established"`
	Baseline            *cognitive.MetricVector `json:"baseline,omitempty"`
	Deviations          []cognitive.Deviation   `json:"deviations"`
	Alert               *cognitive.Alert        `json:"alert,omitempty"`
	Notice              string                  `json:"notice,omitempty"`
}
