package cognition

import "github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"

// Event topics published by the cognition module.
const (
	TopicAnalysisIngested    = "cognition.analysis.ingested"
	TopicBaselineEstablished = "cognition.baseline.established"
	TopicAlertCreated        = "cognition.alert.created"
	TopicAlertRead           = "cognition.alert.read"
	TopicAlertAction         = "cognition.alert.action"
)

// AnalysisIngestedEvent is the payload of TopicAnalysisIngested.
type AnalysisIngestedEvent struct {
	Analysis cognitive.MetricVector `json:"analysis"`
}

// BaselineEstablishedEvent is the payload of TopicBaselineEstablished.
type BaselineEstablishedEvent struct {
	PatientID string                 `json:"patient_id"`
	Baseline  cognitive.MetricVector `json:"baseline"`
}

// AlertEvent is the payload of every cognition.alert.* topic. ActorID is
// empty for alerts raised by ingestion.
type AlertEvent struct {
	Alert   cognitive.Alert `json:"alert"`
	ActorID string          `json:"actor_id,omitempty"`
}
