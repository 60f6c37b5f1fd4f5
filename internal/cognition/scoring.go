package cognition

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"
	"go.uber.org/zap"
)

// ScoreReport is the payload produced by the external scoring provider for
// one analyzed session.
type ScoreReport struct {
	PatientID    string             `json:"patient_id"`
	SessionID    string             `json:"session_id"`
	AnalyzedAt   *time.Time         `json:"analyzed_at,omitempty"`
	Scores       map[string]float64 `json:"scores"`
	Lexical      cognitive.Lexical  `json:"lexical"`
	Observations string             `json:"observations,omitempty"`
	AlertTags    []string           `json:"alert_tags,omitempty"`
}

// toVector converts a report into a clamped MetricVector. Every metric must
// be present; out-of-range values are clamped into [0, 1] and logged.
func toVector(r ScoreReport, now time.Time, logger *zap.Logger) (cognitive.MetricVector, error) {
	patientID := strings.TrimSpace(r.PatientID)
	if patientID == "" {
		return cognitive.MetricVector{}, fmt.Errorf("%w: patient_id is required", cognitive.ErrValidation)
	}

	known := make(map[string]struct{}, len(cognitive.AllMetrics))
	var scores cognitive.Scores
	for _, m := range cognitive.AllMetrics {
		known[string(m)] = struct{}{}
		raw, ok := r.Scores[string(m)]
		if !ok {
			return cognitive.MetricVector{}, fmt.Errorf("%w: metric %s is missing", cognitive.ErrValidation, m)
		}
		v := cognitive.Clamp(raw)
		if v != raw {
			logger.Warn("metric clamped into [0, 1]",
				zap.String("patient_id", patientID),
				zap.String("metric", string(m)),
				zap.Float64("raw", raw),
				zap.Float64("clamped", v),
				zap.Error(cognitive.ErrValidation),
			)
		}
		scores.Set(m, v)
	}
	for name := range r.Scores {
		if _, ok := known[name]; !ok {
			logger.Warn("unknown metric ignored",
				zap.String("patient_id", patientID),
				zap.String("metric", name),
			)
		}
	}

	analyzedAt := now
	if r.AnalyzedAt != nil && !r.AnalyzedAt.IsZero() {
		analyzedAt = *r.AnalyzedAt
	}

	return cognitive.MetricVector{
		ID:           uuid.New().String(),
		PatientID:    patientID,
		SessionID:    r.SessionID,
		Scores:       scores,
		GlobalScore:  cognitive.GlobalScore(scores),
		Lexical:      nonNegative(r.Lexical),
		Observations: r.Observations,
		AlertTags:    r.AlertTags,
		AnalyzedAt:   analyzedAt.UTC(),
	}, nil
}

// nonNegative floors lexical counters at zero.
func nonNegative(l cognitive.Lexical) cognitive.Lexical {
	floor := func(v float64) float64 {
		if math.IsNaN(v) || v < 0 {
			return 0
		}
		return v
	}
	return cognitive.Lexical{
		UniqueWords:   floor(l.UniqueWords),
		TotalWords:    floor(l.TotalWords),
		AvgWordLength: floor(l.AvgWordLength),
		Pauses:        floor(l.Pauses),
		Repetitions:   floor(l.Repetitions),
	}
}
