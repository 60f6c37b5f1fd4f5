// Package testutil provides fixture builders shared by package tests.
package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"
)

// NewVector returns a MetricVector with every metric at 0.8, suitable for
// test fixtures. Override individual fields with options.
func NewVector(opts ...func(*cognitive.MetricVector)) cognitive.MetricVector {
	v := cognitive.MetricVector{
		ID:        uuid.New().String(),
		PatientID: "patient-1",
		SessionID: uuid.New().String(),
		Lexical: cognitive.Lexical{
			UniqueWords:   120,
			TotalWords:    300,
			AvgWordLength: 4.6,
			Pauses:        8,
			Repetitions:   3,
		},
		AnalyzedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	for _, m := range cognitive.AllMetrics {
		v.Scores.Set(m, 0.8)
	}
	for _, opt := range opts {
		opt(&v)
	}
	v.GlobalScore = cognitive.GlobalScore(v.Scores)
	return v
}

// WithPatient sets the patient ID.
func WithPatient(id string) func(*cognitive.MetricVector) {
	return func(v *cognitive.MetricVector) { v.PatientID = id }
}

// WithScore sets one metric.
func WithScore(m cognitive.Metric, value float64) func(*cognitive.MetricVector) {
	return func(v *cognitive.MetricVector) { v.Scores.Set(m, value) }
}

// WithUniform sets every metric to value.
func WithUniform(value float64) func(*cognitive.MetricVector) {
	return func(v *cognitive.MetricVector) {
		for _, m := range cognitive.AllMetrics {
			v.Scores.Set(m, value)
		}
	}
}

// WithAnalyzedAt sets the analysis timestamp.
func WithAnalyzedAt(t time.Time) func(*cognitive.MetricVector) {
	return func(v *cognitive.MetricVector) { v.AnalyzedAt = t }
}

// Day returns midnight UTC of 2025-03-01 plus n days.
func Day(n int) time.Time {
	return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}
