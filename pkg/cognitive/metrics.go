// Package cognitive provides the public data types of the Alzheon
// cognitive-deviation engine: metric vectors, deviations, severity tiers,
// alerts and per-clinician threshold configuration.
package cognitive

import (
	"math"
	"time"
)

// Metric names one of the eight normalized cognitive metrics.
type Metric string

const (
	MetricCoherence       Metric = "coherence"
	MetricClarity         Metric = "clarity"
	MetricLexicalRichness Metric = "lexical_richness"
	MetricMemory          Metric = "memory"
	MetricEmotion         Metric = "emotion"
	MetricOrientation     Metric = "orientation"
	MetricReasoning       Metric = "reasoning"
	MetricAttention       Metric = "attention"
)

// AllMetrics lists every metric in storage order.
var AllMetrics = []Metric{
	MetricCoherence,
	MetricClarity,
	MetricLexicalRichness,
	MetricMemory,
	MetricEmotion,
	MetricOrientation,
	MetricReasoning,
	MetricAttention,
}

// AlertingMetrics are the metrics compared against the baseline for alerting,
// in evaluation order. The remaining metrics feed reporting only.
var AlertingMetrics = []Metric{
	MetricCoherence,
	MetricClarity,
	MetricMemory,
	MetricOrientation,
	MetricReasoning,
}

// Weights used to derive GlobalScore. They sum to 1.
var Weights = map[Metric]float64{
	MetricCoherence:       0.15,
	MetricClarity:         0.10,
	MetricLexicalRichness: 0.10,
	MetricMemory:          0.20,
	MetricEmotion:         0.05,
	MetricOrientation:     0.15,
	MetricReasoning:       0.15,
	MetricAttention:       0.10,
}

// Scores holds the eight normalized metrics of one analysis.
type Scores struct {
	Coherence       float64 `json:"coherence"`
	Clarity         float64 `json:"clarity"`
	LexicalRichness float64 `json:"lexical_richness"`
	Memory          float64 `json:"memory"`
	Emotion         float64 `json:"emotion"`
	Orientation     float64 `json:"orientation"`
	Reasoning       float64 `json:"reasoning"`
	Attention       float64 `json:"attention"`
}

// Get returns the value of metric m. Unknown metrics return 0.
func (s Scores) Get(m Metric) float64 {
	switch m {
	case MetricCoherence:
		return s.Coherence
	case MetricClarity:
		return s.Clarity
	case MetricLexicalRichness:
		return s.LexicalRichness
	case MetricMemory:
		return s.Memory
	case MetricEmotion:
		return s.Emotion
	case MetricOrientation:
		return s.Orientation
	case MetricReasoning:
		return s.Reasoning
	case MetricAttention:
		return s.Attention
	}
	return 0
}

// Set assigns v to metric m. Unknown metrics are ignored.
func (s *Scores) Set(m Metric, v float64) {
	switch m {
	case MetricCoherence:
		s.Coherence = v
	case MetricClarity:
		s.Clarity = v
	case MetricLexicalRichness:
		s.LexicalRichness = v
	case MetricMemory:
		s.Memory = v
	case MetricEmotion:
		s.Emotion = v
	case MetricOrientation:
		s.Orientation = v
	case MetricReasoning:
		s.Reasoning = v
	case MetricAttention:
		s.Attention = v
	}
}

// Lexical holds the lexical counters reported by the scoring provider.
type Lexical struct {
	UniqueWords   float64 `json:"unique_words"`
	TotalWords    float64 `json:"total_words"`
	AvgWordLength float64 `json:"avg_word_length"`
	Pauses        float64 `json:"pauses"`
	Repetitions   float64 `json:"repetitions"`
}

// MetricVector is the immutable record of one analysis event.
type MetricVector struct {
	ID               string    `json:"id"`
	PatientID        string    `json:"patient_id"`
	SessionID        string    `json:"session_id"`
	Scores           Scores    `json:"scores"`
	GlobalScore      float64   `json:"global_score"`
	Lexical          Lexical   `json:"lexical"`
	Observations     string    `json:"observations,omitempty"`
	AlertTags        []string  `json:"alert_tags,omitempty"`
	IsBaselineMember bool      `json:"is_baseline_member"`
	AnalyzedAt       time.Time `json:"analyzed_at"`
}

// Clamp bounds v to [0, 1]. NaN maps to 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// InRange reports whether v is a valid normalized metric value.
func InRange(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// GlobalScore returns the weighted sum of s scaled to [0, 100] and rounded
// to the nearest integer.
func GlobalScore(s Scores) float64 {
	var sum float64
	for _, m := range AllMetrics {
		sum += Weights[m] * Clamp(s.Get(m))
	}
	return math.Round(sum * 100)
}
