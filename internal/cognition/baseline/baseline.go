// Package baseline derives a patient's frozen reference vector and period
// aggregates from stored metric vectors.
package baseline

import (
	"sort"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"
	"gonum.org/v1/gonum/stat"
)

// Size is the number of earliest analyses that form a baseline.
const Size = 3

// Compute returns the metric-wise mean of the first Size records ordered by
// AnalyzedAt ascending. The second return value is false while fewer than
// Size records exist (baseline not yet established).
//
// GlobalScore is recomputed from the averaged metrics rather than averaged.
// Later records never influence the result.
func Compute(records []cognitive.MetricVector) (cognitive.MetricVector, bool) {
	if len(records) < Size {
		return cognitive.MetricVector{}, false
	}

	first := Earliest(records, Size)
	b := mean(first)
	b.GlobalScore = cognitive.GlobalScore(b.Scores)
	b.PatientID = first[0].PatientID
	b.IsBaselineMember = true
	b.AnalyzedAt = first[len(first)-1].AnalyzedAt
	return b, true
}

// Earliest returns up to n records ordered by AnalyzedAt ascending.
// Records with equal timestamps keep their input order.
func Earliest(records []cognitive.MetricVector, n int) []cognitive.MetricVector {
	sorted := make([]cognitive.MetricVector, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AnalyzedAt.Before(sorted[j].AnalyzedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Aggregate returns the unweighted mean of every numeric field across
// records, or false when records is empty. Unlike Compute, GlobalScore is the
// mean of the stored per-session scores.
func Aggregate(records []cognitive.MetricVector) (cognitive.MetricVector, bool) {
	if len(records) == 0 {
		return cognitive.MetricVector{}, false
	}

	agg := mean(records)
	agg.GlobalScore = stat.Mean(column(records, func(v cognitive.MetricVector) float64 {
		return v.GlobalScore
	}), nil)
	agg.PatientID = records[0].PatientID
	return agg, true
}

// mean averages the metrics and lexical counters of records.
func mean(records []cognitive.MetricVector) cognitive.MetricVector {
	var out cognitive.MetricVector
	for _, m := range cognitive.AllMetrics {
		metric := m
		out.Scores.Set(metric, stat.Mean(column(records, func(v cognitive.MetricVector) float64 {
			return v.Scores.Get(metric)
		}), nil))
	}

	out.Lexical = cognitive.Lexical{
		UniqueWords:   stat.Mean(column(records, func(v cognitive.MetricVector) float64 { return v.Lexical.UniqueWords }), nil),
		TotalWords:    stat.Mean(column(records, func(v cognitive.MetricVector) float64 { return v.Lexical.TotalWords }), nil),
		AvgWordLength: stat.Mean(column(records, func(v cognitive.MetricVector) float64 { return v.Lexical.AvgWordLength }), nil),
		Pauses:        stat.Mean(column(records, func(v cognitive.MetricVector) float64 { return v.Lexical.Pauses }), nil),
		Repetitions:   stat.Mean(column(records, func(v cognitive.MetricVector) float64 { return v.Lexical.Repetitions }), nil),
	}
	return out
}

func column(records []cognitive.MetricVector, field func(cognitive.MetricVector) float64) []float64 {
	xs := make([]float64, len(records))
	for i := range records {
		xs[i] = field(records[i])
	}
	return xs
}
