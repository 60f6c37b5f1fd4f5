// Package deviation compares a metric vector against a patient's baseline
// and maps the resulting deviations to an alert-level severity tier.
package deviation

import (
	"math"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"
)

// tolerance absorbs float error at alert-band minimums so that a value
// exactly on a boundary resolves to the higher tier.
const tolerance = 1e-9

// Per-metric tag boundaries on the absolute difference scale, both exclusive.
// They are distinct from the alert-level bands in ThresholdConfig.
const (
	TagAltaMin  = 0.30
	TagMediaMin = 0.20
)

// Option configures Detect.
type Option func(*options)

type options struct {
	nonComparable func(cognitive.Metric)
}

// WithNonComparable registers a hook invoked for every alerting metric whose
// baseline value is zero and therefore cannot yield a percentage.
func WithNonComparable(fn func(cognitive.Metric)) Option {
	return func(o *options) { o.nonComparable = fn }
}

// Detect returns the deteriorations of current relative to baseline over the
// alerting metrics, in evaluation order. A metric is reported only when
// baseline - current exceeds cfg.MinimumDeviation. An empty result means no
// significant deterioration.
func Detect(current, baseline cognitive.MetricVector, cfg cognitive.ThresholdConfig, opts ...Option) []cognitive.Deviation {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var devs []cognitive.Deviation
	for _, m := range cognitive.AlertingMetrics {
		base := baseline.Scores.Get(m)
		cur := current.Scores.Get(m)

		if base == 0 {
			if o.nonComparable != nil {
				o.nonComparable(m)
			}
			continue
		}

		diff := base - cur
		if diff <= cfg.MinimumDeviation {
			continue
		}

		devs = append(devs, cognitive.Deviation{
			Metric:        m,
			BaselineValue: base,
			CurrentValue:  cur,
			Difference:    diff,
			Percentage:    diff / base,
			Severity:      Tag(diff),
		})
	}
	return devs
}

// Tag returns the coarse per-metric severity for an absolute difference. A
// difference equal to a boundary keeps the lower tag.
func Tag(diff float64) cognitive.Severity {
	switch {
	case diff > TagAltaMin:
		return cognitive.SeverityAlta
	case diff > TagMediaMin:
		return cognitive.SeverityMedia
	default:
		return cognitive.SeverityBaja
	}
}

// MaxMagnitude returns the largest |Percentage| among devs with a finite
// percentage, and false when none qualifies.
func MaxMagnitude(devs []cognitive.Deviation) (float64, bool) {
	var (
		top   float64
		found bool
	)
	for _, d := range devs {
		if math.IsNaN(d.Percentage) || math.IsInf(d.Percentage, 0) {
			continue
		}
		if mag := math.Abs(d.Percentage); !found || mag > top {
			top = mag
			found = true
		}
	}
	return top, found
}

// Classify maps devs to one alert-level severity using cfg's bands, checked
// from critica down to baja. The second return value is false when devs is
// empty or the largest magnitude falls below the baja band.
func Classify(devs []cognitive.Deviation, cfg cognitive.ThresholdConfig) (cognitive.Severity, bool) {
	mag, ok := MaxMagnitude(devs)
	if !ok {
		return "", false
	}
	return ClassifyMagnitude(mag, cfg.Bands)
}

// ClassifyMagnitude resolves a magnitude to the band enclosing it. Bands are
// [Min, Max) except the top one, which also holds everything above its
// minimum. A value at a band minimum takes that band; a value no band
// encloses yields false.
func ClassifyMagnitude(mag float64, bands cognitive.Bands) (cognitive.Severity, bool) {
	for i, b := range bands.Ordered() {
		if mag < b.Band.Min-tolerance {
			continue
		}
		if i > 0 && mag >= b.Band.Max {
			return "", false
		}
		return b.Severity, true
	}
	return "", false
}
