package cognitive

import (
	"fmt"
	"time"
)

// Band is a [Min, Max) range on the deviation magnitude scale.
type Band struct {
	Min float64 `json:"min" mapstructure:"min"`
	Max float64 `json:"max" mapstructure:"max"`
}

// Bands holds the four alert-level severity bands.
type Bands struct {
	Baja    Band `json:"baja" mapstructure:"baja"`
	Media   Band `json:"media" mapstructure:"media"`
	Alta    Band `json:"alta" mapstructure:"alta"`
	Critica Band `json:"critica" mapstructure:"critica"`
}

// Ordered returns the bands from highest to lowest tier.
func (b Bands) Ordered() []struct {
	Severity Severity
	Band     Band
} {
	return []struct {
		Severity Severity
		Band     Band
	}{
		{SeverityCritica, b.Critica},
		{SeverityAlta, b.Alta},
		{SeverityMedia, b.Media},
		{SeverityBaja, b.Baja},
	}
}

// bandTolerance absorbs float noise when comparing adjacent band edges.
const bandTolerance = 1e-9

// ThresholdConfig is a clinician's deviation and severity configuration.
type ThresholdConfig struct {
	ClinicianID      string    `json:"clinician_id,omitempty" mapstructure:"-"`
	MinimumDeviation float64   `json:"minimum_deviation" mapstructure:"minimum_deviation"`
	Bands            Bands     `json:"bands" mapstructure:"bands"`
	UpdatedAt        time.Time `json:"updated_at,omitempty" mapstructure:"-"`
}

// DefaultThresholds returns the documented defaults applied when a clinician
// has not stored a configuration.
func DefaultThresholds() ThresholdConfig {
	return ThresholdConfig{
		MinimumDeviation: 0.15,
		Bands: Bands{
			Baja:    Band{Min: 0.15, Max: 0.25},
			Media:   Band{Min: 0.25, Max: 0.35},
			Alta:    Band{Min: 0.35, Max: 0.50},
			Critica: Band{Min: 0.50, Max: 1.0},
		},
	}
}

// Validate rejects inverted, overlapping, gapped or out-of-order bands and a
// minimum deviation outside (0, 1]. Each band must start where the one below
// it ends. Errors wrap ErrValidation.
func (c ThresholdConfig) Validate() error {
	if c.MinimumDeviation <= 0 || c.MinimumDeviation > 1 {
		return fmt.Errorf("%w: minimum_deviation %.4f must be in (0, 1]", ErrValidation, c.MinimumDeviation)
	}

	ascending := []struct {
		name string
		band Band
	}{
		{"baja", c.Bands.Baja},
		{"media", c.Bands.Media},
		{"alta", c.Bands.Alta},
		{"critica", c.Bands.Critica},
	}
	for i, b := range ascending {
		if b.band.Min < 0 || b.band.Max > 1 {
			return fmt.Errorf("%w: band %s [%.4f, %.4f) outside [0, 1]", ErrValidation, b.name, b.band.Min, b.band.Max)
		}
		if b.band.Min >= b.band.Max {
			return fmt.Errorf("%w: band %s is inverted or empty: [%.4f, %.4f)", ErrValidation, b.name, b.band.Min, b.band.Max)
		}
		if i > 0 {
			prev := ascending[i-1]
			switch {
			case b.band.Min < prev.band.Max-bandTolerance:
				return fmt.Errorf("%w: band %s overlaps band %s", ErrValidation, b.name, prev.name)
			case b.band.Min > prev.band.Max+bandTolerance:
				return fmt.Errorf("%w: gap between band %s and band %s", ErrValidation, prev.name, b.name)
			}
		}
	}
	return nil
}
