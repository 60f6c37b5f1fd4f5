package cognitive

import (
	"errors"
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "above range", in: 1.3, want: 1.0},
		{name: "below range", in: -0.2, want: 0.0},
		{name: "lower bound", in: 0, want: 0},
		{name: "upper bound", in: 1, want: 1},
		{name: "inside", in: 0.42, want: 0.42},
		{name: "NaN", in: math.NaN(), want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.in); got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestScoresGetSet(t *testing.T) {
	var s Scores
	for i, m := range AllMetrics {
		s.Set(m, float64(i)/10)
	}
	for i, m := range AllMetrics {
		if got := s.Get(m); got != float64(i)/10 {
			t.Errorf("Get(%s) = %v, want %v", m, got, float64(i)/10)
		}
	}
	if got := s.Get(Metric("unknown")); got != 0 {
		t.Errorf("Get(unknown) = %v, want 0", got)
	}
}

func TestWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, m := range AllMetrics {
		sum += Weights[m]
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("weights sum = %v, want 1", sum)
	}
}

func TestGlobalScore(t *testing.T) {
	tests := []struct {
		name   string
		scores Scores
		want   float64
	}{
		{name: "all zero", scores: Scores{}, want: 0},
		{
			name: "all one",
			scores: Scores{
				Coherence: 1, Clarity: 1, LexicalRichness: 1, Memory: 1,
				Emotion: 1, Orientation: 1, Reasoning: 1, Attention: 1,
			},
			want: 100,
		},
		{name: "memory only", scores: Scores{Memory: 1}, want: 20},
		{name: "rounded", scores: Scores{Memory: 0.5, Coherence: 0.33}, want: 15},
		{name: "out of range clamped", scores: Scores{Memory: 2}, want: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GlobalScore(tt.scores); got != tt.want {
				t.Errorf("GlobalScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeverityRank(t *testing.T) {
	order := []Severity{SeverityBaja, SeverityMedia, SeverityAlta, SeverityCritica}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Errorf("%s should outrank %s", order[i], order[i-1])
		}
	}
	if Severity("grave").Valid() {
		t.Error("unknown severity reported as valid")
	}
}

func TestThresholdConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ThresholdConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*ThresholdConfig) {}},
		{name: "zero minimum", mutate: func(c *ThresholdConfig) { c.MinimumDeviation = 0 }, wantErr: true},
		{name: "minimum above one", mutate: func(c *ThresholdConfig) { c.MinimumDeviation = 1.5 }, wantErr: true},
		{name: "inverted band", mutate: func(c *ThresholdConfig) { c.Bands.Media = Band{Min: 0.35, Max: 0.25} }, wantErr: true},
		{name: "overlapping bands", mutate: func(c *ThresholdConfig) { c.Bands.Alta.Min = 0.30 }, wantErr: true},
		{name: "band above one", mutate: func(c *ThresholdConfig) { c.Bands.Critica.Max = 1.2 }, wantErr: true},
		{name: "gap between bands", mutate: func(c *ThresholdConfig) { c.Bands.Media.Min = 0.27 }, wantErr: true},
		{name: "gap below media", mutate: func(c *ThresholdConfig) {
			c.Bands.Baja = Band{Min: 0.15, Max: 0.20}
			c.Bands.Media = Band{Min: 0.30, Max: 0.35}
		}, wantErr: true},
		{name: "shifted contiguous bands", mutate: func(c *ThresholdConfig) {
			c.Bands.Baja = Band{Min: 0.10, Max: 0.30}
			c.Bands.Media = Band{Min: 0.30, Max: 0.35}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultThresholds()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("Validate() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
		})
	}
}

func TestBandsOrderedHighestFirst(t *testing.T) {
	ordered := DefaultThresholds().Bands.Ordered()
	if ordered[0].Severity != SeverityCritica || ordered[3].Severity != SeverityBaja {
		t.Errorf("Ordered() = %v, want critica first and baja last", ordered)
	}
}
