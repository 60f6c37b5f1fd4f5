package cognition

import (
	"context"
	"fmt"
	"time"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/store"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"
)

// ThresholdService resolves and stores per-clinician threshold
// configurations.
type ThresholdService struct {
	store    *CognitionStore
	defaults cognitive.ThresholdConfig
	now      func() time.Time
}

// NewThresholdService creates a ThresholdService that falls back to
// defaults for clinicians without a stored configuration.
func NewThresholdService(s *CognitionStore, defaults cognitive.ThresholdConfig) *ThresholdService {
	return &ThresholdService{
		store:    s,
		defaults: defaults,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the clinician's configuration or the defaults. It never
// persists anything.
func (ts *ThresholdService) Get(ctx context.Context, clinicianID string) (cognitive.ThresholdConfig, error) {
	return ts.get(ctx, ts.store.DB(), clinicianID)
}

func (ts *ThresholdService) get(ctx context.Context, q store.Querier, clinicianID string) (cognitive.ThresholdConfig, error) {
	cfg, ok, err := ts.store.GetThresholds(ctx, q, clinicianID)
	if err != nil {
		return cognitive.ThresholdConfig{}, err
	}
	if !ok {
		cfg = ts.defaults
		cfg.ClinicianID = clinicianID
		cfg.UpdatedAt = time.Time{}
	}
	return cfg, nil
}

// Update validates and stores a clinician's configuration.
func (ts *ThresholdService) Update(ctx context.Context, cfg cognitive.ThresholdConfig) (cognitive.ThresholdConfig, error) {
	if cfg.ClinicianID == "" {
		return cognitive.ThresholdConfig{}, fmt.Errorf("%w: clinician is required", cognitive.ErrValidation)
	}
	if err := cfg.Validate(); err != nil {
		return cognitive.ThresholdConfig{}, err
	}
	cfg.UpdatedAt = ts.now()
	if err := ts.store.UpsertThresholds(ctx, &cfg); err != nil {
		return cognitive.ThresholdConfig{}, err
	}
	return cfg, nil
}
