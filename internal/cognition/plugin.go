package cognition

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/cognition/baseline"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/cognition/deviation"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/store"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/plugin"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/roles"
	"go.uber.org/zap"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin           = (*Module)(nil)
	_ plugin.HTTPProvider     = (*Module)(nil)
	_ plugin.HealthChecker    = (*Module)(nil)
	_ plugin.Validator        = (*Module)(nil)
	_ roles.CognitionProvider = (*Module)(nil)
)

// errNoStore is returned by operations that need persistence when the module
// was initialized without a database.
var errNoStore = errors.New("cognition store not available")

// Module implements the cognition plugin: ingestion of scored analyses,
// baseline tracking, deviation detection and the alert lifecycle.
type Module struct {
	logger     *zap.Logger
	cfg        Config
	db         plugin.Store
	store      *CognitionStore
	alerts     *AlertManager
	thresholds *ThresholdService
	cache      BaselineCache
	cacheName  string
	bus        plugin.EventBus
	locks      *patientLocks
	now        func() time.Time
}

// New creates a new cognition plugin instance.
func New() *Module {
	return &Module{
		locks: newPatientLocks(),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "cognition",
		Version:     "0.1.0",
		Description: "Cognitive baseline tracking, deviation detection and clinician alerts",
		Roles:       []string{roles.RoleCognition},
		Required:    true,
		APIVersion:  plugin.APIVersionCurrent,
	}
}

func (m *Module) Init(ctx context.Context, deps plugin.Dependencies) error {
	m.logger = deps.Logger

	m.cfg = DefaultConfig()
	if deps.Config != nil {
		if err := deps.Config.Unmarshal(&m.cfg); err != nil {
			return fmt.Errorf("unmarshal cognition config: %w", err)
		}
	}

	if deps.Store != nil {
		if err := deps.Store.Migrate(ctx, "cognition", migrations()); err != nil {
			return fmt.Errorf("cognition migrations: %w", err)
		}
		m.db = deps.Store
		m.store = NewCognitionStore(deps.Store.DB())
		m.alerts = NewAlertManager(m.store, deps.Bus, m.logger)
		m.thresholds = NewThresholdService(m.store, m.cfg.DefaultThresholds)
	}

	m.bus = deps.Bus
	m.cache, m.cacheName = m.openCache(ctx)

	m.logger.Info("cognition module initialized",
		zap.Int("baseline_size", baseline.Size),
		zap.Float64("minimum_deviation", m.cfg.DefaultThresholds.MinimumDeviation),
		zap.Duration("ingest_timeout", m.cfg.IngestTimeout),
		zap.String("cache", m.cacheName),
	)
	return nil
}

// openCache builds the configured BaselineCache. An unreachable Redis
// degrades to the in-process cache.
func (m *Module) openCache(ctx context.Context) (BaselineCache, string) {
	if m.cfg.Cache.Backend != CacheRedis {
		return newMemoryCache(), CacheMemory
	}

	rc := newRedisCache(m.cfg.Cache)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.ping(pingCtx); err != nil {
		m.logger.Warn("redis baseline cache unavailable, using memory",
			zap.String("addr", m.cfg.Cache.RedisAddr),
			zap.Error(err),
		)
		_ = rc.Close()
		return newMemoryCache(), CacheMemory
	}
	return rc, CacheRedis
}

func (m *Module) Start(_ context.Context) error {
	m.logger.Info("cognition module started")
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	if m.cache != nil {
		if err := m.cache.Close(); err != nil {
			m.logger.Warn("close baseline cache", zap.Error(err))
		}
	}
	m.logger.Info("cognition module stopped")
	return nil
}

// ValidateConfig implements plugin.Validator.
func (m *Module) ValidateConfig() error {
	return m.cfg.validate()
}

// Health implements plugin.HealthChecker.
func (m *Module) Health(ctx context.Context) plugin.HealthStatus {
	details := map[string]string{
		"cache_backend":     m.cacheName,
		"ingests_in_flight": strconv.Itoa(m.locks.active()),
	}
	if m.cache != nil {
		if n, err := m.cache.Len(ctx); err == nil {
			details["baselines_cached"] = strconv.Itoa(n)
		}
	}
	if m.store == nil {
		details["store"] = "unavailable"
		return plugin.HealthStatus{Status: "degraded", Message: errNoStore.Error(), Details: details}
	}

	n, err := m.store.CountPatients(ctx)
	if err != nil {
		return plugin.HealthStatus{Status: "unhealthy", Message: err.Error(), Details: details}
	}
	details["patients_tracked"] = strconv.Itoa(n)
	return plugin.HealthStatus{Status: "healthy", Details: details}
}

// Ingest runs one scored analysis through the pipeline: clamp, persist,
// establish or load the baseline, detect deviations against the primary
// clinician's thresholds and raise an alert. Persistence of the analysis,
// baseline flags and alert is atomic. Calls for the same patient are
// serialized.
func (m *Module) Ingest(ctx context.Context, report ScoreReport) (*IngestResult, error) {
	if m.store == nil {
		return nil, errNoStore
	}
	start := time.Now()
	defer func() { ingestDuration.Observe(time.Since(start).Seconds()) }()

	vec, err := toVector(report, m.now(), m.logger)
	if err != nil {
		return nil, err
	}
	log := m.logger.With(zap.String("patient_id", vec.PatientID), zap.String("analysis_id", vec.ID))

	unlock := m.locks.lock(vec.PatientID)
	defer unlock()

	res := &IngestResult{Deviations: []cognitive.Deviation{}}
	var (
		established bool // baseline formed by this call
		cacheBase   bool // baseline must be written to the cache after commit
	)
	err = m.db.Tx(ctx, func(tx *sql.Tx) error {
		if err := m.store.InsertAnalysis(ctx, tx, &vec); err != nil {
			return err
		}
		n, err := m.store.CountAnalyses(ctx, tx, vec.PatientID)
		if err != nil {
			return err
		}
		if n < baseline.Size {
			res.Notice = fmt.Sprintf("baseline not established: %d of %d analyses", n, baseline.Size)
			return nil
		}

		base, ok, fromCache, err := m.lookupBaseline(ctx, tx, vec.PatientID)
		if err != nil {
			return err
		}
		if !ok {
			var members []string
			base, members, err = m.establish(ctx, tx, vec.PatientID)
			if err != nil {
				return err
			}
			established = true
			vec.IsBaselineMember = slices.Contains(members, vec.ID)
		}
		cacheBase = !fromCache
		res.BaselineEstablished = true
		res.Baseline = &base

		if vec.IsBaselineMember {
			res.Notice = "analysis is part of the baseline"
			return nil
		}

		clinicianID, err := m.store.PrimaryClinician(ctx, tx, vec.PatientID)
		if err != nil {
			return err
		}
		cfg, err := m.thresholds.get(ctx, tx, clinicianID)
		if err != nil {
			return err
		}

		devs := deviation.Detect(vec, base, cfg, deviation.WithNonComparable(func(metric cognitive.Metric) {
			nonComparableMetrics.WithLabelValues(string(metric)).Inc()
			log.Warn("metric skipped",
				zap.String("metric", string(metric)),
				zap.Error(cognitive.ErrNonComparable),
			)
		}))
		if devs != nil {
			res.Deviations = devs
		}
		sev, ok := deviation.Classify(devs, cfg)
		if !ok {
			return nil
		}
		if clinicianID == "" {
			log.Warn("deviation detected but patient has no primary clinician; alert not created",
				zap.String("severity", string(sev)))
			res.Notice = "no primary clinician assigned; alert not created"
			return nil
		}

		res.Alert, err = m.alerts.create(ctx, tx, NewAlert{
			PatientID:   vec.PatientID,
			ClinicianID: clinicianID,
			AnalysisID:  vec.ID,
			Severity:    sev,
			Deviations:  devs,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("ingest analysis: %w", err)
	}

	res.Analysis = vec
	analysesIngested.Inc()
	log.Debug("analysis ingested",
		zap.Float64("global_score", vec.GlobalScore),
		zap.Int("deviations", len(res.Deviations)),
	)

	if cacheBase && res.Baseline != nil {
		m.remember(ctx, vec.PatientID, *res.Baseline)
	}
	if established {
		log.Info("baseline established", zap.Float64("global_score", res.Baseline.GlobalScore))
		m.publish(ctx, TopicBaselineEstablished, BaselineEstablishedEvent{
			PatientID: vec.PatientID,
			Baseline:  *res.Baseline,
		})
	}
	m.publish(ctx, TopicAnalysisIngested, AnalysisIngestedEvent{Analysis: vec})
	if res.Alert != nil {
		m.alerts.published(ctx, res.Alert)
	}
	return res, nil
}

// establish flags the patient's earliest analyses as baseline members and
// returns their mean along with the member IDs.
func (m *Module) establish(ctx context.Context, q store.Querier, patientID string) (cognitive.MetricVector, []string, error) {
	first, err := m.store.EarliestAnalyses(ctx, q, patientID, baseline.Size)
	if err != nil {
		return cognitive.MetricVector{}, nil, err
	}
	base, ok := baseline.Compute(first)
	if !ok {
		return cognitive.MetricVector{}, nil, fmt.Errorf("patient %s: %w", patientID, cognitive.ErrInsufficientData)
	}
	ids := make([]string, len(first))
	for i := range first {
		ids[i] = first[i].ID
	}
	if err := m.store.MarkBaselineMembers(ctx, q, ids); err != nil {
		return cognitive.MetricVector{}, nil, err
	}
	return base, ids, nil
}

// lookupBaseline returns the cached baseline or recomputes it from the
// flagged members. fromCache reports a cache hit.
func (m *Module) lookupBaseline(ctx context.Context, q store.Querier, patientID string) (b cognitive.MetricVector, ok, fromCache bool, err error) {
	if m.cache != nil {
		b, ok, err = m.cache.Get(ctx, patientID)
		if err != nil {
			m.logger.Warn("baseline cache read failed",
				zap.String("patient_id", patientID), zap.Error(err))
		} else if ok {
			return b, true, true, nil
		}
	}

	members, err := m.store.BaselineMembers(ctx, q, patientID)
	if err != nil {
		return cognitive.MetricVector{}, false, false, err
	}
	b, ok = baseline.Compute(members)
	return b, ok, false, nil
}

func (m *Module) remember(ctx context.Context, patientID string, b cognitive.MetricVector) {
	if m.cache == nil {
		return
	}
	if err := m.cache.Set(ctx, patientID, b); err != nil {
		m.logger.Warn("baseline cache write failed",
			zap.String("patient_id", patientID), zap.Error(err))
	}
}

// Baseline implements roles.CognitionProvider.
func (m *Module) Baseline(ctx context.Context, patientID string) (cognitive.MetricVector, bool, error) {
	if m.store == nil {
		return cognitive.MetricVector{}, false, errNoStore
	}
	b, ok, fromCache, err := m.lookupBaseline(ctx, m.store.DB(), patientID)
	if err != nil || !ok {
		return cognitive.MetricVector{}, false, err
	}
	if !fromCache {
		m.remember(ctx, patientID, b)
	}
	return b, true, nil
}

// Analyses returns a patient's analyses in [from, to], oldest first.
func (m *Module) Analyses(ctx context.Context, patientID string, from, to *time.Time, limit int) ([]cognitive.MetricVector, error) {
	if m.store == nil {
		return nil, errNoStore
	}
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	vs, err := m.store.ListAnalyses(ctx, patientID, from, to, limit)
	if err != nil {
		return nil, err
	}
	if vs == nil {
		vs = []cognitive.MetricVector{}
	}
	return vs, nil
}

// Aggregate implements roles.CognitionProvider.
func (m *Module) Aggregate(ctx context.Context, patientID string, from, to *time.Time) (cognitive.MetricVector, bool, error) {
	vs, err := m.Analyses(ctx, patientID, from, to, 0)
	if err != nil {
		return cognitive.MetricVector{}, false, err
	}
	agg, ok := baseline.Aggregate(vs)
	return agg, ok, nil
}

// Report assembles baseline, period aggregate, analyses and alerts for one
// patient.
func (m *Module) Report(ctx context.Context, patientID string, from, to *time.Time) (*ReportBundle, error) {
	start := time.Now()
	b, established, err := m.Baseline(ctx, patientID)
	if err != nil {
		return nil, err
	}
	vs, err := m.Analyses(ctx, patientID, from, to, 0)
	if err != nil {
		return nil, err
	}
	alerts, err := m.alerts.ListHistory(ctx, AlertFilter{PatientID: patientID, From: from, To: to, Limit: maxLimit})
	if err != nil {
		return nil, err
	}

	bundle := &ReportBundle{
		PatientID:           patientID,
		From:                from,
		To:                  to,
		BaselineEstablished: established,
		Analyses:            vs,
		Alerts:              alerts,
	}
	if established {
		bundle.Baseline = &b
	}
	if agg, ok := baseline.Aggregate(vs); ok {
		bundle.Aggregate = &agg
	}
	bundle.ElapsedMs = time.Since(start).Milliseconds()
	return bundle, nil
}

// Assign adds a clinician to a patient's care team. A primary assignment
// makes the clinician the recipient of the patient's alerts.
func (m *Module) Assign(ctx context.Context, clinicianID, patientID string, primary bool) error {
	if m.store == nil {
		return errNoStore
	}
	clinicianID, patientID = strings.TrimSpace(clinicianID), strings.TrimSpace(patientID)
	if clinicianID == "" || patientID == "" {
		return fmt.Errorf("%w: clinician_id and patient_id are required", cognitive.ErrValidation)
	}
	err := m.db.Tx(ctx, func(tx *sql.Tx) error {
		return m.store.Assign(ctx, tx, clinicianID, patientID, primary, m.now())
	})
	if err != nil {
		return err
	}
	m.logger.Info("care assignment saved",
		zap.String("clinician_id", clinicianID),
		zap.String("patient_id", patientID),
		zap.Bool("primary", primary),
	)
	return nil
}

// AuthorizePatient returns cognitive.ErrOwnership unless actorID is on the
// patient's care team.
func (m *Module) AuthorizePatient(ctx context.Context, actorID, patientID string) error {
	if m.store == nil {
		return errNoStore
	}
	ok, err := m.store.IsAssigned(ctx, m.store.DB(), actorID, patientID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("patient %s: %w", patientID, cognitive.ErrOwnership)
	}
	return nil
}

// Alerts exposes the alert lifecycle manager.
func (m *Module) Alerts() *AlertManager { return m.alerts }

// Thresholds exposes the threshold service.
func (m *Module) Thresholds() *ThresholdService { return m.thresholds }

func (m *Module) publish(ctx context.Context, topic string, payload any) {
	if m.bus == nil {
		return
	}
	m.bus.PublishAsync(context.WithoutCancel(ctx), plugin.Event{
		Topic:   topic,
		Source:  "cognition",
		Payload: payload,
	})
}

func checkRange(from, to *time.Time) error {
	if from != nil && to != nil && from.After(*to) {
		return fmt.Errorf("%w: from is after to", cognitive.ErrValidation)
	}
	return nil
}
