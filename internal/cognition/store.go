package cognition

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/store"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"
)

// CognitionStore provides database access for the cognition module. Methods
// that take a store.Querier run on whatever handle they are given, so the
// ingestion pipeline can compose them inside one transaction.
type CognitionStore struct {
	db *sql.DB
}

// NewCognitionStore creates a new CognitionStore backed by the given database.
func NewCognitionStore(db *sql.DB) *CognitionStore {
	return &CognitionStore{db: db}
}

// DB returns the underlying handle for callers outside a transaction.
func (s *CognitionStore) DB() store.Querier { return s.db }

// -- Analyses --

const analysisColumns = `id, patient_id, session_id,
	coherence, clarity, lexical_richness, memory, emotion, orientation, reasoning, attention,
	global_score, unique_words, total_words, avg_word_length, pauses, repetitions,
	observations, alert_tags, is_baseline_member, analyzed_at`

// InsertAnalysis persists an immutable metric vector.
func (s *CognitionStore) InsertAnalysis(ctx context.Context, q store.Querier, v *cognitive.MetricVector) error {
	tags, err := json.Marshal(nonNilStrings(v.AlertTags))
	if err != nil {
		return fmt.Errorf("marshal alert tags: %w", err)
	}
	sc, lx := v.Scores, v.Lexical
	_, err = q.ExecContext(ctx, `
		INSERT INTO cognition_analyses (`+analysisColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.PatientID, v.SessionID,
		sc.Coherence, sc.Clarity, sc.LexicalRichness, sc.Memory,
		sc.Emotion, sc.Orientation, sc.Reasoning, sc.Attention,
		v.GlobalScore, lx.UniqueWords, lx.TotalWords, lx.AvgWordLength, lx.Pauses, lx.Repetitions,
		v.Observations, string(tags), boolInt(v.IsBaselineMember), v.AnalyzedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// CountAnalyses returns the number of stored analyses for a patient.
func (s *CognitionStore) CountAnalyses(ctx context.Context, q store.Querier, patientID string) (int, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cognition_analyses WHERE patient_id = ?`, patientID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count analyses: %w", err)
	}
	return n, nil
}

// EarliestAnalyses returns up to n analyses ordered by analyzed_at ascending,
// ties broken by insertion order.
func (s *CognitionStore) EarliestAnalyses(ctx context.Context, q store.Querier, patientID string, n int) ([]cognitive.MetricVector, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+analysisColumns+` FROM cognition_analyses
		WHERE patient_id = ? ORDER BY analyzed_at ASC, seq ASC LIMIT ?`,
		patientID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("earliest analyses: %w", err)
	}
	return scanAnalyses(rows)
}

// BaselineMembers returns the analyses flagged as forming the patient's
// baseline, in the order they were selected.
func (s *CognitionStore) BaselineMembers(ctx context.Context, q store.Querier, patientID string) ([]cognitive.MetricVector, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+analysisColumns+` FROM cognition_analyses
		WHERE patient_id = ? AND is_baseline_member = 1
		ORDER BY analyzed_at ASC, seq ASC`,
		patientID,
	)
	if err != nil {
		return nil, fmt.Errorf("baseline members: %w", err)
	}
	return scanAnalyses(rows)
}

// MarkBaselineMembers flags the given analyses as baseline members.
func (s *CognitionStore) MarkBaselineMembers(ctx context.Context, q store.Querier, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := q.ExecContext(ctx,
		`UPDATE cognition_analyses SET is_baseline_member = 1 WHERE id IN (`+placeholders(len(ids))+`)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("mark baseline members: %w", err)
	}
	return nil
}

// ListAnalyses returns a patient's analyses in the closed range [from, to]
// ordered by analyzed_at ascending. Nil bounds are open. limit <= 0 means
// no limit.
func (s *CognitionStore) ListAnalyses(ctx context.Context, patientID string, from, to *time.Time, limit int) ([]cognitive.MetricVector, error) {
	query := `SELECT ` + analysisColumns + ` FROM cognition_analyses WHERE patient_id = ?`
	args := []any{patientID}
	if from != nil {
		query += ` AND analyzed_at >= ?`
		args = append(args, from.UTC())
	}
	if to != nil {
		query += ` AND analyzed_at <= ?`
		args = append(args, to.UTC())
	}
	query += ` ORDER BY analyzed_at ASC, seq ASC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	return scanAnalyses(rows)
}

// GetAnalysis returns a single analysis by ID.
func (s *CognitionStore) GetAnalysis(ctx context.Context, id string) (*cognitive.MetricVector, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+analysisColumns+` FROM cognition_analyses WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	vs, err := scanAnalyses(rows)
	if err != nil {
		return nil, err
	}
	if len(vs) == 0 {
		return nil, fmt.Errorf("analysis %s: %w", id, cognitive.ErrNotFound)
	}
	return &vs[0], nil
}

// CountPatients returns the number of distinct patients with analyses.
func (s *CognitionStore) CountPatients(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT patient_id) FROM cognition_analyses`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return n, nil
}

func scanAnalyses(rows *sql.Rows) ([]cognitive.MetricVector, error) {
	defer rows.Close()

	var out []cognitive.MetricVector
	for rows.Next() {
		var v cognitive.MetricVector
		var tags string
		var member int
		sc, lx := &v.Scores, &v.Lexical
		if err := rows.Scan(
			&v.ID, &v.PatientID, &v.SessionID,
			&sc.Coherence, &sc.Clarity, &sc.LexicalRichness, &sc.Memory,
			&sc.Emotion, &sc.Orientation, &sc.Reasoning, &sc.Attention,
			&v.GlobalScore, &lx.UniqueWords, &lx.TotalWords, &lx.AvgWordLength, &lx.Pauses, &lx.Repetitions,
			&v.Observations, &tags, &member, &v.AnalyzedAt,
		); err != nil {
			return nil, fmt.Errorf("scan analysis row: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &v.AlertTags); err != nil {
			return nil, fmt.Errorf("unmarshal alert tags: %w", err)
		}
		v.IsBaselineMember = member != 0
		out = append(out, v)
	}
	return out, rows.Err()
}

// -- Alerts --

const alertColumns = `id, patient_id, clinician_id, analysis_id, severity, message,
	deviations, recommendations, read, read_at, read_by, created_at`

// InsertAlert persists an alert together with its deviation snapshot.
func (s *CognitionStore) InsertAlert(ctx context.Context, q store.Querier, a *cognitive.Alert) error {
	devs, err := json.Marshal(a.Deviations)
	if err != nil {
		return fmt.Errorf("marshal deviations: %w", err)
	}
	recs, err := json.Marshal(nonNilStrings(a.Recommendations))
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO cognition_alerts (`+alertColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.PatientID, a.ClinicianID, a.AnalysisID, string(a.Severity), a.Message,
		string(devs), string(recs), boolInt(a.Read), utcPtr(a.ReadAt), a.ReadBy, a.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// GetAlert returns a single alert with its action log.
func (s *CognitionStore) GetAlert(ctx context.Context, q store.Querier, id string) (*cognitive.Alert, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+alertColumns+` FROM cognition_alerts WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get alert: %w", err)
	}
	alerts, err := scanAlerts(rows)
	if err != nil {
		return nil, err
	}
	if len(alerts) == 0 {
		return nil, fmt.Errorf("alert %s: %w", id, cognitive.ErrNotFound)
	}

	a := &alerts[0]
	a.Actions, err = s.ListActions(ctx, q, id)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// MarkAlertRead sets the read flag if the alert is still unread. It reports
// whether this call performed the transition.
func (s *CognitionStore) MarkAlertRead(ctx context.Context, id, readerID string, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE cognition_alerts SET read = 1, read_at = ?, read_by = ?
		WHERE id = ? AND read = 0`,
		at.UTC(), readerID, id,
	)
	if err != nil {
		return false, fmt.Errorf("mark alert read: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark alert read: %w", err)
	}
	return n == 1, nil
}

// InsertAction appends an entry to an alert's action log.
func (s *CognitionStore) InsertAction(ctx context.Context, alertID string, act *cognitive.Action) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cognition_alert_actions (id, alert_id, actor_id, type, description, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		act.ID, alertID, act.ActorID, act.Type, act.Description, act.OccurredAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert alert action: %w", err)
	}
	return nil
}

// ListActions returns an alert's actions in the order they were recorded.
func (s *CognitionStore) ListActions(ctx context.Context, q store.Querier, alertID string) ([]cognitive.Action, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, actor_id, type, description, occurred_at
		FROM cognition_alert_actions WHERE alert_id = ? ORDER BY seq ASC`,
		alertID,
	)
	if err != nil {
		return nil, fmt.Errorf("list alert actions: %w", err)
	}
	defer rows.Close()

	actions := []cognitive.Action{}
	for rows.Next() {
		var act cognitive.Action
		if err := rows.Scan(&act.ID, &act.ActorID, &act.Type, &act.Description, &act.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan alert action row: %w", err)
		}
		actions = append(actions, act)
	}
	return actions, rows.Err()
}

// ListAlerts returns alerts matching f ordered newest first. Actions are not
// loaded.
func (s *CognitionStore) ListAlerts(ctx context.Context, f AlertFilter) ([]cognitive.Alert, error) {
	var where []string
	var args []any
	if f.ClinicianID != "" {
		where = append(where, "clinician_id = ?")
		args = append(args, f.ClinicianID)
	}
	if f.PatientID != "" {
		where = append(where, "patient_id = ?")
		args = append(args, f.PatientID)
	}
	if f.Severity != "" {
		where = append(where, "severity = ?")
		args = append(args, string(f.Severity))
	}
	if f.Read != nil {
		where = append(where, "read = ?")
		args = append(args, boolInt(*f.Read))
	}
	if f.From != nil {
		where = append(where, "created_at >= ?")
		args = append(args, f.From.UTC())
	}
	if f.To != nil {
		where = append(where, "created_at <= ?")
		args = append(args, f.To.UTC())
	}

	query := `SELECT ` + alertColumns + ` FROM cognition_alerts`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, seq DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return scanAlerts(rows)
}

func scanAlerts(rows *sql.Rows) ([]cognitive.Alert, error) {
	defer rows.Close()

	var out []cognitive.Alert
	for rows.Next() {
		var a cognitive.Alert
		var severity, devs, recs string
		var read int
		var readAt sql.NullTime
		if err := rows.Scan(
			&a.ID, &a.PatientID, &a.ClinicianID, &a.AnalysisID, &severity, &a.Message,
			&devs, &recs, &read, &readAt, &a.ReadBy, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan alert row: %w", err)
		}
		a.Severity = cognitive.Severity(severity)
		a.Read = read != 0
		if readAt.Valid {
			t := readAt.Time
			a.ReadAt = &t
		}
		if err := json.Unmarshal([]byte(devs), &a.Deviations); err != nil {
			return nil, fmt.Errorf("unmarshal deviations: %w", err)
		}
		if err := json.Unmarshal([]byte(recs), &a.Recommendations); err != nil {
			return nil, fmt.Errorf("unmarshal recommendations: %w", err)
		}
		a.Actions = []cognitive.Action{}
		out = append(out, a)
	}
	return out, rows.Err()
}

// -- Thresholds --

// GetThresholds returns the stored configuration for a clinician. The bool
// is false when none has been saved.
func (s *CognitionStore) GetThresholds(ctx context.Context, q store.Querier, clinicianID string) (cognitive.ThresholdConfig, bool, error) {
	cfg := cognitive.ThresholdConfig{ClinicianID: clinicianID}
	var bands string
	err := q.QueryRowContext(ctx, `
		SELECT minimum_deviation, bands, updated_at
		FROM cognition_thresholds WHERE clinician_id = ?`,
		clinicianID,
	).Scan(&cfg.MinimumDeviation, &bands, &cfg.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return cognitive.ThresholdConfig{}, false, nil
	}
	if err != nil {
		return cognitive.ThresholdConfig{}, false, fmt.Errorf("get thresholds: %w", err)
	}
	if err := json.Unmarshal([]byte(bands), &cfg.Bands); err != nil {
		return cognitive.ThresholdConfig{}, false, fmt.Errorf("unmarshal bands: %w", err)
	}
	return cfg, true, nil
}

// UpsertThresholds inserts or replaces a clinician's configuration.
func (s *CognitionStore) UpsertThresholds(ctx context.Context, cfg *cognitive.ThresholdConfig) error {
	bands, err := json.Marshal(cfg.Bands)
	if err != nil {
		return fmt.Errorf("marshal bands: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cognition_thresholds (clinician_id, minimum_deviation, bands, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(clinician_id) DO UPDATE SET
			minimum_deviation = excluded.minimum_deviation,
			bands = excluded.bands,
			updated_at = excluded.updated_at`,
		cfg.ClinicianID, cfg.MinimumDeviation, string(bands), cfg.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert thresholds: %w", err)
	}
	return nil
}

// -- Care assignments --

// Assign links a clinician to a patient. A primary assignment demotes any
// other primary clinician of the patient.
func (s *CognitionStore) Assign(ctx context.Context, q store.Querier, clinicianID, patientID string, primary bool, at time.Time) error {
	if primary {
		if _, err := q.ExecContext(ctx,
			`UPDATE care_assignments SET is_primary = 0 WHERE patient_id = ? AND clinician_id != ?`,
			patientID, clinicianID,
		); err != nil {
			return fmt.Errorf("demote primary clinician: %w", err)
		}
	}
	_, err := q.ExecContext(ctx, `
		INSERT INTO care_assignments (clinician_id, patient_id, is_primary, assigned_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(clinician_id, patient_id) DO UPDATE SET is_primary = excluded.is_primary`,
		clinicianID, patientID, boolInt(primary), at.UTC(),
	)
	if err != nil {
		return fmt.Errorf("assign clinician: %w", err)
	}
	return nil
}

// IsAssigned reports whether the clinician is on the patient's care team.
func (s *CognitionStore) IsAssigned(ctx context.Context, q store.Querier, clinicianID, patientID string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM care_assignments WHERE clinician_id = ? AND patient_id = ?`,
		clinicianID, patientID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check assignment: %w", err)
	}
	return n > 0, nil
}

// PrimaryClinician returns the patient's primary clinician, or "" if none.
func (s *CognitionStore) PrimaryClinician(ctx context.Context, q store.Querier, patientID string) (string, error) {
	var id string
	err := q.QueryRowContext(ctx,
		`SELECT clinician_id FROM care_assignments WHERE patient_id = ? AND is_primary = 1 LIMIT 1`,
		patientID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("primary clinician: %w", err)
	}
	return id, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func utcPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
