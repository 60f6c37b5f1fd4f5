package cognition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/auth"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/cognition/baseline"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/plugin"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Routes implements plugin.HTTPProvider.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "POST", Path: "/analyses", Handler: m.handleIngest},
		{Method: "GET", Path: "/patients/{patient_id}/baseline", Handler: m.handleBaseline},
		{Method: "GET", Path: "/patients/{patient_id}/analyses", Handler: m.handleListAnalyses},
		{Method: "GET", Path: "/patients/{patient_id}/aggregate", Handler: m.handleAggregate},
		{Method: "GET", Path: "/patients/{patient_id}/report", Handler: m.handleReport},
		{Method: "GET", Path: "/alerts/unread", Handler: m.handleUnreadAlerts},
		{Method: "GET", Path: "/alerts", Handler: m.handleAlertHistory},
		{Method: "GET", Path: "/alerts/{alert_id}", Handler: m.handleGetAlert},
		{Method: "POST", Path: "/alerts/{alert_id}/read", Handler: m.handleMarkRead},
		{Method: "POST", Path: "/alerts/{alert_id}/actions", Handler: m.handleRecordAction},
		{Method: "GET", Path: "/thresholds", Handler: m.handleGetThresholds},
		{Method: "PUT", Path: "/thresholds", Handler: m.handlePutThresholds},
		{Method: "POST", Path: "/assignments", Handler: auth.RequireRole(m.handleAssign, auth.RoleAdmin)},
	}
}

// ActionRequest is the body of POST /alerts/{alert_id}/actions.
type ActionRequest struct {
	Type        string `json:"type" example:"called_caregiver"`
	Description string `json:"description" example:"Spoke with daughter, follow-up booked"`
}

// AssignmentRequest is the body of POST /assignments.
type AssignmentRequest struct {
	ClinicianID string `json:"clinician_id"`
	PatientID   string `json:"patient_id"`
	Primary     bool   `json:"primary"`
}

// handleIngest ingests one scored analysis.
//
//	@Summary		Ingest analysis
//	@Description	Clamps and stores a scored analysis, updates the baseline and raises an alert on significant deterioration.
//	@Tags			cognition
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			report body ScoreReport true "Scoring provider output"
//	@Success		201 {object} IngestResult
//	@Failure		400 {object} map[string]any
//	@Failure		403 {object} map[string]any
//	@Failure		500 {object} map[string]any
//	@Router			/cognition/analyses [post]
func (m *Module) handleIngest(w http.ResponseWriter, r *http.Request) {
	var report ScoreReport
	if !decodeBody(w, r, &report) {
		return
	}
	if !m.requirePatient(w, r, report.PatientID) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), m.cfg.IngestTimeout)
	defer cancel()
	res, err := m.Ingest(ctx, report)
	if err != nil {
		m.writeDomainError(w, err, "failed to ingest analysis")
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// handleBaseline returns a patient's baseline.
//
//	@Summary		Patient baseline
//	@Description	Returns the frozen baseline formed by the patient's first three analyses.
//	@Tags			cognition
//	@Produce		json
//	@Security		BearerAuth
//	@Param			patient_id path string true "Patient ID"
//	@Success		200 {object} BaselineView
//	@Failure		403 {object} map[string]any
//	@Router			/cognition/patients/{patient_id}/baseline [get]
func (m *Module) handleBaseline(w http.ResponseWriter, r *http.Request) {
	patientID := r.PathValue("patient_id")
	if !m.requirePatient(w, r, patientID) {
		return
	}
	b, ok, err := m.Baseline(r.Context(), patientID)
	if err != nil {
		m.writeDomainError(w, err, "failed to load baseline")
		return
	}
	view := BaselineView{PatientID: patientID, Established: ok}
	if ok {
		view.Baseline = &b
	} else {
		view.Message = fmt.Sprintf("at least %d analyses are needed", baseline.Size)
	}
	writeJSON(w, http.StatusOK, view)
}

// handleListAnalyses returns a patient's analyses.
//
//	@Summary		Patient analyses
//	@Description	Returns the patient's analyses in [from, to], oldest first.
//	@Tags			cognition
//	@Produce		json
//	@Security		BearerAuth
//	@Param			patient_id path string true "Patient ID"
//	@Param			from query string false "RFC 3339 lower bound"
//	@Param			to query string false "RFC 3339 upper bound"
//	@Param			limit query int false "Maximum results" default(100)
//	@Success		200 {array} cognitive.MetricVector
//	@Failure		400 {object} map[string]any
//	@Router			/cognition/patients/{patient_id}/analyses [get]
func (m *Module) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	patientID := r.PathValue("patient_id")
	if !m.requirePatient(w, r, patientID) {
		return
	}
	from, to, ok := parseRange(w, r)
	if !ok {
		return
	}
	vs, err := m.Analyses(r.Context(), patientID, from, to, parseLimit(r, m.cfg.HistoryLimit))
	if err != nil {
		m.writeDomainError(w, err, "failed to list analyses")
		return
	}
	writeJSON(w, http.StatusOK, vs)
}

// handleAggregate averages a patient's analyses over a period.
//
//	@Summary		Period aggregate
//	@Description	Returns the unweighted mean of the patient's analyses in [from, to].
//	@Tags			cognition
//	@Produce		json
//	@Security		BearerAuth
//	@Param			patient_id path string true "Patient ID"
//	@Param			from query string false "RFC 3339 lower bound"
//	@Param			to query string false "RFC 3339 upper bound"
//	@Success		200 {object} cognitive.MetricVector
//	@Failure		404 {object} map[string]any
//	@Router			/cognition/patients/{patient_id}/aggregate [get]
func (m *Module) handleAggregate(w http.ResponseWriter, r *http.Request) {
	patientID := r.PathValue("patient_id")
	if !m.requirePatient(w, r, patientID) {
		return
	}
	from, to, ok := parseRange(w, r)
	if !ok {
		return
	}
	agg, ok, err := m.Aggregate(r.Context(), patientID, from, to)
	if err != nil {
		m.writeDomainError(w, err, "failed to aggregate analyses")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no analyses in the requested period")
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

// handleReport returns the report bundle for a patient.
//
//	@Summary		Patient report
//	@Description	Returns baseline, period aggregate, analyses and alerts for a patient.
//	@Tags			cognition
//	@Produce		json
//	@Security		BearerAuth
//	@Param			patient_id path string true "Patient ID"
//	@Param			from query string false "RFC 3339 lower bound"
//	@Param			to query string false "RFC 3339 upper bound"
//	@Success		200 {object} ReportBundle
//	@Router			/cognition/patients/{patient_id}/report [get]
func (m *Module) handleReport(w http.ResponseWriter, r *http.Request) {
	patientID := r.PathValue("patient_id")
	if !m.requirePatient(w, r, patientID) {
		return
	}
	from, to, ok := parseRange(w, r)
	if !ok {
		return
	}
	bundle, err := m.Report(r.Context(), patientID, from, to)
	if err != nil {
		m.writeDomainError(w, err, "failed to build report")
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

// handleUnreadAlerts returns the caller's unread alerts.
//
//	@Summary		Unread alerts
//	@Tags			cognition
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200 {array} cognitive.Alert
//	@Router			/cognition/alerts/unread [get]
func (m *Module) handleUnreadAlerts(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok || !m.requireStore(w) {
		return
	}
	alerts, err := m.alerts.ListUnread(r.Context(), user.UserID)
	if err != nil {
		m.writeDomainError(w, err, "failed to list alerts")
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

// handleAlertHistory returns the caller's alert history.
//
//	@Summary		Alert history
//	@Description	Returns alerts newest first. Admins may pass clinician_id to query another clinician.
//	@Tags			cognition
//	@Produce		json
//	@Security		BearerAuth
//	@Param			patient_id query string false "Patient ID"
//	@Param			severity query string false "baja, media, alta or critica"
//	@Param			read query bool false "Read state"
//	@Param			from query string false "RFC 3339 lower bound"
//	@Param			to query string false "RFC 3339 upper bound"
//	@Param			limit query int false "Maximum results" default(100)
//	@Success		200 {array} cognitive.Alert
//	@Failure		400 {object} map[string]any
//	@Router			/cognition/alerts [get]
func (m *Module) handleAlertHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok || !m.requireStore(w) {
		return
	}
	from, to, ok := parseRange(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	f := AlertFilter{
		ClinicianID: user.UserID,
		PatientID:   q.Get("patient_id"),
		Severity:    cognitive.Severity(q.Get("severity")),
		From:        from,
		To:          to,
		Limit:       parseLimit(r, m.cfg.HistoryLimit),
	}
	if user.IsAdmin() {
		f.ClinicianID = q.Get("clinician_id")
	}
	if s := q.Get("read"); s != "" {
		read, err := strconv.ParseBool(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "read must be true or false")
			return
		}
		f.Read = &read
	}

	alerts, err := m.alerts.ListHistory(r.Context(), f)
	if err != nil {
		m.writeDomainError(w, err, "failed to list alerts")
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

// handleGetAlert returns one alert with its actions.
//
//	@Summary		Get alert
//	@Tags			cognition
//	@Produce		json
//	@Security		BearerAuth
//	@Param			alert_id path string true "Alert ID"
//	@Success		200 {object} cognitive.Alert
//	@Failure		403 {object} map[string]any
//	@Failure		404 {object} map[string]any
//	@Router			/cognition/alerts/{alert_id} [get]
func (m *Module) handleGetAlert(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok || !m.requireStore(w) {
		return
	}
	a, err := m.alerts.Get(r.Context(), r.PathValue("alert_id"), user.UserID)
	if err != nil {
		m.writeDomainError(w, err, "failed to load alert")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// handleMarkRead marks an alert read.
//
//	@Summary		Mark alert read
//	@Description	Idempotent. The first reader and timestamp are kept.
//	@Tags			cognition
//	@Produce		json
//	@Security		BearerAuth
//	@Param			alert_id path string true "Alert ID"
//	@Success		200 {object} cognitive.Alert
//	@Failure		403 {object} map[string]any
//	@Failure		404 {object} map[string]any
//	@Router			/cognition/alerts/{alert_id}/read [post]
func (m *Module) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok || !m.requireStore(w) {
		return
	}
	a, err := m.alerts.MarkRead(r.Context(), r.PathValue("alert_id"), user.UserID)
	if err != nil {
		m.writeDomainError(w, err, "failed to mark alert read")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// handleRecordAction appends to an alert's action log.
//
//	@Summary		Record alert action
//	@Tags			cognition
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			alert_id path string true "Alert ID"
//	@Param			action body ActionRequest true "Action taken"
//	@Success		201 {object} cognitive.Alert
//	@Failure		400 {object} map[string]any
//	@Failure		403 {object} map[string]any
//	@Failure		404 {object} map[string]any
//	@Router			/cognition/alerts/{alert_id}/actions [post]
func (m *Module) handleRecordAction(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok || !m.requireStore(w) {
		return
	}
	var req ActionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, err := m.alerts.RecordAction(r.Context(), r.PathValue("alert_id"), user.UserID, req.Type, req.Description)
	if err != nil {
		m.writeDomainError(w, err, "failed to record action")
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// handleGetThresholds returns the caller's threshold configuration.
//
//	@Summary		Get thresholds
//	@Description	Returns the stored configuration or the defaults. Admins may pass clinician_id.
//	@Tags			cognition
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200 {object} cognitive.ThresholdConfig
//	@Router			/cognition/thresholds [get]
func (m *Module) handleGetThresholds(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok || !m.requireStore(w) {
		return
	}
	cfg, err := m.thresholds.Get(r.Context(), thresholdOwner(r, user))
	if err != nil {
		m.writeDomainError(w, err, "failed to load thresholds")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// handlePutThresholds replaces the caller's threshold configuration.
//
//	@Summary		Update thresholds
//	@Tags			cognition
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			thresholds body cognitive.ThresholdConfig true "Threshold configuration"
//	@Success		200 {object} cognitive.ThresholdConfig
//	@Failure		400 {object} map[string]any
//	@Router			/cognition/thresholds [put]
func (m *Module) handlePutThresholds(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok || !m.requireStore(w) {
		return
	}
	var cfg cognitive.ThresholdConfig
	if !decodeBody(w, r, &cfg) {
		return
	}
	cfg.ClinicianID = thresholdOwner(r, user)
	saved, err := m.thresholds.Update(r.Context(), cfg)
	if err != nil {
		m.writeDomainError(w, err, "failed to save thresholds")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// handleAssign adds a clinician to a patient's care team.
//
//	@Summary		Assign patient
//	@Description	Admin only. A primary assignment routes the patient's alerts to the clinician.
//	@Tags			cognition
//	@Accept			json
//	@Security		BearerAuth
//	@Param			assignment body AssignmentRequest true "Assignment"
//	@Success		204
//	@Failure		400 {object} map[string]any
//	@Failure		403 {object} map[string]any
//	@Router			/cognition/assignments [post]
func (m *Module) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req AssignmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := m.Assign(r.Context(), req.ClinicianID, req.PatientID, req.Primary); err != nil {
		m.writeDomainError(w, err, "failed to save assignment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// -- helpers --

// requirePatient writes 401/403 unless the caller is an admin or on the
// patient's care team.
func (m *Module) requirePatient(w http.ResponseWriter, r *http.Request, patientID string) bool {
	user, ok := requireUser(w, r)
	if !ok || !m.requireStore(w) {
		return false
	}
	if patientID == "" {
		writeError(w, http.StatusBadRequest, "patient_id is required")
		return false
	}
	if user.IsAdmin() {
		return true
	}
	if err := m.AuthorizePatient(r.Context(), user.UserID, patientID); err != nil {
		m.writeDomainError(w, err, "failed to check patient access")
		return false
	}
	return true
}

func (m *Module) requireStore(w http.ResponseWriter) bool {
	if m.store == nil {
		writeError(w, http.StatusServiceUnavailable, errNoStore.Error())
		return false
	}
	return true
}

func requireUser(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	user := auth.UserFromContext(r.Context())
	if user == nil || user.UserID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return user, true
}

func thresholdOwner(r *http.Request, user *auth.Claims) string {
	if id := r.URL.Query().Get("clinician_id"); id != "" && user.IsAdmin() {
		return id
	}
	return user.UserID
}

// writeDomainError maps the cognitive error taxonomy onto HTTP statuses.
func (m *Module) writeDomainError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, cognitive.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, cognitive.ErrOwnership):
		writeError(w, http.StatusForbidden, "not authorized for this patient")
	case errors.Is(err, cognitive.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "operation timed out")
	default:
		m.logger.Error(fallback, zap.Error(err))
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func parseRange(w http.ResponseWriter, r *http.Request) (from, to *time.Time, ok bool) {
	for _, p := range []struct {
		key string
		dst **time.Time
	}{{"from", &from}, {"to", &to}} {
		s := r.URL.Query().Get(p.key)
		if s == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			writeError(w, http.StatusBadRequest, p.key+" must be an RFC 3339 timestamp")
			return nil, nil, false
		}
		*p.dst = &t
	}
	return from, to, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://alzheon.app/problems/" + http.StatusText(status),
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}

func parseLimit(r *http.Request, defaultLimit int) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= maxLimit {
			return n
		}
	}
	return defaultLimit
}
