package cognition

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/store"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/plugin"
	"go.uber.org/zap"
)

// maxLimit caps list queries.
const maxLimit = 1000

// NewAlert carries the inputs for creating an alert.
type NewAlert struct {
	PatientID   string
	ClinicianID string
	AnalysisID  string
	Severity    cognitive.Severity
	Deviations  []cognitive.Deviation
}

// AlertFilter narrows an alert history query. ClinicianID empty means all
// clinicians; nil pointers leave that dimension unfiltered.
type AlertFilter struct {
	ClinicianID string
	PatientID   string
	Severity    cognitive.Severity
	Read        *bool
	From        *time.Time
	To          *time.Time
	Limit       int
}

// AlertManager owns the alert lifecycle: creation, read marking and the
// append-only action log.
type AlertManager struct {
	store  *CognitionStore
	bus    plugin.EventBus
	logger *zap.Logger
	now    func() time.Time
}

// NewAlertManager creates an AlertManager. bus may be nil.
func NewAlertManager(s *CognitionStore, bus plugin.EventBus, logger *zap.Logger) *AlertManager {
	return &AlertManager{
		store:  s,
		bus:    bus,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create persists a new unread alert and publishes TopicAlertCreated.
func (am *AlertManager) Create(ctx context.Context, in NewAlert) (*cognitive.Alert, error) {
	a, err := am.create(ctx, am.store.DB(), in)
	if err != nil {
		return nil, err
	}
	am.published(ctx, a)
	return a, nil
}

// create validates and inserts an alert on q without publishing, so the
// ingestion pipeline can run it inside its transaction.
func (am *AlertManager) create(ctx context.Context, q store.Querier, in NewAlert) (*cognitive.Alert, error) {
	if !in.Severity.Valid() {
		return nil, fmt.Errorf("%w: severity %q", cognitive.ErrValidation, in.Severity)
	}
	if in.PatientID == "" || in.ClinicianID == "" || in.AnalysisID == "" {
		return nil, fmt.Errorf("%w: patient, clinician and analysis are required", cognitive.ErrValidation)
	}

	ok, err := am.store.IsAssigned(ctx, q, in.ClinicianID, in.PatientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("clinician %s, patient %s: %w", in.ClinicianID, in.PatientID, cognitive.ErrOwnership)
	}

	devs := in.Deviations
	if devs == nil {
		devs = []cognitive.Deviation{}
	}
	a := &cognitive.Alert{
		ID:              uuid.New().String(),
		PatientID:       in.PatientID,
		ClinicianID:     in.ClinicianID,
		AnalysisID:      in.AnalysisID,
		Severity:        in.Severity,
		Message:         composeMessage(in.Severity, devs),
		Deviations:      devs,
		Recommendations: recommendationsFor(in.Severity, devs),
		Actions:         []cognitive.Action{},
		CreatedAt:       am.now(),
	}
	if err := am.store.InsertAlert(ctx, q, a); err != nil {
		return nil, err
	}
	return a, nil
}

// published records metrics and emits TopicAlertCreated for a committed alert.
func (am *AlertManager) published(ctx context.Context, a *cognitive.Alert) {
	alertsCreated.WithLabelValues(string(a.Severity)).Inc()
	am.logger.Info("alert created",
		zap.String("alert_id", a.ID),
		zap.String("patient_id", a.PatientID),
		zap.String("clinician_id", a.ClinicianID),
		zap.String("severity", string(a.Severity)),
		zap.Int("deviations", len(a.Deviations)),
	)
	am.publish(ctx, TopicAlertCreated, AlertEvent{Alert: *a})
}

// Get returns an alert with its actions if actorID may see it.
func (am *AlertManager) Get(ctx context.Context, alertID, actorID string) (*cognitive.Alert, error) {
	a, err := am.store.GetAlert(ctx, am.store.DB(), alertID)
	if err != nil {
		return nil, err
	}
	if err := am.authorize(ctx, a, actorID); err != nil {
		return nil, err
	}
	return a, nil
}

// MarkRead marks an alert read. Repeated calls are no-ops: the first
// reader's identity and timestamp are kept.
func (am *AlertManager) MarkRead(ctx context.Context, alertID, readerID string) (*cognitive.Alert, error) {
	a, err := am.Get(ctx, alertID, readerID)
	if err != nil {
		return nil, err
	}
	if a.Read {
		return a, nil
	}

	changed, err := am.store.MarkAlertRead(ctx, alertID, readerID, am.now())
	if err != nil {
		return nil, err
	}
	a, err = am.store.GetAlert(ctx, am.store.DB(), alertID)
	if err != nil {
		return nil, err
	}
	if changed {
		am.logger.Info("alert read",
			zap.String("alert_id", alertID),
			zap.String("clinician_id", readerID),
		)
		am.publish(ctx, TopicAlertRead, AlertEvent{Alert: *a, ActorID: readerID})
	}
	return a, nil
}

// RecordAction appends an entry to the alert's action log. Actions may be
// recorded on read and unread alerts alike.
func (am *AlertManager) RecordAction(ctx context.Context, alertID, actorID, actionType, description string) (*cognitive.Alert, error) {
	actionType = strings.TrimSpace(actionType)
	if actionType == "" {
		return nil, fmt.Errorf("%w: action type is required", cognitive.ErrValidation)
	}
	if _, err := am.Get(ctx, alertID, actorID); err != nil {
		return nil, err
	}

	act := &cognitive.Action{
		ID:          uuid.New().String(),
		ActorID:     actorID,
		Type:        actionType,
		Description: description,
		OccurredAt:  am.now(),
	}
	if err := am.store.InsertAction(ctx, alertID, act); err != nil {
		return nil, err
	}

	a, err := am.store.GetAlert(ctx, am.store.DB(), alertID)
	if err != nil {
		return nil, err
	}
	am.logger.Info("alert action recorded",
		zap.String("alert_id", alertID),
		zap.String("clinician_id", actorID),
		zap.String("action", actionType),
	)
	am.publish(ctx, TopicAlertAction, AlertEvent{Alert: *a, ActorID: actorID})
	return a, nil
}

// ListUnread returns a clinician's unread alerts, newest first.
func (am *AlertManager) ListUnread(ctx context.Context, clinicianID string) ([]cognitive.Alert, error) {
	unread := false
	return am.ListHistory(ctx, AlertFilter{ClinicianID: clinicianID, Read: &unread})
}

// ListHistory returns alerts matching f, newest first.
func (am *AlertManager) ListHistory(ctx context.Context, f AlertFilter) ([]cognitive.Alert, error) {
	if f.Severity != "" && !f.Severity.Valid() {
		return nil, fmt.Errorf("%w: severity %q", cognitive.ErrValidation, f.Severity)
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, fmt.Errorf("%w: from is after to", cognitive.ErrValidation)
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	alerts, err := am.store.ListAlerts(ctx, f)
	if err != nil {
		return nil, err
	}
	if alerts == nil {
		alerts = []cognitive.Alert{}
	}
	return alerts, nil
}

// authorize allows the alert's clinician and any member of the patient's
// care team.
func (am *AlertManager) authorize(ctx context.Context, a *cognitive.Alert, actorID string) error {
	if actorID == "" {
		return fmt.Errorf("alert %s: %w", a.ID, cognitive.ErrOwnership)
	}
	if a.ClinicianID == actorID {
		return nil
	}
	ok, err := am.store.IsAssigned(ctx, am.store.DB(), actorID, a.PatientID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("alert %s: %w", a.ID, cognitive.ErrOwnership)
	}
	return nil
}

func (am *AlertManager) publish(ctx context.Context, topic string, payload AlertEvent) {
	if am.bus == nil {
		return
	}
	// Subscribers outlive the request that triggered the event.
	am.bus.PublishAsync(context.WithoutCancel(ctx), plugin.Event{
		Topic:   topic,
		Source:  "cognition",
		Payload: payload,
	})
}
