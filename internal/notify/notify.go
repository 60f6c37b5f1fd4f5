// Package notify delivers cognition alerts to an external caregiver
// notification endpoint as signed webhooks.
package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/cognition"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/version"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/plugin"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/roles"
	"go.uber.org/zap"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin          = (*Module)(nil)
	_ plugin.EventSubscriber = (*Module)(nil)
	_ plugin.HealthChecker   = (*Module)(nil)
	_ plugin.Validator       = (*Module)(nil)
	_ roles.Notifier         = (*Module)(nil)
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body.
const SignatureHeader = "X-Signature"

// Config holds the notify plugin configuration.
type Config struct {
	Enabled     bool               `mapstructure:"enabled"`
	URL         string             `mapstructure:"url"`
	Secret      string             `mapstructure:"secret"`
	Timeout     time.Duration      `mapstructure:"timeout"`
	MinSeverity cognitive.Severity `mapstructure:"min_severity"`
}

// DefaultConfig returns the defaults for the notify plugin.
func DefaultConfig() Config {
	return Config{
		Timeout:     10 * time.Second,
		MinSeverity: cognitive.SeverityBaja,
	}
}

// Payload is the JSON body POSTed to the endpoint.
type Payload struct {
	Event           string             `json:"event"`
	Source          string             `json:"source"`
	Timestamp       time.Time          `json:"timestamp"`
	PatientID       string             `json:"patient_id,omitempty"`
	Severity        cognitive.Severity `json:"severity,omitempty"`
	Summary         string             `json:"summary"`
	Recommendations []string           `json:"recommendations,omitempty"`
	Meta            map[string]string  `json:"meta,omitempty"`
}

// Module implements the notify plugin.
type Module struct {
	logger *zap.Logger
	cfg    Config
	client *http.Client

	delivered atomic.Int64
	failed    atomic.Int64
}

// New creates a new notify plugin instance.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:         "notify",
		Version:      "0.1.0",
		Description:  "Signed webhook delivery of cognition alerts",
		Roles:        []string{roles.RoleNotification},
		Dependencies: []string{"cognition"},
		APIVersion:   plugin.APIVersionCurrent,
	}
}

func (m *Module) Init(_ context.Context, deps plugin.Dependencies) error {
	m.logger = deps.Logger

	m.cfg = DefaultConfig()
	if deps.Config != nil {
		if err := deps.Config.Unmarshal(&m.cfg); err != nil {
			return fmt.Errorf("unmarshal notify config: %w", err)
		}
	}
	m.client = &http.Client{Timeout: m.cfg.Timeout}

	if m.cfg.Enabled && m.cfg.URL == "" {
		m.logger.Warn("notify enabled without a URL; notifications will be dropped")
	}
	m.logger.Info("notify module initialized",
		zap.Bool("enabled", m.cfg.Enabled),
		zap.String("url", m.cfg.URL),
		zap.Bool("signed", m.cfg.Secret != ""),
		zap.String("min_severity", string(m.cfg.MinSeverity)),
	)
	return nil
}

func (m *Module) Start(_ context.Context) error {
	m.logger.Info("notify module started")
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("notify module stopped")
	return nil
}

// ValidateConfig implements plugin.Validator.
func (m *Module) ValidateConfig() error {
	if m.cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", m.cfg.Timeout)
	}
	if !m.cfg.MinSeverity.Valid() {
		return fmt.Errorf("unknown min_severity %q", m.cfg.MinSeverity)
	}
	return nil
}

// Health implements plugin.HealthChecker.
func (m *Module) Health(_ context.Context) plugin.HealthStatus {
	status := "healthy"
	if m.cfg.Enabled && m.cfg.URL == "" {
		status = "degraded"
	}
	return plugin.HealthStatus{
		Status: status,
		Details: map[string]string{
			"enabled":   fmt.Sprint(m.cfg.Enabled),
			"delivered": fmt.Sprint(m.delivered.Load()),
			"failed":    fmt.Sprint(m.failed.Load()),
		},
	}
}

// Subscriptions implements plugin.EventSubscriber.
func (m *Module) Subscriptions() []plugin.Subscription {
	return []plugin.Subscription{
		{Topic: cognition.TopicAlertCreated, Handler: m.handleAlertCreated},
	}
}

func (m *Module) handleAlertCreated(ctx context.Context, event plugin.Event) {
	if !m.cfg.Enabled || m.cfg.URL == "" {
		return
	}
	ev, ok := event.Payload.(cognition.AlertEvent)
	if !ok {
		m.logger.Debug("ignored alert event: unexpected payload type",
			zap.String("source", event.Source))
		return
	}
	a := ev.Alert
	if a.Severity.Rank() < m.cfg.MinSeverity.Rank() {
		return
	}

	n := roles.Notification{
		Topic:           event.Topic,
		PatientID:       a.PatientID,
		Severity:        a.Severity,
		Summary:         a.Message,
		Recommendations: a.Recommendations,
		Meta: map[string]string{
			"alert_id":     a.ID,
			"clinician_id": a.ClinicianID,
			"analysis_id":  a.AnalysisID,
		},
	}
	if err := m.Notify(ctx, n); err != nil {
		m.logger.Warn("alert notification failed",
			zap.String("alert_id", a.ID),
			zap.String("severity", string(a.Severity)),
			zap.Error(err),
		)
		return
	}
	m.logger.Debug("alert notification delivered", zap.String("alert_id", a.ID))
}

// Notify implements roles.Notifier.
func (m *Module) Notify(ctx context.Context, n roles.Notification) error {
	if m.cfg.URL == "" {
		return fmt.Errorf("notify URL not configured")
	}
	body, err := json.Marshal(Payload{
		Event:           n.Topic,
		Source:          "alzheon",
		Timestamp:       time.Now().UTC(),
		PatientID:       n.PatientID,
		Severity:        n.Severity,
		Summary:         n.Summary,
		Recommendations: n.Recommendations,
		Meta:            n.Meta,
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	if err := m.send(ctx, body); err != nil {
		m.failed.Add(1)
		return err
	}
	m.delivered.Add(1)
	return nil
}

func (m *Module) send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Alzheon-Notify/"+version.Short())
	if m.cfg.Secret != "" {
		req.Header.Set(SignatureHeader, Sign([]byte(m.cfg.Secret), body))
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("notification POST %s: %w", m.cfg.URL, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain body for connection reuse

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification POST %s: status %d", m.cfg.URL, resp.StatusCode)
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of body under secret. Receivers verify
// SignatureHeader with hmac.Equal against the same computation.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
