package notify

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/cognition"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/config"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/cognitive"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/plugin"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/plugin/plugintest"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/roles"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func TestContract(t *testing.T) {
	plugintest.TestPluginContract(t, func() plugin.Plugin { return New() })
}

type received struct {
	mu      sync.Mutex
	bodies  [][]byte
	headers []http.Header
}

func newEndpoint(t *testing.T, status int) (*httptest.Server, *received) {
	t.Helper()
	rec := &received{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.bodies = append(rec.bodies, body)
		rec.headers = append(rec.headers, r.Header.Clone())
		rec.mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newModule(t *testing.T, settings map[string]any) *Module {
	t.Helper()
	v := viper.New()
	for k, val := range settings {
		v.Set(k, val)
	}
	m := New()
	if err := m.Init(context.Background(), plugin.Dependencies{
		Logger: zap.NewNop(),
		Config: config.New(v),
	}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return m
}

func alertEvent(sev cognitive.Severity) plugin.Event {
	return plugin.Event{
		Topic:  cognition.TopicAlertCreated,
		Source: "cognition",
		Payload: cognition.AlertEvent{Alert: cognitive.Alert{
			ID:          "alert-1",
			PatientID:   "p1",
			ClinicianID: "doc-1",
			Severity:    sev,
			Message:     "media cognitive deviation: memory -33% (0.90 -> 0.60)",
		}},
	}
}

func TestSubscriptions(t *testing.T) {
	subs := New().Subscriptions()
	if len(subs) != 1 || subs[0].Topic != cognition.TopicAlertCreated {
		t.Errorf("Subscriptions() = %+v", subs)
	}
}

func TestHandleAlertCreated_SignedDelivery(t *testing.T) {
	srv, rec := newEndpoint(t, http.StatusOK)
	m := newModule(t, map[string]any{"enabled": true, "url": srv.URL, "secret": "s3cret"})

	m.handleAlertCreated(context.Background(), alertEvent(cognitive.SeverityMedia))

	if len(rec.bodies) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(rec.bodies))
	}
	body, h := rec.bodies[0], rec.headers[0]
	if h.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", h.Get("Content-Type"))
	}
	want := Sign([]byte("s3cret"), body)
	if !hmac.Equal([]byte(h.Get(SignatureHeader)), []byte(want)) {
		t.Errorf("signature = %q, want %q", h.Get(SignatureHeader), want)
	}

	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if p.Event != cognition.TopicAlertCreated || p.Meta["alert_id"] != "alert-1" || p.Severity != cognitive.SeverityMedia || p.PatientID != "p1" {
		t.Errorf("payload = %+v", p)
	}
	if m.delivered.Load() != 1 {
		t.Errorf("delivered = %d, want 1", m.delivered.Load())
	}
}

func TestHandleAlertCreated_Skips(t *testing.T) {
	srv, rec := newEndpoint(t, http.StatusOK)

	tests := []struct {
		name     string
		settings map[string]any
		event    plugin.Event
	}{
		{"disabled", map[string]any{"enabled": false, "url": srv.URL}, alertEvent(cognitive.SeverityCritica)},
		{"below min severity", map[string]any{"enabled": true, "url": srv.URL, "min_severity": "alta"}, alertEvent(cognitive.SeverityMedia)},
		{"foreign payload", map[string]any{"enabled": true, "url": srv.URL}, plugin.Event{Topic: cognition.TopicAlertCreated, Payload: "nope"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			newModule(t, tc.settings).handleAlertCreated(context.Background(), tc.event)
		})
	}
	if len(rec.bodies) != 0 {
		t.Errorf("deliveries = %d, want 0", len(rec.bodies))
	}
}

func TestNotify_ErrorStatus(t *testing.T) {
	srv, _ := newEndpoint(t, http.StatusBadGateway)
	m := newModule(t, map[string]any{"enabled": true, "url": srv.URL})

	if err := m.Notify(context.Background(), alertNotification()); err == nil {
		t.Fatal("expected error for 502 response")
	}
	if m.failed.Load() != 1 {
		t.Errorf("failed = %d, want 1", m.failed.Load())
	}
}

func alertNotification() roles.Notification {
	return roles.Notification{Topic: "test", Summary: "hello"}
}

func TestValidateConfig(t *testing.T) {
	m := newModule(t, map[string]any{"min_severity": "grave"})
	if err := m.ValidateConfig(); err == nil {
		t.Error("ValidateConfig() accepted unknown severity")
	}
	if err := newModule(t, nil).ValidateConfig(); err != nil {
		t.Errorf("ValidateConfig(defaults) error = %v", err)
	}
}
