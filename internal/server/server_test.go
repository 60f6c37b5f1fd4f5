package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/plugin"
	"go.uber.org/zap"
)

type fakeSource struct {
	plugins []plugin.Plugin
	routes  map[string][]plugin.Route
}

func (f *fakeSource) AllRoutes() map[string][]plugin.Route { return f.routes }

func (f *fakeSource) All() []plugin.Plugin { return f.plugins }

type stubModule struct {
	info   plugin.PluginInfo
	health string
}

func (s *stubModule) Info() plugin.PluginInfo {
	return s.info
}

func (s *stubModule) Init(context.Context, plugin.Dependencies) error {
	return nil
}

func (s *stubModule) Start(context.Context) error {
	return nil
}

func (s *stubModule) Stop(context.Context) error {
	return nil
}

func (s *stubModule) Health(context.Context) plugin.HealthStatus {
	return plugin.HealthStatus{Status: s.health}
}

func newTestServer(ready ReadinessChecker, health string) *Server {
	src := &fakeSource{
		plugins: []plugin.Plugin{&stubModule{
			info:   plugin.PluginInfo{Name: "cognition", Version: "0.1.0", Description: "test"},
			health: health,
		}},
		routes: map[string][]plugin.Route{
			"cognition": {{
				Method: http.MethodGet,
				Path:   "/patients/{patient_id}/baseline",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					writeJSON(w, http.StatusOK, map[string]string{"patient_id": r.PathValue("patient_id")})
				},
			}},
		},
	}
	return New(src, zap.NewNop(), Options{Addr: "127.0.0.1:0", Ready: ready})
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	return w
}

func TestHealthz(t *testing.T) {
	w := get(t, newTestServer(nil, "healthy").Handler(), "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get("X-Alzheon-Version") == "" {
		t.Error("missing version header")
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing request id header")
	}
}

func TestReadyz(t *testing.T) {
	ok := newTestServer(func(context.Context) error { return nil }, "healthy")
	if w := get(t, ok.Handler(), "/readyz"); w.Code != http.StatusOK {
		t.Errorf("ready status = %d, want 200", w.Code)
	}

	down := newTestServer(func(context.Context) error { return errors.New("db closed") }, "healthy")
	w := get(t, down.Handler(), "/readyz")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("not-ready status = %d, want 503", w.Code)
	}
	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["error"] != "db closed" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestHealth_reports_modules(t *testing.T) {
	tests := []struct {
		module string
		want   string
	}{
		{"healthy", "ok"},
		{"degraded", "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			w := get(t, newTestServer(nil, tt.module).Handler(), "/api/v1/health")
			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tt.want {
				t.Errorf("status = %q, want %q", resp.Status, tt.want)
			}
			if resp.Modules["cognition"].Status != tt.module {
				t.Errorf("module status = %q", resp.Modules["cognition"].Status)
			}
		})
	}
}

func TestPluginRoutes_mounted_under_module(t *testing.T) {
	w := get(t, newTestServer(nil, "healthy").Handler(), "/api/v1/cognition/patients/p-7/baseline")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["patient_id"] != "p-7" {
		t.Errorf("patient_id = %q, want p-7", body["patient_id"])
	}
}

func TestPlugins_lists_modules(t *testing.T) {
	w := get(t, newTestServer(nil, "healthy").Handler(), "/api/v1/plugins")
	var out []PluginResponse
	json.NewDecoder(w.Body).Decode(&out)
	if len(out) != 1 || out[0].Name != "cognition" {
		t.Errorf("plugins = %+v", out)
	}
}

func TestAuth_applied_when_configured(t *testing.T) {
	src := &fakeSource{routes: map[string][]plugin.Route{}}
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}
	srv := New(src, zap.NewNop(), Options{Auth: deny})
	if w := get(t, srv.Handler(), "/api/v1/plugins"); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
