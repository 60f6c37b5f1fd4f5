// Package server hosts the Alzheon HTTP API: operational probes, module
// routes under /api/v1/{module} and optional Swagger UI.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/internal/version"
	"github.com/juanjo10022006/UAO2025-3-PI-Alzheon-V2-sub000/pkg/plugin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// PluginSource provides module metadata and routes.
type PluginSource interface {
	AllRoutes() map[string][]plugin.Route
	All() []plugin.Plugin
}

// ReadinessChecker returns nil when the server can serve traffic.
type ReadinessChecker func(ctx context.Context) error

// RouteRegistrar registers routes that live outside the module tree, such
// as the WebSocket stream.
type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

// Options configures New.
type Options struct {
	Addr           string
	DevMode        bool
	RateLimitRPS   float64
	RateLimitBurst int
	Ready          ReadinessChecker
	Auth           func(http.Handler) http.Handler // nil disables authentication
	Extra          []RouteRegistrar
}

// Server is the Alzheon HTTP server.
type Server struct {
	httpServer *http.Server
	plugins    PluginSource
	logger     *zap.Logger
	mux        *http.ServeMux
	ready      ReadinessChecker
}

var operationalPaths = []string{"/healthz", "/readyz", "/metrics"}

// New builds the server and mounts every route.
func New(plugins PluginSource, logger *zap.Logger, opts Options) *Server {
	s := &Server{
		plugins: plugins,
		logger:  logger,
		mux:     http.NewServeMux(),
		ready:   opts.Ready,
	}

	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.HandleFunc("GET /readyz", s.handleReadyz)
	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/plugins", s.handlePlugins)
	for _, r := range opts.Extra {
		r.RegisterRoutes(s.mux)
	}
	s.mountPluginRoutes()

	if opts.DevMode {
		s.mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
		logger.Info("swagger UI enabled", zap.String("path", "/swagger/"))
	}

	rps, burst := opts.RateLimitRPS, opts.RateLimitBurst
	if rps <= 0 {
		rps = 50
	}
	if burst <= 0 {
		burst = 100
	}
	chain := []Middleware{
		RecoveryMiddleware(logger),
		RequestIDMiddleware,
		LoggingMiddleware(logger, operationalPaths...),
		SecurityHeadersMiddleware,
		VersionHeaderMiddleware,
		RateLimitMiddleware(rps, burst, operationalPaths...),
	}
	if opts.Auth != nil {
		chain = append(chain, opts.Auth)
	}

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           Chain(s.mux, chain...),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) mountPluginRoutes() {
	for name, routes := range s.plugins.AllRoutes() {
		for _, route := range routes {
			pattern := fmt.Sprintf("%s /api/v1/%s%s", route.Method, name, route.Path)
			s.mux.HandleFunc(pattern, route.Handler)
			s.logger.Debug("mounted route", zap.String("module", name), zap.String("pattern", pattern))
		}
	}
}

// Start serves until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	Status  string                         `json:"status" example:"ok"`
	Service string                         `json:"service" example:"alzheon"`
	Version map[string]string              `json:"version"`
	Modules map[string]plugin.HealthStatus `json:"modules,omitempty"`
}

// PluginResponse describes a mounted module.
type PluginResponse struct {
	Name        string `json:"name" example:"cognition"`
	Version     string `json:"version" example:"0.1.0"`
	Description string `json:"description" example:"Cognitive deviation analysis and alerting"`
}

// handleHealth reports service and module health.
//
//	@Summary		Health check
//	@Description	Returns service status, build information and per-module health.
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Service: "alzheon",
		Version: version.Map(),
		Modules: make(map[string]plugin.HealthStatus),
	}
	for _, p := range s.plugins.All() {
		hc, ok := p.(plugin.HealthChecker)
		if !ok {
			continue
		}
		st := hc.Health(r.Context())
		resp.Modules[p.Info().Name] = st
		if st.Status != "healthy" && resp.Status == "ok" {
			resp.Status = "degraded"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handlePlugins lists mounted modules.
//
//	@Summary		List modules
//	@Tags			system
//	@Produce		json
//	@Success		200	{array}	PluginResponse
//	@Router			/plugins [get]
func (s *Server) handlePlugins(w http.ResponseWriter, _ *http.Request) {
	mods := s.plugins.All()
	out := make([]PluginResponse, 0, len(mods))
	for _, p := range mods {
		info := p.Info()
		out = append(out, PluginResponse{Name: info.Name, Version: info.Version, Description: info.Description})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
