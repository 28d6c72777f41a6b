// Package shockweb serves the upload page, the process endpoint, and the
// chart endpoints for shock log analysis.
package shockweb

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/banshee-data/shock.report/internal/config"
	"github.com/banshee-data/shock.report/internal/monitoring"
	"github.com/banshee-data/shock.report/internal/shockdata"
	"github.com/banshee-data/shock.report/internal/version"
)

// WebServer owns the HTTP surface and the most recent parsed upload. Only
// the latest upload is kept: a new upload replaces the previous Table, which
// is then discarded. Nothing is persisted.
type WebServer struct {
	address string
	tuning  *config.TuningConfig
	static  http.Handler
	server  *http.Server

	mu     sync.Mutex
	latest *upload
}

// upload is one parsed log kept in memory until the next upload replaces it.
type upload struct {
	ID       string
	Table    *shockdata.Table
	Received time.Time
}

// WebServerConfig contains configuration options for the web server.
type WebServerConfig struct {
	Address string
	Tuning  *config.TuningConfig
	Static  http.Handler
}

// NewWebServer creates a new web server with the provided configuration.
func NewWebServer(cfg WebServerConfig) *WebServer {
	tuning := cfg.Tuning
	if tuning == nil {
		tuning = config.EmptyTuningConfig()
	}
	ws := &WebServer{
		address: cfg.Address,
		tuning:  tuning,
		static:  cfg.Static,
	}
	ws.server = &http.Server{
		Addr:    ws.address,
		Handler: ws.setupRoutes(),
	}
	return ws
}

// Handler exposes the route table for tests and for embedding under a parent mux.
func (ws *WebServer) Handler() http.Handler {
	return ws.server.Handler
}

// Start begins the HTTP server in a goroutine and handles graceful shutdown.
func (ws *WebServer) Start(ctx context.Context) error {
	go func() {
		monitoring.Logf("Starting HTTP server on %s", ws.address)
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			monitoring.Logf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	monitoring.Logf("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := ws.server.Shutdown(shutdownCtx); err != nil {
		monitoring.Logf("HTTP server shutdown error: %v", err)
		if err := ws.server.Close(); err != nil {
			monitoring.Logf("HTTP server force close error: %v", err)
		}
	}

	monitoring.Logf("HTTP server routine stopped")
	return nil
}

// setupRoutes configures the HTTP routes and handlers.
func (ws *WebServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", ws.handleHealth)
	mux.HandleFunc("/api/shock/process", ws.handleProcess)
	mux.HandleFunc("/api/shock/latest", ws.handleLatest)
	mux.HandleFunc("/api/shock/velocities", ws.handleVelocities)
	mux.HandleFunc("/charts/position", ws.handlePositionChart)
	mux.HandleFunc("/charts/velocity", ws.handleVelocityChart)
	if ws.static != nil {
		mux.Handle("/", ws.static)
	}

	return mux
}

func (ws *WebServer) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// setLatest installs a new upload as the current one. The previous Table is
// dropped on the floor; requests racing an upload either see the old table or
// the new one, never a mix.
func (ws *WebServer) setLatest(u *upload) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.latest = u
}

func (ws *WebServer) latestUpload() *upload {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.latest
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "version": version.String()})
}
