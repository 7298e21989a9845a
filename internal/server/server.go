// Package server provides the HTTP server for the vision games.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/robertgvds/vision-games/internal/app"
	"github.com/robertgvds/vision-games/internal/logging"
	"github.com/robertgvds/vision-games/internal/server/api"
	"github.com/robertgvds/vision-games/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FrameSource provides the latest JPEG camera frame.
type FrameSource interface {
	Latest() ([]byte, uint64)
}

// ViewSource publishes a view on every game tick.
type ViewSource interface {
	Subscribe() (<-chan app.View, func())
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Games     api.Controller
	Views     ViewSource
	Frames    FrameSource
	Log       logrus.FieldLogger
	// StateRate caps websocket views per second per client.
	StateRate float64
}

// Server represents the HTTP server for the vision games.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	http   *http.Server
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.Log == nil {
		config.Log = logging.Discard()
	}
	if config.StateRate <= 0 {
		config.StateRate = 30
	}

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		scores := api.NewScoresHandler(s.config.Store)
		s.mux.Handle("/api/scores", scores)
		s.mux.Handle("/api/scores/", scores)

		results := api.NewResultsHandler(s.config.Store)
		s.mux.Handle("/api/results", results)
		s.mux.Handle("/api/results/", results)
	}

	if s.config.Games != nil {
		games := api.NewGameHandler(s.config.Games)
		s.mux.Handle("/api/game", games)
		s.mux.Handle("/api/game/", games)
	}

	if s.config.Frames != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Frames))
	}

	if s.config.Views != nil {
		s.mux.Handle("/api/state", NewStateHandler(s.config.Views, s.config.StateRate, s.config.Log))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.Games != nil {
		response["game"] = s.config.Games.Status()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address. It returns
// nil after Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.config.Log.WithField("addr", addr).Info("http server listening")

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server started by ListenAndServe.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
