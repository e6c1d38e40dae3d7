// Package server exposes a tree movie over HTTP: JSON metadata, rendered SVG
// frames, and a WebSocket playback channel.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/phylomovies/treemovie"
)

// Config holds server configuration.
type Config struct {
	Port     int
	Width    float64 // SVG viewport width
	Height   float64 // SVG viewport height
	AllowAll bool    // allow all CORS origins (dev mode)
}

// Server serves one loaded movie. The controller is not safe for concurrent
// use, so every handler that touches it goes through mu.
type Server struct {
	cfg        Config
	log        *slog.Logger
	mu         sync.Mutex
	ctrl       *treemovie.Controller
	router     chi.Router
	httpServer *http.Server

	// epoch anchors every connection's controller timestamps so concurrent
	// clients drive playback on one clock. lastTick is guarded by mu.
	epoch    time.Time
	lastTick float64
}

// New creates a server around an already-loaded controller.
func New(cfg Config, ctrl *treemovie.Controller, log *slog.Logger) *Server {
	s := &Server{cfg: cfg, ctrl: ctrl, log: log, epoch: time.Now()}
	s.router = s.buildRouter()
	return s
}

// now returns the shared playback timestamp in milliseconds.
func (s *Server) now() float64 {
	return time.Since(s.epoch).Seconds() * 1000
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/api/movie", s.handleMovie)
	r.Get("/api/timeline", s.handleTimeline)
	r.Get("/api/frames/{index}/svg", s.handleFrameSVG)
	r.Get("/api/position/{pos}/svg", s.handlePositionSVG)
	r.Get("/ws", s.handleWebSocket)

	return r
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port and blocks until the server
// stops or ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleMovie(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	movie := s.ctrl.Movie()
	s.mu.Unlock()

	summary := movieSummary(movie)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleTimeline(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	segs := s.ctrl.Timeline().Segments()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, timelinePayload(segs))
}

func (s *Server) handleFrameSVG(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		httpError(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	s.renderSVG(w, float64(idx))
}

func (s *Server) handlePositionSVG(w http.ResponseWriter, r *http.Request) {
	pos, err := strconv.ParseFloat(chi.URLParam(r, "pos"), 64)
	if err != nil {
		httpError(w, http.StatusBadRequest, "pos must be a number")
		return
	}
	s.renderSVG(w, pos)
}

func (s *Server) renderSVG(w http.ResponseWriter, pos float64) {
	s.mu.Lock()
	n := s.ctrl.Movie().NumFrames()
	if pos < 0 || pos > float64(n-1) {
		s.mu.Unlock()
		httpError(w, http.StatusNotFound, fmt.Sprintf("position out of range [0, %d]", n-1))
		return
	}
	doc := s.ctrl.RenderSVG(pos, s.cfg.Width, s.cfg.Height)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}
