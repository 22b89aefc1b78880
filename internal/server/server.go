// Package server exposes the interview session over HTTP and WebSocket.
// Committed history travels over REST; in-flight assistant output streams
// over the socket, fragment by fragment.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Dharanikpdb-007/Interview-practice-partners/internal/metrics"
	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/archive"
	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/interview"
	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/provider"
)

// sessionCookie carries the session ID between requests for the lifetime of
// the browser session (no Max-Age: the cookie dies with the browser).
const sessionCookie = "interview_session"

// Server is the HTTP/WebSocket front end.
type Server struct {
	host           string
	port           int
	provider       provider.Provider
	registry       *Registry
	archiver       *archive.Archiver
	idleTimeout    time.Duration
	sweepSchedule  string
	maxUploadBytes int64
	logger         zerolog.Logger

	server   *http.Server
	upgrader websocket.Upgrader
	janitor  *cron.Cron

	personaMu sync.RWMutex
	persona   interview.Persona

	shutdownMu     sync.RWMutex
	isShuttingDown bool
}

// Config holds server configuration.
type Config struct {
	Host           string
	Port           int
	Provider       provider.Provider
	Persona        interview.Persona
	IdleTimeout    time.Duration
	SweepSchedule  string
	Archiver       *archive.Archiver // nil disables archiving
	MaxUploadBytes int64
	Logger         zerolog.Logger
}

// NewServer creates the front-end server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}
	if cfg.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 30 * time.Minute
	}
	if cfg.SweepSchedule == "" {
		cfg.SweepSchedule = "@every 5m"
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = interview.DefaultMaxUploadSize
	}

	return &Server{
		host:           cfg.Host,
		port:           cfg.Port,
		provider:       cfg.Provider,
		registry:       NewRegistry(),
		archiver:       cfg.Archiver,
		idleTimeout:    cfg.IdleTimeout,
		sweepSchedule:  cfg.SweepSchedule,
		maxUploadBytes: cfg.MaxUploadBytes,
		persona:        cfg.Persona,
		logger:         cfg.Logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Single-user practice tool; the session cookie scopes state.
				return true
			},
		},
	}, nil
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/api/session", s.handleSession)
	mux.HandleFunc("/api/reset", s.handleReset)
	mux.HandleFunc("/api/context", s.handleContext)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return mux
}

// Start begins serving and launches the idle-session janitor.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.host, s.port),
		Handler: s.Handler(),
	}

	s.logger.Info().Str("host", s.host).Int("port", s.port).Msg("starting interview server")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("server error")
		}
	}()

	s.janitor = cron.New()
	if _, err := s.janitor.AddFunc(s.sweepSchedule, s.sweepIdleSessions); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.sweepSchedule, err)
	}
	s.janitor.Start()

	return nil
}

// Stop gracefully stops the server, archiving live transcripts first.
func (s *Server) Stop() error {
	s.shutdownMu.Lock()
	s.isShuttingDown = true
	s.shutdownMu.Unlock()

	s.logger.Info().Msg("shutting down interview server")

	if s.janitor != nil {
		s.janitor.Stop()
	}

	for _, sess := range s.registry.All() {
		s.archiveSession(sess)
		s.registry.Remove(sess.ID())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	s.logger.Info().Msg("interview server stopped")
	return nil
}

// SetPersona swaps the persona used for new sessions. Live sessions keep
// the persona they started with.
func (s *Server) SetPersona(p interview.Persona) {
	s.personaMu.Lock()
	defer s.personaMu.Unlock()
	s.persona = p
	s.logger.Info().Str("model", p.Model).Msg("persona updated for new sessions")
}

func (s *Server) currentPersona() interview.Persona {
	s.personaMu.RLock()
	defer s.personaMu.RUnlock()
	return s.persona
}

func (s *Server) shuttingDown() bool {
	s.shutdownMu.RLock()
	defer s.shutdownMu.RUnlock()
	return s.isShuttingDown
}

// sweepIdleSessions evicts sessions past the idle timeout.
func (s *Server) sweepIdleSessions() {
	evicted := s.registry.EvictIdle(s.idleTimeout)
	for _, sess := range evicted {
		s.archiveSession(sess)
		s.logger.Info().Str("session_id", sess.ID()).Msg("idle session evicted")
	}
}

// archiveSession writes the transcript to the archive when enabled.
func (s *Server) archiveSession(sess *interview.Session) {
	if s.archiver == nil {
		return
	}
	if err := s.archiver.Archive(sess.ID(), sess.Turns()); err != nil {
		s.logger.Error().Err(err).Str("session_id", sess.ID()).Msg("failed to archive transcript")
	}
}
