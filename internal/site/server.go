// Package site serves the dynamic HTTP surface of the marketing site.
package site

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kroneus/kroneus-site/internal/chat"
	"github.com/kroneus/kroneus-site/internal/contact"
	"github.com/kroneus/kroneus-site/internal/ratelimit"
	"github.com/kroneus/kroneus-site/internal/scenario"
	"github.com/kroneus/kroneus-site/internal/sequencer"
	"github.com/kroneus/kroneus-site/internal/telemetry"
)

// Config holds listener settings.
type Config struct {
	Addr            string
	StaticDir       string
	ShutdownTimeout time.Duration
}

// Submitter accepts contact submissions. *contact.Intake satisfies it.
type Submitter interface {
	Submit(ctx context.Context, sub contact.Submission) (contact.Receipt, error)
}

// Deps are the components behind the routes. Nil limiters disable throttling.
type Deps struct {
	Store          *scenario.Store
	Sessions       *sequencer.Registry
	Intake         Submitter
	Chat           *chat.Router
	ContactLimiter *ratelimit.Limiter
	ChatLimiter    *ratelimit.Limiter
	Metrics        *telemetry.Metrics
	Logger         *zap.Logger
}

// Server is the site HTTP server.
type Server struct {
	cfg    Config
	deps   Deps
	logger *zap.Logger
	router *mux.Router
	srv    *http.Server
}

// New wires the routes.
func New(cfg Config, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Chat == nil {
		deps.Chat = chat.NewRouter()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}

	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: deps.Logger,
		router: mux.NewRouter(),
	}
	s.routes()
	s.srv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.observe)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/scenarios", s.handleCatalog).Methods(http.MethodGet)
	api.HandleFunc("/scenarios/{id}", s.handleScenario).Methods(http.MethodGet)
	api.HandleFunc("/layers", s.handleLayers).Methods(http.MethodGet)

	api.Handle("/contact", s.limit(s.deps.ContactLimiter, contactError, http.HandlerFunc(s.handleContact))).Methods(http.MethodPost)

	api.Handle("/chat", s.limit(s.deps.ChatLimiter, apiError, http.HandlerFunc(s.handleChat))).Methods(http.MethodPost)
	api.HandleFunc("/chat/suggestions", s.handleChatSuggestions).Methods(http.MethodGet)

	api.HandleFunc("/demo/play/{scenarioId}", s.handlePlay).Methods(http.MethodGet)
	api.HandleFunc("/demo/sessions", s.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/demo/sessions/{id}", s.handleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/demo/sessions/{id}", s.handleDeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/demo/sessions/{id}/start", s.handleStartSession).Methods(http.MethodPost)
	api.HandleFunc("/demo/sessions/{id}/reset", s.handleResetSession).Methods(http.MethodPost)
	api.HandleFunc("/demo/sessions/{id}/scenario", s.handleSelectScenario).Methods(http.MethodPut)

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, apiError("not found"))
	})
	api.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, apiError("method not allowed"))
	})

	r.HandleFunc("/data/scenarios.json", s.handleCatalog).Methods(http.MethodGet)

	if s.cfg.StaticDir != "" {
		r.PathPrefix("/").Handler(staticHandler(s.cfg.StaticDir)).Methods(http.MethodGet, http.MethodHead)
	}
}

func (s *Server) limit(l *ratelimit.Limiter, body func(string) any, h http.Handler) http.Handler {
	if l == nil {
		return h
	}
	return l.Middleware(body)(h)
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens and serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.logger.Info("http listening", zap.String("addr", ln.Addr().String()))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("http shutdown", zap.Error(err))
		}
	}()

	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
