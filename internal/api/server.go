package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/yangwenmai/bis/internal/model"
	"github.com/yangwenmai/bis/internal/notify"
	"github.com/yangwenmai/bis/internal/session"
	"github.com/yangwenmai/bis/internal/store"
)

// maxRequestBody is the maximum allowed request body size (1 MB).
const maxRequestBody int64 = 1 << 20

// Server holds the HTTP handlers and dependencies.
type Server struct {
	sessions   *session.Registry
	hub        *notify.Hub
	journal    store.DecisionReader
	logger     *zap.Logger
	corsOrigin string
	router     chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithHub enables the websocket notification endpoint.
func WithHub(h *notify.Hub) Option {
	return func(s *Server) { s.hub = h }
}

// WithJournal enables the decision journal endpoints.
func WithJournal(j store.DecisionReader) Option {
	return func(s *Server) { s.journal = j }
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithCORSOrigin sets the allowed CORS origin. Defaults to "*".
func WithCORSOrigin(origin string) Option {
	return func(s *Server) { s.corsOrigin = origin }
}

// New creates a new API server.
func New(reg *session.Registry, opts ...Option) *Server {
	srv := &Server{
		sessions:   reg,
		logger:     zap.NewNop(),
		corsOrigin: "*",
	}
	for _, opt := range opts {
		opt(srv)
	}
	srv.routes()
	return srv
}

// Handler returns the root http.Handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{s.corsOrigin},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))
	r.Use(limitBody)
	r.Use(jsonContent)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/score", s.handleScore)
		r.Get("/decisions", s.handleListDecisions)
		r.Get("/decisions/stats", s.handleDecisionStats)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sid}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteSession)
			r.Get("/summary", s.handleSummary)
			r.Get("/assets/pending", s.handlePending)
			r.Get("/assets/history", s.handleHistory)
			r.Get("/assets/visible", s.handleVisible)
			r.Post("/assets/{id}/approve", s.handleAction(model.ActionApprove))
			r.Post("/assets/{id}/rewrite", s.handleAction(model.ActionRewrite))
			r.Get("/analytics", s.handleAnalytics)
			r.Get("/analytics/charts", s.handleCharts)
			r.Get("/ws", s.handleWS)
		})
	})

	s.router = r
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// limitBody restricts the request body to maxRequestBody bytes.
func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		next.ServeHTTP(w, r)
	})
}

func jsonContent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// ---------------------------------------------------------------------------
// Response helpers
// ---------------------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// splitComma splits a comma separated list, dropping blanks. It returns a
// non-nil empty slice for input with no entries.
func splitComma(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
