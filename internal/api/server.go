// Package api provides the FinQuest HTTP server.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/finquest-app/finquest/internal/app/account"
)

// Version is reported by /api/version and the CLI.
const Version = "0.1.0"

// Server is the FinQuest HTTP API server.
type Server struct {
	accounts       *account.Store
	tokens         *account.Tokens
	engagement     *EngagementAPI
	log            logrus.FieldLogger
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(accounts *account.Store, tokens *account.Tokens, engagement *EngagementAPI, log logrus.FieldLogger) *Server {
	return &Server{
		accounts:   accounts,
		tokens:     tokens,
		engagement: engagement,
		log:        log.WithField("component", "api"),
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": Version,
		})
	})

	r.Post("/api/register", s.handleRegister)
	r.Post("/api/login", s.handleLogin)

	// Everything under /api/me acts on the authenticated user.
	r.Route("/api/me", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/dashboard", s.engagement.HandleDashboard)
		r.Get("/badges", s.engagement.HandleBadges)

		r.Get("/goals", s.engagement.HandleListGoals)
		r.Post("/goals", s.engagement.HandleAddGoal)
		r.Delete("/goals/{id}", s.engagement.HandleRemoveGoal)

		r.Get("/savings", s.engagement.HandleListSavings)
		r.Post("/savings", s.engagement.HandleLogSavings)

		r.Get("/quiz", s.engagement.HandleQuiz)
		r.Post("/quiz/answer", s.engagement.HandleQuizAnswer)
		r.Post("/quiz/next", s.engagement.HandleQuizNext)
		r.Post("/quiz/restart", s.engagement.HandleQuizRestart)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// requestLogger logs one line per request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request")
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    http.StatusText(status),
		},
	})
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
