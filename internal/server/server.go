// Package server implements the collaborator HTTP API: scenario generation,
// event context, historical comparison, and user alert management.
package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/macrolab/macrosim/internal/alerts"
	"github.com/macrolab/macrosim/internal/market"
	"github.com/macrolab/macrosim/internal/monitoring"
)

// Server holds the API's dependencies and its router.
type Server struct {
	tracker *market.Tracker
	alerts  *alerts.Store
	metrics *monitoring.Metrics
	router  *mux.Router
}

// New wires the routes. metrics may be nil; instrumentation is then skipped.
func New(tracker *market.Tracker, alertStore *alerts.Store, metrics *monitoring.Metrics) *Server {
	s := &Server{
		tracker: tracker,
		alerts:  alertStore,
		metrics: metrics,
		router:  mux.NewRouter(),
	}

	s.router.HandleFunc("/simulate", s.instrument("simulate", s.handleSimulate)).Methods("POST")
	s.router.HandleFunc("/generate-event", s.instrument("generate-event", s.handleGenerateEvent)).Methods("GET")
	s.router.HandleFunc("/historical-scenarios", s.instrument("historical-scenarios", s.handleHistoricalScenarios)).Methods("POST")

	s.router.HandleFunc("/alerts", s.instrument("alerts", s.handleListAlerts)).Methods("GET")
	s.router.HandleFunc("/alerts", s.instrument("alerts", s.handleCreateAlert)).Methods("POST")
	s.router.HandleFunc("/alerts/{id}", s.instrument("alerts", s.handleUpdateAlert)).Methods("PUT")
	s.router.HandleFunc("/alerts/{id}", s.instrument("alerts", s.handleDeleteAlert)).Methods("DELETE")

	s.router.HandleFunc("/healthz", s.handleHealthz).Methods("GET")
	if metrics != nil {
		s.router.Handle("/metrics", metrics.Handler()).Methods("GET")
	}

	return s
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(s.router)
}

// statusWriter captures the response code for instrumentation.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(name string, h http.HandlerFunc) http.HandlerFunc {
	if s.metrics == nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		h(sw, r)
		s.metrics.ObserveRequest(name, r.Method, sw.status, time.Since(start))
	}
}
