package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/macrolab/macrosim/internal/alerts"
	"github.com/macrolab/macrosim/internal/econ"
	"github.com/macrolab/macrosim/internal/history"
	"github.com/macrolab/macrosim/internal/logger"
	"github.com/macrolab/macrosim/internal/scenario"
	"github.com/macrolab/macrosim/internal/simevent"
)

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var p econ.Params
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid parameters")
		return
	}
	// out-of-range inputs are clamped, not rejected
	p = econ.Params{
		Inflation: econ.Clamp(p.Inflation),
		FedRate:   econ.Clamp(p.FedRate),
		GDPGrowth: econ.Clamp(p.GDPGrowth),
	}

	batch := scenario.Generate(p)
	if s.metrics != nil {
		s.metrics.ScenarioBatchGenerated()
	}
	writeJSON(w, http.StatusOK, map[string]any{"scenarios": batch})
}

func (s *Server) handleGenerateEvent(w http.ResponseWriter, r *http.Request) {
	top := s.tracker.Snapshot().TopIndex()
	if s.metrics != nil {
		s.metrics.EventContextServed()
	}
	writeJSON(w, http.StatusOK, simevent.Context{TopIndex: top})
}

func (s *Server) handleHistoricalScenarios(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Conditions *history.Conditions `json:"currentConditions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid conditions")
		return
	}

	cond := body.Conditions
	if cond == nil {
		derived := s.tracker.Conditions()
		cond = &derived
	}

	writeJSON(w, http.StatusOK, history.Response{
		Scenarios:  history.Rank(history.Canonical(), cond),
		Conditions: cond,
	})
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.alerts.List())
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var a alerts.Alert
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "invalid alert")
		return
	}
	if a.Symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	created, err := s.alerts.Add(a)
	if err != nil {
		logger.Error("create alert: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store alert")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateAlert(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid update")
		return
	}

	id := mux.Vars(r)["id"]
	switch err := s.alerts.SetActive(id, body.Active); {
	case errors.Is(err, alerts.ErrNotFound):
		writeError(w, http.StatusNotFound, "alert not found")
	case err != nil:
		logger.Error("update alert: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update alert")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	switch err := s.alerts.Delete(id); {
	case errors.Is(err, alerts.ErrNotFound):
		writeError(w, http.StatusNotFound, "alert not found")
	case err != nil:
		logger.Error("delete alert: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to delete alert")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
