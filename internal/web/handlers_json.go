package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vitos/tickerwatch/internal/domain"
	"go.uber.org/zap"
)

const (
	defaultJournalLimit = 50
	maxJournalLimit     = 500
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.machine.Snapshot()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"state":             domain.StateName(snap.State),
		"scheduler":         snap.Phase,
		"freshness_seconds": snap.FreshnessSeconds,
	})
}

func (s *Server) handleTickers(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if !s.machine.Reload() {
		http.Error(w, "Not running", http.StatusConflict)
		return
	}
	s.writeJSON(w, http.StatusAccepted, s.machine.Snapshot())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.machine.Refresh()
	s.writeJSON(w, http.StatusAccepted, s.machine.Snapshot())
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	s.machine.UpdateSearchQuery(req.Query)
	s.writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

func (s *Server) handleSelectFilter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filter domain.Filter `json:"filter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	s.machine.SelectPendingFilter(req.Filter)
	s.writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

func (s *Server) handleApplyFilter(w http.ResponseWriter, r *http.Request) {
	s.machine.ApplyPendingFilter()
	s.writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

func (s *Server) handleClearFilter(w http.ResponseWriter, r *http.Request) {
	s.machine.ClearFilter()
	s.writeJSON(w, http.StatusOK, s.machine.Snapshot())
}

func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		http.Error(w, "Journal disabled", http.StatusNotFound)
		return
	}

	limit := defaultJournalLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		limit = min(n, maxJournalLimit)
	}

	records, err := s.journal.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("Failed to list journal", zap.Error(err))
		http.Error(w, "Failed to list journal", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []domain.FetchRecord{}
	}
	s.writeJSON(w, http.StatusOK, records)
}
