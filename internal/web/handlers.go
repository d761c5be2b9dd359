package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Matyasdf/medic-port-stockin/internal/archive"
	"github.com/Matyasdf/medic-port-stockin/internal/domain"
	"github.com/Matyasdf/medic-port-stockin/internal/relocation"
)

// WarehouseService is the subset of service.Warehouse the API requires.
type WarehouseService interface {
	RelocateItem(ctx context.Context, itemID int64, reason string) (*relocation.Result, error)
	DispenseItem(ctx context.Context, itemID int64, taskID string) (domain.ArchivedItem, error)
	ArchiveStats() archive.Stats
	RelocationHistory() []relocation.Entry
	RelocationStats() relocation.Stats
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type relocateRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleRelocate(w http.ResponseWriter, r *http.Request) {
	itemID, err := parseID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req relocateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	result, err := s.warehouse.RelocateItem(r.Context(), itemID, req.Reason)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

type dispenseRequest struct {
	TaskID string `json:"task_id"`
}

func (s *Server) handleDispense(w http.ResponseWriter, r *http.Request) {
	itemID, err := parseID(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req dispenseRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	record, err := s.warehouse.DispenseItem(r.Context(), itemID, req.TaskID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleArchiveStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.warehouse.ArchiveStats())
}

func (s *Server) handleRelocationHistory(w http.ResponseWriter, r *http.Request) {
	records := s.warehouse.RelocationHistory()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"relocations": records,
		"total":       len(records),
	})
}

func (s *Server) handleRelocationStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.warehouse.RelocationStats())
}

// writeServiceError maps domain sentinel errors onto HTTP status classes;
// anything unrecognized is an internal failure.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrItemNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrItemNotPlaced):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNoSlotAvailable):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}
