package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fairshare-app/backend/internal/calculator"
	"github.com/fairshare-app/backend/internal/models"
	"github.com/fairshare-app/backend/internal/settlement"
	"github.com/fairshare-app/backend/internal/storage"
)

type allocateRequest struct {
	Total   float64                  `json:"total"`
	Mode    string                   `json:"mode"`
	Members []calculator.MemberShare `json:"members"`
}

type allocateResponse struct {
	Members []models.Member `json:"members"`
}

func (s *Server) handleAllocate(w http.ResponseWriter, r *http.Request) {
	var req allocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mode, err := calculator.ParseSplitMode(req.Mode)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	members, err := s.svc.Allocate(req.Total, req.Members, mode)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, allocateResponse{Members: members})
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var e models.Expense
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if e.Title == "" || e.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "title and a positive amount are required")
		return
	}

	if err := s.svc.AddExpense(r.Context(), &e); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteExpense(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.svc.ListExpenses(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

func (s *Server) handleGroupBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := s.svc.GroupBalances(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"balances": balances})
}

func (s *Server) handleSettlement(w http.ResponseWriter, r *http.Request) {
	transfers, err := s.svc.PlanSettlement(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if transfers == nil {
		transfers = []models.Transfer{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"transfers": transfers})
}

func (s *Server) handleUserSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.Summary(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps the service error taxonomy onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var invalidState *calculator.InvalidSplitStateError
	var mismatch *calculator.AllocationMismatchError
	var drift *settlement.DriftError

	switch {
	case errors.As(err, &invalidState), errors.As(err, &mismatch):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrTransactionConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &drift):
		// Invariant violation upstream, nothing the client can fix.
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
