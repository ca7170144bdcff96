package http

import (
	"encoding/json"
	"net/http"
	"time"

	"dompet/internal/core"
)

type upsertBudgetRequest struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listBudgetStatuses(w, r)
	case http.MethodPut:
		s.upsertBudget(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listBudgetStatuses(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromRequest(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}
	year, month, err := yearMonthFromQuery(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	statuses, err := s.budgets.MonthStatuses(r.Context(), owner, year, month)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newBudgetStatusViews(statuses))
}

func (s *Server) upsertBudget(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromRequest(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req upsertBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	b := core.Budget{
		OwnerID:  owner,
		Category: req.Category,
		Amount:   core.Money{Cents: cents},
		Year:     req.Year,
		Month:    time.Month(req.Month),
	}
	if err := b.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	stored, err := s.budgets.SetBudget(r.Context(), b)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newBudgetView(stored))
}
