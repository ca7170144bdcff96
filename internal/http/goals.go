package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"dompet/internal/core"
)

type createGoalRequest struct {
	Name         string `json:"name"`
	TargetAmount string `json:"target_amount"`
}

type contributionRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listGoals(w, r)
	case http.MethodPost:
		s.createGoal(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromRequest(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	goals, err := s.goals.List(r.Context(), owner)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newGoalViews(goals))
}

func (s *Server) createGoal(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromRequest(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.TargetAmount)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	g := core.SavingGoal{
		OwnerID:      owner,
		Name:         strings.TrimSpace(req.Name),
		TargetAmount: core.Money{Cents: cents},
	}
	if err := g.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.goals.Create(r.Context(), g)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, newGoalView(created))
}

// handleGoalContribution serves POST /api/goals/{id}/contributions.
func (s *Server) handleGoalContribution(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	goalID, ok := goalIDFromPath(r.URL.Path)
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}

	owner, err := ownerFromRequest(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req contributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	amount := core.Money{Cents: cents}
	if err := amount.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.goals.Contribute(r.Context(), goalID, owner, amount); err != nil {
		respondStoreError(w, r, err)
		return
	}

	// Return the goal with its new running total.
	goal, err := s.goals.Get(r.Context(), goalID, owner)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, newGoalView(goal))
}

func goalIDFromPath(path string) (int64, bool) {
	rest := strings.TrimPrefix(path, "/api/goals/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[1] != "contributions" {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
