package http

import (
	"encoding/json"
	"net/http"

	"dompet/internal/core"
)

type createTransactionRequest struct {
	Amount      string `json:"amount"`
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type transactionPage struct {
	Transactions []transactionView `json:"transactions"`
	Page         int               `json:"page"`
	HasMore      bool              `json:"has_more"`
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromRequest(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}
	page, err := pageFromQuery(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	txs, err := s.history.ListPage(r.Context(), owner, page, s.pageSize)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, transactionPage{
		Transactions: newTransactionViews(txs),
		Page:         page,
		HasMore:      len(txs) >= s.pageSize,
	})
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromRequest(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	tx := core.Transaction{
		OwnerID:     owner,
		Amount:      core.Money{Cents: cents},
		Kind:        core.TransactionKind(req.Kind),
		Category:    req.Category,
		Description: req.Description,
	}
	if err := tx.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	stored, err := s.record.Record(r.Context(), tx)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}

	s.invalidateOverview(stored)
	respondJSON(w, http.StatusCreated, newTransactionView(stored))
}
