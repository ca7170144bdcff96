package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"dompet/internal/core"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// A cheap read through the store proves the backend answers.
	owner := uuid.Nil
	if _, err := s.history.ListPage(r.Context(), owner, 0, 1); err != nil {
		respondError(w, http.StatusServiceUnavailable, "storage not ready")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

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

	cacheKey := overviewCacheKey(owner, year, month)
	if summary, ok := s.overviewCache.Get(cacheKey); ok {
		respondJSON(w, http.StatusOK, newOverviewView(summary))
		return
	}

	summary, err := s.summary.MonthOverview(r.Context(), owner, year, month)
	if err != nil {
		respondStoreError(w, r, err)
		return
	}
	s.overviewCache.Set(cacheKey, summary)
	respondJSON(w, http.StatusOK, newOverviewView(summary))
}

func overviewCacheKey(owner uuid.UUID, year int, month time.Month) string {
	return fmt.Sprintf("%s|%d|%d", owner, year, int(month))
}

// invalidateOverview drops the cached summary for the month the
// transaction lands in, so the next overview read sees it.
func (s *Server) invalidateOverview(tx core.Transaction) {
	at := tx.CreatedAt.UTC()
	s.overviewCache.Delete(overviewCacheKey(tx.OwnerID, at.Year(), at.Month()))
}
