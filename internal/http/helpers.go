package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	applog "dompet/internal/log"
	"dompet/internal/store"
)

// ownerHeader carries the authenticated owner id, set by the fronting
// identity-aware proxy. The server never derives identity from anything
// else.
const ownerHeader = "X-Owner-ID"

var errMissingOwnerHeader = errors.New("missing or invalid owner header")

func ownerFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get(ownerHeader)
	if raw == "" {
		return uuid.Nil, errMissingOwnerHeader
	}
	owner, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errMissingOwnerHeader
	}
	return owner, nil
}

// yearMonthFromQuery reads year/month query parameters, defaulting both
// to the current UTC month when absent.
func yearMonthFromQuery(r *http.Request) (int, time.Month, error) {
	now := time.Now().UTC()
	year, month := now.Year(), now.Month()

	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year %q", raw)
		}
		year = y
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, fmt.Errorf("invalid month %q", raw)
		}
		month = time.Month(m)
	}
	return year, month, nil
}

func pageFromQuery(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 0, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		return 0, fmt.Errorf("invalid page %q", raw)
	}
	return page, nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response",
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldError, err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondStoreError maps persistence failures onto HTTP statuses: a
// missing goal is the caller's problem, a failed backend is ours.
func respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrGoalNotFound):
		respondError(w, http.StatusNotFound, "goal not found")
	default:
		slog.ErrorContext(r.Context(), "Store operation failed",
			applog.FieldComponent, applog.ComponentHTTP,
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err)
		var opErr *store.OperationError
		if errors.As(err, &opErr) {
			respondError(w, http.StatusBadGateway, "storage backend unavailable")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
