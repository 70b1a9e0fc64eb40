// Package httpapi provides the REST HTTP adapter for the serve-mode surfaces.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/hylla/sysla/internal/app"
	"github.com/hylla/sysla/internal/domain"
)

// defaultActivityLimit bounds the activity listing when no limit is given.
const defaultActivityLimit = 50

// StateReader exposes the synchronized todo state to read-only transports.
type StateReader interface {
	Snapshot() app.Snapshot
	RecentActivity(ctx context.Context, limit int) ([]domain.ActionEvent, error)
}

// Handler serves the versioned API subrouter mounted under `/api/v1`.
type Handler struct {
	state StateReader
}

// APIError represents one structured API failure response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorEnvelope wraps one structured API error.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// StatePayload is the GET `/state` response body.
type StatePayload struct {
	Snapshot app.Snapshot `json:"snapshot"`
	Counts   StateCounts  `json:"counts"`
}

// StateCounts summarizes list composition alongside the snapshot.
type StateCounts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

// NewHandler constructs one HTTP API adapter over the state reader.
func NewHandler(state StateReader) *Handler {
	return &Handler{state: state}
}

// ServeHTTP routes one versioned API request to the matching handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := normalizePath(r.URL.Path)
	switch path {
	case "state":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleState(w, r)
	case "activity":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleActivity(w, r)
	default:
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: "endpoint not found",
		})
	}
}

// handleState serves GET `/state`.
func (h *Handler) handleState(w http.ResponseWriter, _ *http.Request) {
	if h.state == nil {
		writeJSONError(w, http.StatusServiceUnavailable, APIError{
			Code:    "service_unavailable",
			Message: "state service is not configured",
		})
		return
	}
	snap := h.state.Snapshot()
	writeJSON(w, http.StatusOK, StatePayload{
		Snapshot: snap,
		Counts: StateCounts{
			Total:     snap.TotalCount(),
			Active:    snap.ActiveCount(),
			Completed: snap.CompletedCount(),
		},
	})
}

// handleActivity serves GET `/activity`.
func (h *Handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	if h.state == nil {
		writeJSONError(w, http.StatusServiceUnavailable, APIError{
			Code:    "service_unavailable",
			Message: "state service is not configured",
		})
		return
	}
	limit := defaultActivityLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSONError(w, http.StatusBadRequest, APIError{
				Code:    "invalid_request",
				Message: "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}
	events, err := h.state.RecentActivity(r.Context(), limit)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	if events == nil {
		events = []domain.ActionEvent{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
	})
}

// normalizePath strips the mount prefix slashes from one request path.
func normalizePath(path string) string {
	return strings.Trim(path, "/")
}

// writeErrorFrom maps service errors onto structured API failures.
func writeErrorFrom(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: "unknown error",
		})
	case errors.Is(err, app.ErrJournalMissing):
		writeJSONError(w, http.StatusNotImplemented, APIError{
			Code:    "not_implemented",
			Message: err.Error(),
		})
	case errors.Is(err, app.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: err.Error(),
		})
	default:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: err.Error(),
		})
	}
}

// writeMethodNotAllowed reports the allowed method set for one endpoint.
func writeMethodNotAllowed(w http.ResponseWriter, methods ...string) {
	if len(methods) > 0 {
		w.Header().Set("Allow", strings.Join(methods, ", "))
	}
	writeJSONError(w, http.StatusMethodNotAllowed, APIError{
		Code:    "method_not_allowed",
		Message: "method not allowed",
	})
}

// writeJSONError wraps one structured API error.
func writeJSONError(w http.ResponseWriter, statusCode int, apiErr APIError) {
	writeJSON(w, statusCode, ErrorEnvelope{Error: apiErr})
}

// writeJSON encodes one response payload.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":{"code":"encode_error","message":"%s"}}`, err.Error()), http.StatusInternalServerError)
	}
}
