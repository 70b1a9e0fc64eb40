package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hylla/sysla/internal/app"
	"github.com/hylla/sysla/internal/domain"
)

// stubStateReader provides deterministic state responses for handler tests.
type stubStateReader struct {
	snapshot  app.Snapshot
	events    []domain.ActionEvent
	err       error
	lastLimit int
}

// Snapshot returns the configured fixture snapshot.
func (s *stubStateReader) Snapshot() app.Snapshot {
	return s.snapshot
}

// RecentActivity records the limit and returns the configured response.
func (s *stubStateReader) RecentActivity(_ context.Context, limit int) ([]domain.ActionEvent, error) {
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return append([]domain.ActionEvent(nil), s.events...), nil
}

func fixtureSnapshot() app.Snapshot {
	return app.Snapshot{
		Todos: []domain.Todo{
			{ID: 1, UserID: 6550, Title: "Buy milk", Completed: false},
			{ID: 2, UserID: 6550, Title: "Walk dog", Completed: true},
		},
		Filter: domain.FilterAll,
		Loaded: true,
	}
}

// TestHandleState verifies behavior for the covered scenario.
func TestHandleState(t *testing.T) {
	handler := NewHandler(&stubStateReader{snapshot: fixtureSnapshot()})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var payload StatePayload
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Counts.Total != 2 || payload.Counts.Active != 1 || payload.Counts.Completed != 1 {
		t.Fatalf("unexpected counts %+v", payload.Counts)
	}
	if len(payload.Snapshot.Todos) != 2 || !payload.Snapshot.Loaded {
		t.Fatalf("unexpected snapshot %+v", payload.Snapshot)
	}
}

// TestHandleStateMethodNotAllowed verifies behavior for the covered scenario.
func TestHandleStateMethodNotAllowed(t *testing.T) {
	handler := NewHandler(&stubStateReader{})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/state", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Allow"); got != http.MethodGet {
		t.Fatalf("Allow header = %q", got)
	}
}

// TestHandleActivity verifies behavior for the covered scenario.
func TestHandleActivity(t *testing.T) {
	stub := &stubStateReader{
		events: []domain.ActionEvent{
			{
				Operation:  domain.ActionOperationAdd,
				TodoID:     101,
				Title:      "Buy milk",
				OccurredAt: time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC),
			},
		},
	}
	handler := NewHandler(stub)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activity?limit=5", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if stub.lastLimit != 5 {
		t.Fatalf("limit = %d, want 5", stub.lastLimit)
	}
	var payload struct {
		Events []domain.ActionEvent `json:"events"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Events) != 1 || payload.Events[0].TodoID != 101 {
		t.Fatalf("unexpected events %+v", payload.Events)
	}
}

// TestHandleActivityInvalidLimit verifies behavior for the covered scenario.
func TestHandleActivityInvalidLimit(t *testing.T) {
	handler := NewHandler(&stubStateReader{})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activity?limit=zero", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != "invalid_request" {
		t.Fatalf("error code = %q", envelope.Error.Code)
	}
}

// TestHandleActivityJournalMissing verifies behavior for the covered scenario.
func TestHandleActivityJournalMissing(t *testing.T) {
	handler := NewHandler(&stubStateReader{err: app.ErrJournalMissing})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/activity", nil))

	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d", rec.Code)
	}
}

// TestUnknownEndpoint verifies behavior for the covered scenario.
func TestUnknownEndpoint(t *testing.T) {
	handler := NewHandler(&stubStateReader{})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
