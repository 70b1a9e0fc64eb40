package mcpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hylla/sysla/internal/app"
	"github.com/hylla/sysla/internal/domain"
)

// stubTodoService provides deterministic todo responses for MCP tool tests.
type stubTodoService struct {
	snapshot   app.Snapshot
	loadErr    error
	addErr     error
	toggleErr  error
	renameErr  error
	removeErr  error
	clearErr   error
	lastTitle  string
	lastID     int64
	clearCalls int
}

func (s *stubTodoService) Snapshot() app.Snapshot {
	return s.snapshot
}

func (s *stubTodoService) Load(_ context.Context) (app.Snapshot, error) {
	if s.loadErr != nil {
		return app.Snapshot{}, s.loadErr
	}
	s.snapshot.Loaded = true
	return s.snapshot, nil
}

func (s *stubTodoService) Add(_ context.Context, title string) (app.Snapshot, error) {
	s.lastTitle = title
	if s.addErr != nil {
		return s.snapshot, s.addErr
	}
	return s.snapshot, nil
}

func (s *stubTodoService) Toggle(_ context.Context, id int64) (app.Snapshot, error) {
	s.lastID = id
	if s.toggleErr != nil {
		return s.snapshot, s.toggleErr
	}
	return s.snapshot, nil
}

func (s *stubTodoService) Rename(_ context.Context, id int64, title string) (app.Snapshot, error) {
	s.lastID = id
	s.lastTitle = title
	if s.renameErr != nil {
		return s.snapshot, s.renameErr
	}
	return s.snapshot, nil
}

func (s *stubTodoService) Remove(_ context.Context, id int64) (app.Snapshot, error) {
	s.lastID = id
	if s.removeErr != nil {
		return s.snapshot, s.removeErr
	}
	return s.snapshot, nil
}

func (s *stubTodoService) RemoveCompleted(_ context.Context) (app.Snapshot, error) {
	s.clearCalls++
	if s.clearErr != nil {
		return s.snapshot, s.clearErr
	}
	return s.snapshot, nil
}

// jsonRPCResponse models minimal JSON-RPC response fields used in MCP adapter tests.
type jsonRPCResponse struct {
	ID     float64        `json:"id"`
	Result map[string]any `json:"result"`
}

// callToolRequest constructs one deterministic tools/call JSON-RPC request payload.
func callToolRequest(id int, toolName string, arguments map[string]any) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  "tools/call",
		"params": map[string]any{
			"name":      toolName,
			"arguments": arguments,
		},
	}
}

// initializeRequest builds a deterministic MCP initialize request payload.
func initializeRequest() map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "initialize",
		"params": map[string]any{
			"protocolVersion": mcp.LATEST_PROTOCOL_VERSION,
			"clientInfo": map[string]any{
				"name":    "sysla-test",
				"version": "1.0.0",
			},
		},
	}
}

// postJSONRPC sends one JSON-RPC payload and decodes the response body.
func postJSONRPC(t *testing.T, client *http.Client, url string, payload any) (*http.Response, jsonRPCResponse) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	var decoded jsonRPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if err := resp.Body.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return resp, decoded
}

// toolResultText decodes the first text entry from one tool-call result payload.
func toolResultText(t *testing.T, result map[string]any) string {
	t.Helper()
	contentRaw, ok := result["content"].([]any)
	if !ok || len(contentRaw) == 0 {
		t.Fatalf("content missing in tool result: %#v", result)
	}
	first, ok := contentRaw[0].(map[string]any)
	if !ok {
		t.Fatalf("first content entry has unexpected type: %#v", contentRaw[0])
	}
	text, ok := first["text"].(string)
	if !ok {
		t.Fatalf("content text missing in tool result: %#v", first)
	}
	return text
}

func fixtureService() *stubTodoService {
	return &stubTodoService{
		snapshot: app.Snapshot{
			Todos: []domain.Todo{
				{ID: 1, UserID: 6550, Title: "Buy milk", Completed: false},
				{ID: 2, UserID: 6550, Title: "Walk dog", Completed: true},
			},
			Filter: domain.FilterAll,
			Loaded: true,
		},
	}
}

func newTestServer(t *testing.T, todos TodoService) *httptest.Server {
	t.Helper()
	handler, err := NewHandler(Config{}, todos)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	_, _ = postJSONRPC(t, server.Client(), server.URL, initializeRequest())
	return server
}

// TestHandlerUsesStatelessTransport verifies MCP transport does not issue session ids.
func TestHandlerUsesStatelessTransport(t *testing.T) {
	handler, err := NewHandler(Config{}, fixtureService())
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	server := httptest.NewServer(handler)
	defer server.Close()

	resp, decoded := postJSONRPC(t, server.Client(), server.URL, initializeRequest())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if decoded.ID != 1 {
		t.Fatalf("id = %v, want 1", decoded.ID)
	}
	if got := resp.Header.Get("Mcp-Session-Id"); got != "" {
		t.Fatalf("Mcp-Session-Id header = %q, want empty (stateless transport)", got)
	}
}

// TestHandlerRegistersTodoTools verifies MCP tool discovery includes the full command set.
func TestHandlerRegistersTodoTools(t *testing.T) {
	server := newTestServer(t, fixtureService())
	_, toolsResp := postJSONRPC(t, server.Client(), server.URL, map[string]any{
		"jsonrpc": "2.0",
		"id":      2,
		"method":  "tools/list",
	})

	toolsRaw, ok := toolsResp.Result["tools"].([]any)
	if !ok {
		t.Fatalf("tools list payload missing tools: %#v", toolsResp.Result)
	}
	toolNames := make([]string, 0, len(toolsRaw))
	for _, toolRaw := range toolsRaw {
		toolMap, ok := toolRaw.(map[string]any)
		if !ok {
			continue
		}
		name, _ := toolMap["name"].(string)
		toolNames = append(toolNames, name)
	}
	for _, required := range []string{
		"sysla.list_todos",
		"sysla.add_todo",
		"sysla.toggle_todo",
		"sysla.rename_todo",
		"sysla.remove_todo",
		"sysla.clear_completed",
	} {
		if !slices.Contains(toolNames, required) {
			t.Fatalf("tool list missing %s: %#v", required, toolNames)
		}
	}
}

// TestListTodosToolAppliesFilter verifies behavior for the covered scenario.
func TestListTodosToolAppliesFilter(t *testing.T) {
	server := newTestServer(t, fixtureService())
	_, resp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "sysla.list_todos", map[string]any{
		"filter": "active",
	}))

	text := toolResultText(t, resp.Result)
	var decoded listResult
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		t.Fatalf("decode tool result: %v", err)
	}
	if decoded.Filter != domain.FilterActive {
		t.Fatalf("filter = %q", decoded.Filter)
	}
	if len(decoded.Todos) != 1 || decoded.Todos[0].Title != "Buy milk" {
		t.Fatalf("unexpected todos %+v", decoded.Todos)
	}
	if decoded.Total != 2 || decoded.Active != 1 || decoded.Completed != 1 {
		t.Fatalf("unexpected counts %+v", decoded)
	}
}

// TestAddTodoToolForwardsTitle verifies behavior for the covered scenario.
func TestAddTodoToolForwardsTitle(t *testing.T) {
	todos := fixtureService()
	server := newTestServer(t, todos)
	_, resp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "sysla.add_todo", map[string]any{
		"title": "Buy milk",
	}))

	if todos.lastTitle != "Buy milk" {
		t.Fatalf("forwarded title = %q", todos.lastTitle)
	}
	text := toolResultText(t, resp.Result)
	var snap app.Snapshot
	if err := json.Unmarshal([]byte(text), &snap); err != nil {
		t.Fatalf("decode tool result: %v", err)
	}
	if len(snap.Todos) != 2 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

// TestAddTodoToolMapsInvalidTitle verifies behavior for the covered scenario.
func TestAddTodoToolMapsInvalidTitle(t *testing.T) {
	todos := fixtureService()
	todos.addErr = domain.ErrInvalidTitle
	server := newTestServer(t, todos)
	_, resp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "sysla.add_todo", map[string]any{
		"title": "   ",
	}))

	text := toolResultText(t, resp.Result)
	if !strings.HasPrefix(text, "invalid_request:") {
		t.Fatalf("unexpected error text %q", text)
	}
}

// TestToggleTodoToolMapsNotFound verifies behavior for the covered scenario.
func TestToggleTodoToolMapsNotFound(t *testing.T) {
	todos := fixtureService()
	todos.toggleErr = errors.Join(app.ErrNotFound)
	server := newTestServer(t, todos)
	_, resp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "sysla.toggle_todo", map[string]any{
		"id": 404,
	}))

	if todos.lastID != 404 {
		t.Fatalf("forwarded id = %d", todos.lastID)
	}
	text := toolResultText(t, resp.Result)
	if !strings.HasPrefix(text, "not_found:") {
		t.Fatalf("unexpected error text %q", text)
	}
}

// TestRenameTodoToolForwardsTitle verifies behavior for the covered scenario.
func TestRenameTodoToolForwardsTitle(t *testing.T) {
	todos := fixtureService()
	server := newTestServer(t, todos)
	_, _ = postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "sysla.rename_todo", map[string]any{
		"id":    1,
		"title": "New title",
	}))

	if todos.lastID != 1 {
		t.Fatalf("forwarded id = %d", todos.lastID)
	}
	if todos.lastTitle != "New title" {
		t.Fatalf("forwarded title = %q", todos.lastTitle)
	}
}

// TestRenameTodoToolMapsInvalidTitle verifies behavior for the covered scenario.
func TestRenameTodoToolMapsInvalidTitle(t *testing.T) {
	todos := fixtureService()
	todos.renameErr = domain.ErrInvalidTitle
	server := newTestServer(t, todos)
	_, resp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "sysla.rename_todo", map[string]any{
		"id":    1,
		"title": "   ",
	}))

	text := toolResultText(t, resp.Result)
	if !strings.HasPrefix(text, "invalid_request:") {
		t.Fatalf("unexpected error text %q", text)
	}
}

// TestClearCompletedToolInvokesService verifies behavior for the covered scenario.
func TestClearCompletedToolInvokesService(t *testing.T) {
	todos := fixtureService()
	server := newTestServer(t, todos)
	_, _ = postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "sysla.clear_completed", map[string]any{}))

	if todos.clearCalls != 1 {
		t.Fatalf("clear calls = %d, want 1", todos.clearCalls)
	}
}
