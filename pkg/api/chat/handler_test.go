package chat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agentic_finqa/pkg/core/agent"
	"agentic_finqa/pkg/core/chat"
)

func newTestHandler() *Handler {
	mgr := agent.NewManager(agent.Config{ActiveProvider: "mock"})
	engine := chat.NewEngine(mgr, &chat.MockFinancialData{}, &chat.MockWebSearch{}, nil)
	return NewHandler(chat.NewSessionManager(engine, nil))
}

func TestHandleChatRoundTrip(t *testing.T) {
	h := newTestHandler()

	body := strings.NewReader(`{"message": "재무제표가 뭐야?"}`)
	req := httptest.NewRequest("POST", "/api/chat", body)
	rec := httptest.NewRecorder()
	h.HandleChat(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("Expected a session id")
	}
	if resp.Answer == "" {
		t.Error("Expected an answer")
	}
	if resp.Route != "no_retrieval" {
		t.Errorf("Mock provider should route to no_retrieval, got %s", resp.Route)
	}

	// History shows the full exchange.
	histReq := httptest.NewRequest("GET", "/api/chat/history?session_id="+resp.SessionID, nil)
	histRec := httptest.NewRecorder()
	h.HandleHistory(histRec, histReq)

	if histRec.Code != http.StatusOK {
		t.Fatalf("Expected 200 from history, got %d", histRec.Code)
	}
	var hist HistoryResponse
	if err := json.Unmarshal(histRec.Body.Bytes(), &hist); err != nil {
		t.Fatalf("Failed to decode history: %v", err)
	}
	if len(hist.Messages) != 2 {
		t.Errorf("Expected 2 messages, got %d", len(hist.Messages))
	}
}

func TestHandleChatValidation(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message": ""}`))
	rec := httptest.NewRecorder()
	h.HandleChat(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty message, got %d", rec.Code)
	}

	req = httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{not json`))
	rec = httptest.NewRecorder()
	h.HandleChat(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/chat", nil)
	rec = httptest.NewRecorder()
	h.HandleChat(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET, got %d", rec.Code)
	}

	req = httptest.NewRequest("OPTIONS", "/api/chat", nil)
	rec = httptest.NewRecorder()
	h.HandleChat(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for preflight, got %d", rec.Code)
	}
}

func TestHandleHistoryValidation(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest("GET", "/api/chat/history", nil)
	rec := httptest.NewRecorder()
	h.HandleHistory(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without session_id, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/chat/history?session_id=unknown", nil)
	rec = httptest.NewRecorder()
	h.HandleHistory(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", rec.Code)
	}
}
