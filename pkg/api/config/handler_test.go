package config

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agentic_finqa/pkg/core/agent"
)

func newTestHandler() *Handler {
	mgr := agent.NewManager(agent.Config{
		ActiveProvider: "mock",
		Agents: map[string]agent.AgentConfig{
			"router":     {Description: "classifies questions"},
			"sql_writer": {Provider: "gemini", Model: "gemini-2.0-flash-exp"},
		},
	})
	return NewHandler(mgr)
}

func TestHandleConfigListsAgents(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rec := httptest.NewRecorder()
	h.HandleConfig(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.ActiveProvider != "mock" {
		t.Errorf("Expected active provider mock, got %s", resp.ActiveProvider)
	}
	if len(resp.Agents) != 2 {
		t.Fatalf("Expected 2 agents, got %d", len(resp.Agents))
	}
	// Sorted by name: router before sql_writer.
	if resp.Agents[0].Name != "router" || resp.Agents[1].Name != "sql_writer" {
		t.Errorf("Expected sorted agent names, got %s, %s", resp.Agents[0].Name, resp.Agents[1].Name)
	}
	if resp.Agents[0].Provider != "mock" {
		t.Errorf("Expected router to inherit active provider, got %s", resp.Agents[0].Provider)
	}
	if resp.Agents[1].Provider != "gemini" {
		t.Errorf("Expected sql_writer provider override gemini, got %s", resp.Agents[1].Provider)
	}
}

func TestHandleSwitch(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/config/switch", strings.NewReader(`{"provider":"deepseek"}`))
	rec := httptest.NewRecorder()
	h.HandleSwitch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Switched to deepseek") {
		t.Errorf("Unexpected switch response: %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/config/switch", strings.NewReader(`{"provider":"nope"}`))
	rec = httptest.NewRecorder()
	h.HandleSwitch(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown provider, got %d", rec.Code)
	}
}
