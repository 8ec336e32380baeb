package chat

import (
	"encoding/json"
	"net/http"
	"strings"

	"agentic_finqa/pkg/core/chat"
)

type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	SessionID  string `json:"session_id"`
	Answer     string `json:"answer"`
	Route      string `json:"route"`
	Iterations int    `json:"iterations"`
}

type HistoryResponse struct {
	SessionID string         `json:"session_id"`
	Messages  []chat.Message `json:"messages"`
}

// Handler holds dependencies for chat endpoints
type Handler struct {
	sessions *chat.SessionManager
}

// NewHandler creates a new chat handler
func NewHandler(sessions *chat.SessionManager) *Handler {
	return &Handler{sessions: sessions}
}

// HandleChat runs one conversation turn. An empty session_id starts a new
// conversation and the response carries the generated id.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	result, err := h.sessions.HandleTurn(r.Context(), req.SessionID, req.Message)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	json.NewEncoder(w).Encode(ChatResponse{
		SessionID:  result.SessionID,
		Answer:     result.Answer,
		Route:      string(result.Route),
		Iterations: result.Iterations,
	})
}

// HandleHistory returns the message log of a session.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	messages, ok := h.sessions.History(r.Context(), sessionID)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(HistoryResponse{
		SessionID: sessionID,
		Messages:  messages,
	})
}
