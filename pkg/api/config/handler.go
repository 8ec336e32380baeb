package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"agentic_finqa/pkg/core/agent"
)

// AgentInfo describes one configured agent role (router, analyzer,
// synthesizer, sql_writer, narrator, direct) and the provider serving it.
type AgentInfo struct {
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	Model       string `json:"model,omitempty"`
	Description string `json:"description,omitempty"`
}

type Response struct {
	ActiveProvider string      `json:"active_provider"`
	Available      []string    `json:"available"`
	Agents         []AgentInfo `json:"agents"`
}

type SwitchRequest struct {
	Provider string `json:"provider"`
}

// Handler holds dependencies for config endpoints
type Handler struct {
	AgentMgr *agent.Manager
}

// NewHandler creates a new config handler
func NewHandler(agentMgr *agent.Manager) *Handler {
	return &Handler{
		AgentMgr: agentMgr,
	}
}

func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	resp := Response{
		ActiveProvider: h.AgentMgr.GetActiveProvider(),
		Available:      h.AgentMgr.ProviderNames(),
		Agents:         h.agentInfos(),
	}
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) HandleSwitch(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req SwitchRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err = h.AgentMgr.SetGlobalProvider(req.Provider)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fmt.Fprintf(w, "Success: Switched to %s", req.Provider)
}

// agentInfos flattens the agent config map into a stable, sorted list.
// Agents without an explicit provider inherit the active one.
func (h *Handler) agentInfos() []AgentInfo {
	configs := h.AgentMgr.AgentConfigs()
	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	infos := make([]AgentInfo, 0, len(names))
	for _, name := range names {
		cfg := configs[name]
		provider := cfg.Provider
		if provider == "" {
			provider = h.AgentMgr.GetActiveProvider()
		}
		infos = append(infos, AgentInfo{
			Name:        name,
			Provider:    provider,
			Model:       cfg.Model,
			Description: cfg.Description,
		})
	}
	return infos
}
