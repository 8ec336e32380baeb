package agent

import (
	"context"
	"fmt"
	"sort"

	"agentic_finqa/pkg/core/llm"
)

type Config struct {
	ActiveProvider string                 `yaml:"active_provider"`
	Agents         map[string]AgentConfig `yaml:"agents"`
}

type AgentConfig struct {
	Provider    string `yaml:"provider"` // Optional override
	Model       string `yaml:"model"`    // Optional model override
	Description string `yaml:"description"`
}

type Manager struct {
	config    Config
	providers map[string]llm.Provider
}

func NewManager(config Config) *Manager {
	return &Manager{
		config: config,
		providers: map[string]llm.Provider{
			"gemini":   &llm.GeminiProvider{},
			"deepseek": &llm.DeepSeekProvider{},
			"qwen":     &llm.QwenProvider{},
			"mock":     &llm.MockProvider{},
		},
	}
}

func (m *Manager) GetProvider(agentType string) llm.Provider {
	// 1. Check for agent-specific override
	if agentConfig, ok := m.config.Agents[agentType]; ok && agentConfig.Provider != "" {
		if p, ok := m.providers[agentConfig.Provider]; ok {
			return p
		}
	}

	// 2. Use global active provider
	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}

	// 3. Fallback
	return m.providers["gemini"]
}

// GetProviderByName retrieves a provider instance by its specific name (e.g. "deepseek", "gemini")
func (m *Manager) GetProviderByName(name string) llm.Provider {
	fmt.Printf("[DEBUG] Manager looking for provider: '%s'\n", name)
	if p, ok := m.providers[name]; ok {
		fmt.Printf("[DEBUG] Found provider: %T\n", p)
		return p
	}
	fmt.Printf("[DEBUG] Provider '%s' NOT FOUND in map keys: ", name)
	for k := range m.providers {
		fmt.Printf("%s, ", k)
	}
	fmt.Println()
	return nil
}

// ExecutePrompt resolves the provider for the agent type and runs one completion.
func (m *Manager) ExecutePrompt(ctx context.Context, agentType string, rawPrompt string, rawSystemPrompt string, options map[string]interface{}) (string, error) {
	provider := m.GetProvider(agentType)

	fmt.Printf("[DEBUG] ExecutePrompt: agentType=%s, activeProvider=%s, providerType=%T\n", agentType, m.config.ActiveProvider, provider)

	// Per-agent model pin from config, unless the caller already chose one.
	if agentConfig, ok := m.config.Agents[agentType]; ok && agentConfig.Model != "" {
		if options == nil {
			options = map[string]interface{}{}
		}
		if _, set := options["model"]; !set {
			options["model"] = agentConfig.Model
		}
	}

	return provider.GenerateResponse(ctx, rawPrompt, rawSystemPrompt, options)
}

func (m *Manager) SetGlobalProvider(newProvider string) error {
	if _, ok := m.providers[newProvider]; !ok {
		return fmt.Errorf("provider %s not found", newProvider)
	}
	m.config.ActiveProvider = newProvider
	fmt.Printf("Global provider set to: %s\n", newProvider)
	return nil
}

func (m *Manager) GetActiveProvider() string {
	return m.config.ActiveProvider
}

// ProviderNames lists the registered provider keys for the config API.
func (m *Manager) ProviderNames() []string {
	names := make([]string, 0, len(m.providers))
	for k := range m.providers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// AgentConfigs exposes the per-agent configuration for the config API.
func (m *Manager) AgentConfigs() map[string]AgentConfig {
	return m.config.Agents
}
