// Package agent selects which model backend serves which role, driven by
// config/models.yaml. Roles ("valuation", "enrichment_summary") can override
// the globally active provider.
package agent

import (
	"context"
	"fmt"

	"bolagsbron/pkg/core/llm"
)

type Config struct {
	ActiveProvider string                `yaml:"active_provider"`
	Agents         map[string]RoleConfig `yaml:"agents"`
}

type RoleConfig struct {
	Provider    string `yaml:"provider"` // optional override
	Model       string `yaml:"model"`    // optional model override
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
			"deepseek":  &llm.DeepSeekProvider{},
			"gemini":    &llm.GeminiProvider{},
			"anthropic": &llm.AnthropicProvider{},
		},
	}
}

// RegisterProvider adds or replaces a backend under the given name.
func (m *Manager) RegisterProvider(name string, p llm.Provider) {
	m.providers[name] = p
}

// GetProvider resolves the provider for a role: role override first, then the
// global active provider, then deepseek as the last resort.
func (m *Manager) GetProvider(role string) llm.Provider {
	if rc, ok := m.config.Agents[role]; ok && rc.Provider != "" {
		if p, ok := m.providers[rc.Provider]; ok {
			return p
		}
	}
	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}
	return m.providers["deepseek"]
}

// ExecutePrompt adapts the system prompt for the resolved provider and runs
// the completion. The caller owns the context deadline; there is no retry.
func (m *Manager) ExecutePrompt(ctx context.Context, role string, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	provider := m.GetProvider(role)

	if options == nil {
		options = map[string]interface{}{}
	}
	if rc, ok := m.config.Agents[role]; ok && rc.Model != "" {
		if _, set := options["model"]; !set {
			options["model"] = rc.Model
		}
	}

	adapted := provider.AdaptInstructions(systemPrompt)
	return provider.GenerateResponse(ctx, prompt, adapted, options)
}

func (m *Manager) SetGlobalProvider(name string) error {
	if _, ok := m.providers[name]; !ok {
		return fmt.Errorf("provider %s not found", name)
	}
	m.config.ActiveProvider = name
	return nil
}

func (m *Manager) GetActiveProvider() string {
	return m.config.ActiveProvider
}

// ProviderNames lists the registered backends, for the capability endpoint.
func (m *Manager) ProviderNames() []string {
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	return names
}
