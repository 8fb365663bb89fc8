package ai

import (
	"sort"

	"github.com/campuspulse/eventstack/config"
)

type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// BackendDescriptor is the static configuration of one classification
// backend. RPM is the soft pacing cap, RPD the hard daily cap, and
// lower priority ranks are tried first.
type BackendDescriptor struct {
	ID       string
	Provider Provider
	Model    string
	RPM      int
	RPD      int
	Priority int
}

// DefaultBackends returns the fallback chain: three Gemini tiers, plus
// an OpenAI vision model when a key is configured.
func DefaultBackends(geminiConfig *config.GeminiConfig, openAIConfig *config.OpenAIConfig) []BackendDescriptor {
	backends := []BackendDescriptor{
		{ID: "gemini-2.5-flash", Provider: ProviderGemini, Model: "gemini-2.5-flash", RPM: 5, RPD: 1400, Priority: 1},
		{ID: "gemini-2.5-flash-lite", Provider: ProviderGemini, Model: "gemini-2.5-flash-lite", RPM: 10, RPD: 1400, Priority: 2},
		{ID: "gemini-1.5-flash", Provider: ProviderGemini, Model: "gemini-1.5-flash", RPM: 10, RPD: 1400, Priority: 3},
	}

	if openAIConfig != nil && openAIConfig.ApiKey != "" {
		backends = append(backends, BackendDescriptor{
			ID:       openAIConfig.Model,
			Provider: ProviderOpenAI,
			Model:    openAIConfig.Model,
			RPM:      10,
			RPD:      1400,
			Priority: 4,
		})
	}

	return backends
}

// SortByPriority orders backends ascending by priority rank.
func SortByPriority(backends []BackendDescriptor) []BackendDescriptor {
	sorted := make([]BackendDescriptor, len(backends))
	copy(sorted, backends)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}
