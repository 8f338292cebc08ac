package llm

import (
	"fmt"
	"strings"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderCerebras  = "cerebras"
	ProviderMock      = "mock"
)

var keyedProviders = map[string]func(apiKey string) domain.TemplateAdvisor{
	ProviderOpenAI:    func(k string) domain.TemplateAdvisor { return NewOpenAIClient(k) },
	ProviderAnthropic: func(k string) domain.TemplateAdvisor { return NewAnthropicClient(k) },
	ProviderGemini:    func(k string) domain.TemplateAdvisor { return NewGeminiClient(k) },
	ProviderCerebras:  func(k string) domain.TemplateAdvisor { return NewCerebrasClient(k) },
}

// NewClient returns the template advisor for provider. Every provider except mock needs an API key.
func NewClient(provider, apiKey string) (domain.TemplateAdvisor, error) {
	if provider == ProviderMock {
		return NewMockClient(), nil
	}
	build, ok := keyedProviders[provider]
	if !ok {
		return nil, fmt.Errorf("unknown LLM provider: %s (valid options: openai, anthropic, gemini, cerebras, mock)", provider)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%s_API_KEY is required for the %s provider", strings.ToUpper(provider), provider)
	}
	return build(apiKey), nil
}
