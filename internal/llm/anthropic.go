package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicModel       = "claude-3-5-haiku-20241022"
	anthropicVersion     = "2023-06-01"
	anthropicMaxTokens   = 512
)

type AnthropicClient struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{
		apiKey:     apiKey,
		url:        anthropicMessagesURL,
		httpClient: newHTTPClient(),
	}
}

type anthropicRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *AnthropicClient) RecommendTemplate(ctx context.Context, conversation []domain.Message) (*domain.TemplateRecommendation, error) {
	header := http.Header{}
	header.Set("x-api-key", c.apiKey)
	header.Set("anthropic-version", anthropicVersion)

	var result anthropicResponse
	err := postJSON(ctx, c.httpClient, ProviderAnthropic, c.url, header, anthropicRequest{
		Model:     anthropicModel,
		MaxTokens: anthropicMaxTokens,
		Messages:  []chatMessage{{Role: "user", Content: buildRecommendPrompt(conversation)}},
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("recommend template: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("recommend template: anthropic API error: %s", result.Error.Message)
	}

	for _, block := range result.Content {
		if block.Type == "text" || block.Type == "" {
			return parseRecommendation(strings.TrimSpace(block.Text))
		}
	}
	return nil, errors.New("recommend template: anthropic API returned no text")
}
