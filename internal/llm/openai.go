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
	openAIChatURL = "https://api.openai.com/v1/chat/completions"
	chatModel     = "gpt-4o-mini"

	recommendTemperature = 0.2
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// chatClient speaks the OpenAI chat completions format, which several providers share.
type chatClient struct {
	provider   string
	apiKey     string
	url        string
	model      string
	httpClient *http.Client
}

func (c *chatClient) complete(ctx context.Context, messages []chatMessage) (string, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.apiKey)

	var result chatResponse
	err := postJSON(ctx, c.httpClient, c.provider, c.url, header, chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: recommendTemperature,
	}, &result)
	if err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("%s API error: %s", c.provider, result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", errors.New(c.provider + " API returned no choices")
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

func (c *chatClient) RecommendTemplate(ctx context.Context, conversation []domain.Message) (*domain.TemplateRecommendation, error) {
	reply, err := c.complete(ctx, []chatMessage{{Role: "user", Content: buildRecommendPrompt(conversation)}})
	if err != nil {
		return nil, fmt.Errorf("recommend template: %w", err)
	}
	return parseRecommendation(reply)
}

type OpenAIClient struct {
	chatClient
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{chatClient{
		provider:   ProviderOpenAI,
		apiKey:     apiKey,
		url:        openAIChatURL,
		model:      chatModel,
		httpClient: newHTTPClient(),
	}}
}
