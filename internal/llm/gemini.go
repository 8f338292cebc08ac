package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

type GeminiClient struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey:     apiKey,
		url:        geminiBaseURL,
		httpClient: newHTTPClient(),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *GeminiClient) endpoint() string {
	return c.url + "?" + url.Values{"key": {c.apiKey}}.Encode()
}

func (c *GeminiClient) RecommendTemplate(ctx context.Context, conversation []domain.Message) (*domain.TemplateRecommendation, error) {
	var result geminiResponse
	err := postJSON(ctx, c.httpClient, ProviderGemini, c.endpoint(), nil, geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: buildRecommendPrompt(conversation)}}}},
	}, &result)
	if err != nil {
		return nil, fmt.Errorf("recommend template: %w", err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("recommend template: gemini API error: %s", result.Error.Message)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("recommend template: gemini API returned no content")
	}
	return parseRecommendation(strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text))
}
