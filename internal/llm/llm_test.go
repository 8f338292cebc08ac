package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		provider string
		apiKey   string
		wantErr  bool
	}{
		{ProviderOpenAI, "sk-test", false},
		{ProviderOpenAI, "", true},
		{ProviderAnthropic, "key", false},
		{ProviderGemini, "", true},
		{ProviderCerebras, "key", false},
		{ProviderMock, "", false},
		{"bogus", "key", true},
	}
	for _, tt := range tests {
		t.Run(tt.provider+"/"+tt.apiKey, func(t *testing.T) {
			c, err := NewClient(tt.provider, tt.apiKey)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestParseRecommendation(t *testing.T) {
	rec, err := parseRecommendation("```json\n{\"template_id\":\"retail\",\"reason\":\"sells shoes\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, domain.TemplateRetail, rec.TemplateID)
	assert.Equal(t, "sells shoes", rec.Reason)

	rec, err = parseRecommendation(`{"template_id":"spaceship","reason":"?"}`)
	require.NoError(t, err)
	assert.Equal(t, domain.TemplateCleanSlate, rec.TemplateID)

	_, err = parseRecommendation("I think retail")
	assert.Error(t, err)
}

func TestBuildRecommendPrompt_ListsCatalog(t *testing.T) {
	prompt := buildRecommendPrompt([]domain.Message{{Role: "user", Content: "I run a bakery"}})
	for _, tmpl := range domain.Templates() {
		assert.Contains(t, prompt, string(tmpl.ID))
	}
	assert.Contains(t, prompt, "user: I run a bakery")
}

func TestOpenAIClient_RecommendTemplate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, chatModel, req.Model)
		if assert.Len(t, req.Messages, 1) {
			assert.True(t, strings.Contains(req.Messages[0].Content, "plumbing"))
		}

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"template_id\":\"tradecraft\",\"reason\":\"trades\"}"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test")
	c.url = srv.URL

	rec, err := c.RecommendTemplate(context.Background(), []domain.Message{{Role: "user", Content: "We do plumbing repairs"}})
	require.NoError(t, err)
	assert.Equal(t, domain.TemplateTradecraft, rec.TemplateID)
}

func TestOpenAIClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test")
	c.url = srv.URL

	_, err := c.RecommendTemplate(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ProviderOpenAI, se.Provider)
	assert.Equal(t, http.StatusTooManyRequests, se.Code)
}

func TestCerebrasClient_UsesChatFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer cb-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, cerebrasModel, req.Model)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"template_id\":\"retail\",\"reason\":\"boutique\"}"}}]}`))
	}))
	defer srv.Close()

	c := NewCerebrasClient("cb-key")
	c.url = srv.URL

	rec, err := c.RecommendTemplate(context.Background(), []domain.Message{{Role: "user", Content: "clothing boutique"}})
	require.NoError(t, err)
	assert.Equal(t, domain.TemplateRetail, rec.TemplateID)
}

func TestChatClient_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("sk-test")
	c.url = srv.URL

	_, err := c.RecommendTemplate(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestPostJSON_TruncatesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(strings.Repeat("x", 4*maxErrorBody)))
	}))
	defer srv.Close()

	var out map[string]any
	err := postJSON(context.Background(), srv.Client(), "test", srv.URL, nil, map[string]string{"a": "b"}, &out)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Code)
	assert.Len(t, se.Body, maxErrorBody)
}

func TestAnthropicClient_RecommendTemplate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{\"template_id\":\"expert\",\"reason\":\"law firm\"}"}]}`))
	}))
	defer srv.Close()

	c := NewAnthropicClient("key")
	c.url = srv.URL

	rec, err := c.RecommendTemplate(context.Background(), []domain.Message{{Role: "user", Content: "law firm"}})
	require.NoError(t, err)
	assert.Equal(t, domain.TemplateExpert, rec.TemplateID)
}

func TestGeminiClient_RecommendTemplate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"template_id\":\"service\",\"reason\":\"salon\"}"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("key")
	c.url = srv.URL

	rec, err := c.RecommendTemplate(context.Background(), []domain.Message{{Role: "user", Content: "hair salon"}})
	require.NoError(t, err)
	assert.Equal(t, domain.TemplateService, rec.TemplateID)
}

func TestMockClient(t *testing.T) {
	m := NewMockClient()
	m.RecommendResponse = &domain.TemplateRecommendation{TemplateID: domain.TemplateRetail}

	rec, err := m.RecommendTemplate(context.Background(), []domain.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, domain.TemplateRetail, rec.TemplateID)
	assert.Len(t, m.RecommendCalls, 1)

	m.Reset()
	assert.Empty(t, m.RecommendCalls)
}
