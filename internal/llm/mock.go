package llm

import (
	"context"
	"sync"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
)

// MockClient is a configurable advisor for testing and local development.
// Set the response fields to control what RecommendTemplate returns.
type MockClient struct {
	mu sync.Mutex

	RecommendResponse *domain.TemplateRecommendation
	RecommendError    error

	// Call tracking for assertions
	RecommendCalls [][]domain.Message
}

func NewMockClient() *MockClient {
	return &MockClient{
		RecommendResponse: &domain.TemplateRecommendation{
			TemplateID: domain.TemplateCleanSlate,
			Reason:     "Mock recommendation",
		},
	}
}

func (c *MockClient) RecommendTemplate(ctx context.Context, conversation []domain.Message) (*domain.TemplateRecommendation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.RecommendCalls = append(c.RecommendCalls, conversation)
	if c.RecommendError != nil {
		return nil, c.RecommendError
	}
	rec := *c.RecommendResponse
	return &rec, nil
}

// Reset clears all call tracking.
func (c *MockClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.RecommendCalls = nil
}
