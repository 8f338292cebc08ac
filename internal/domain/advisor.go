package domain

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type TemplateRecommendation struct {
	TemplateID TemplateID `json:"template_id"`
	Reason     string     `json:"reason"`
}

// TemplateAdvisor suggests a catalog template from a chat with the user about their business.
type TemplateAdvisor interface {
	RecommendTemplate(ctx context.Context, conversation []Message) (*TemplateRecommendation, error)
}
