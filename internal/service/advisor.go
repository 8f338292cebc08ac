package service

import (
	"context"
	"strings"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
	"go.uber.org/zap"
)

const maxAdvisorMessages = 50

// AdvisorService recommends a template from a chat transcript.
type AdvisorService struct {
	advisor domain.TemplateAdvisor
	logger  *zap.Logger
}

func NewAdvisorService(a domain.TemplateAdvisor, logger *zap.Logger) *AdvisorService {
	return &AdvisorService{advisor: a, logger: logger}
}

// Recommend returns the advisor's pick with its catalog entry. Advisor failures fall back to
// cleanslate so the chat flow can always continue.
func (s *AdvisorService) Recommend(ctx context.Context, conversation []domain.Message) (*domain.TemplateRecommendation, *domain.Template, error) {
	msgs := make([]domain.Message, 0, len(conversation))
	for _, m := range conversation {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		msgs = append(msgs, m)
	}
	if len(msgs) == 0 {
		return nil, nil, invalid("messages", "at least one non-empty message is required")
	}
	if len(msgs) > maxAdvisorMessages {
		msgs = msgs[len(msgs)-maxAdvisorMessages:]
	}

	rec, err := s.advisor.RecommendTemplate(ctx, msgs)
	if err != nil {
		s.logger.Warn("template advisor failed, using default template", zap.Error(err))
		rec = &domain.TemplateRecommendation{
			TemplateID: domain.TemplateCleanSlate,
			Reason:     "A clean, general-purpose layout that works for any business.",
		}
	}
	if !domain.ValidTemplateID(string(rec.TemplateID)) {
		rec.TemplateID = domain.TemplateCleanSlate
	}

	tmpl, _ := domain.LookupTemplate(rec.TemplateID)
	return rec, &tmpl, nil
}
