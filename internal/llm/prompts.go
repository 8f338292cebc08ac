package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Harshitk-cp/sitefleet/internal/domain"
)

const recommendPrompt = `You help small businesses choose a website template. Available templates:
%s
Read the conversation and pick the single best template for the business described.

Respond ONLY with a JSON object. No markdown, no explanation. Example:
{"template_id":"tradecraft","reason":"A plumbing business fits the trades layout."}

Conversation:
%s`

func catalogListing() string {
	var sb strings.Builder
	for _, t := range domain.Templates() {
		fmt.Fprintf(&sb, "- %s: %s\n", t.ID, t.Description)
	}
	return sb.String()
}

func transcript(conversation []domain.Message) string {
	var sb strings.Builder
	for _, msg := range conversation {
		sb.WriteString(msg.Role)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}

func buildRecommendPrompt(conversation []domain.Message) string {
	return fmt.Sprintf(recommendPrompt, catalogListing(), transcript(conversation))
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseRecommendation decodes a model reply. Unknown template ids fall back to cleanslate.
func parseRecommendation(raw string) (*domain.TemplateRecommendation, error) {
	var rec domain.TemplateRecommendation
	if err := json.Unmarshal([]byte(stripFences(raw)), &rec); err != nil {
		return nil, fmt.Errorf("unmarshal recommendation: %w", err)
	}
	if !domain.ValidTemplateID(string(rec.TemplateID)) {
		rec.TemplateID = domain.TemplateCleanSlate
	}
	return &rec, nil
}
