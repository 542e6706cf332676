package usecase

import (
	"fmt"
	"log/slog"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/ai"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/observability"
	"github.com/fairyhunter13/ai-mock-interviewer/pkg/textx"
)

// FollowUpService generates one contextual follow-up question from the
// candidate's most recent answer. It never fails outward; any reasoning
// failure yields the fixed fallback question.
type FollowUpService struct {
	AI    domain.AIClient
	Model string
}

// NewFollowUpService constructs a FollowUpService.
func NewFollowUpService(c domain.AIClient, model string) FollowUpService {
	return FollowUpService{AI: c, Model: model}
}

const followUpContextLimit = 1000

const followUpPromptFormat = `You are an intelligent technical interviewer.

Context:
- Candidate Resume Summary: %s...
- Candidate's Last Answer: "%s"

Task:
Generate ONE follow-up interview question (JSON) to dig deeper into what the candidate just said.
- If they mentioned a Project, ask about architectural decisions or challenges in THAT project.
- If they mentioned a specific Tech Stack (e.g., React, Python), ask a conceptual question about it.
- If their answer was vague, ask them to clarify specific examples.

Return STRICT JSON:
{
    "question": "The actual question string...",
    "difficulty": "Medium",
    "type": "Follow-up",
    "category": "Deep Dive"
}`

type followUpPayload struct {
	Question   string `json:"question" validate:"required"`
	Difficulty string `json:"difficulty"`
	Type       string `json:"type"`
	Category   string `json:"category"`
}

// Generate returns the follow-up question without an id; insertion into
// the session assigns it.
func (s FollowUpService) Generate(ctx domain.Context, answerText, profileContext string) domain.Question {
	prompt := fmt.Sprintf(followUpPromptFormat, textx.Truncate(profileContext, followUpContextLimit), answerText)
	raw, err := s.AI.ChatJSON(ctx, s.Model, "", prompt)
	if err == nil {
		var p followUpPayload
		derr := ai.DecodeObject(raw, &p)
		if derr == nil {
			return domain.Question{
				Question:   p.Question,
				Difficulty: defaultStr(p.Difficulty, domain.DifficultyMedium),
				Type:       defaultStr(p.Type, domain.TypeFollowUp),
				Category:   defaultStr(p.Category, "Deep Dive"),
			}
		}
		err = derr
	}

	slog.Warn("follow-up generation failed, using fallback question", slog.Any("error", err))
	observability.FallbacksTotal.WithLabelValues("followup").Inc()
	return domain.Question{
		Question:   "Can you elaborate more on the technical challenges you faced in your recent projects?",
		Difficulty: domain.DifficultyMedium,
		Type:       domain.TypeGeneral,
		Category:   "Follow-up",
	}
}
