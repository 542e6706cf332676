// Package usecase contains the interview pipeline services: profile
// analysis, question generation, adaptive follow-ups, answer analysis,
// the session store and report aggregation.
package usecase

import (
	"fmt"
	"log/slog"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/ai"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/observability"
)

// ProfileService derives a structured profile from resume/JD text via
// the reasoning service. It never fails outward: any error degrades to
// an empty-valued profile.
type ProfileService struct {
	AI    domain.AIClient
	Model string
}

// NewProfileService constructs a ProfileService.
func NewProfileService(c domain.AIClient, model string) ProfileService {
	return ProfileService{AI: c, Model: model}
}

const profilePromptFormat = `Analyze the following resume or job description and return STRICT JSON only:
{
  "skills": [],
  "projects": [],
  "tools_and_technologies": [],
  "experience_level": "",
  "domains": [],
  "important_keywords": []
}
Content: %s`

// Analyze submits the document text and parses the structured profile
// out of the response.
func (s ProfileService) Analyze(ctx domain.Context, text string) domain.ProfileAnalysis {
	raw, err := s.AI.ChatJSON(ctx, s.Model, "", fmt.Sprintf(profilePromptFormat, text))
	if err != nil {
		slog.Warn("profile analysis failed, using empty profile", slog.Any("error", err))
		observability.FallbacksTotal.WithLabelValues("profile").Inc()
		return emptyProfile()
	}
	var out domain.ProfileAnalysis
	if err := ai.DecodeObject(raw, &out); err != nil {
		slog.Warn("profile analysis returned unusable JSON", slog.Any("error", err))
		observability.FallbacksTotal.WithLabelValues("profile").Inc()
		return emptyProfile()
	}
	return out
}

func emptyProfile() domain.ProfileAnalysis {
	return domain.ProfileAnalysis{
		Skills:               []string{},
		Projects:             []string{},
		ToolsAndTechnologies: []string{},
		ExperienceLevel:      "Unknown",
		Domains:              []string{},
		ImportantKeywords:    []string{},
	}
}
