package usecase

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/ai"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/observability"
	"github.com/fairyhunter13/ai-mock-interviewer/pkg/textx"
)

// QuestionService produces the ordered question list for a session.
// Generation never fails outward; the reasoning service degrades to the
// offline keyword path and the resume branch is fully deterministic.
type QuestionService struct {
	AI    domain.AIClient
	Model string
}

// NewQuestionService constructs a QuestionService.
func NewQuestionService(c domain.AIClient, model string) QuestionService {
	return QuestionService{AI: c, Model: model}
}

const (
	resumeTargetQuestions = 10
	maxQuestions          = 25
	jdPromptTextLimit     = 4000
	jdFallbackKeywordCap  = 5
)

// genericQuestions backfills the resume branch up to the target count.
var genericQuestions = []string{
	"Can you describe a time when you had to work under pressure to meet a tight deadline?",
	"How do you approach learning new technologies or programming languages?",
	"Can you explain a technical concept to someone who doesn't have a technical background?",
	"What development tools and IDEs are you most comfortable using, and why?",
	"How do you handle code reviews and feedback on your work?",
	"What version control systems have you worked with, and what's your experience with them?",
	"Can you describe your experience with testing and quality assurance processes?",
	"How do you stay updated with the latest industry trends and technologies?",
	"What's your approach to debugging complex issues in your code?",
	"Can you describe a time when you had to collaborate with a difficult team member and how you handled it?",
}

// jdFallbackKeywords is scanned against JD text when the reasoning
// service is unavailable.
var jdFallbackKeywords = []string{
	"Python", "Java", "React", "Angular", "Vue", "AWS", "Azure", "Docker", "Kubernetes", "SQL",
	"NoSQL", "Git", "CI/CD", "Machine Learning", "AI", "Data Science", "Spring", "Node.js",
	"JavaScript", "TypeScript", "C++", "C#", ".NET", "Go", "Rust", "Swift", "Kotlin", "Flutter",
}

// Generate branches on the document source. The returned ids are always
// exactly 1..N in presentation order.
func (s QuestionService) Generate(ctx domain.Context, text string, source domain.Source) []domain.Question {
	if source == domain.SourceResume {
		return s.generateResumeQuestions(text)
	}
	return s.generateJDQuestions(ctx, text)
}

// generateResumeQuestions blends fixed questions with skill, experience
// and project derived ones, then backfills from the generic pool until
// the target count is reached.
func (s QuestionService) generateResumeQuestions(text string) []domain.Question {
	signals := domain.ExtractSignals(text)

	var qs []domain.Question
	appendQ := func(question, difficulty, qtype, category string) {
		qs = append(qs, domain.Question{
			ID:         len(qs) + 1,
			Question:   question,
			Difficulty: difficulty,
			Type:       qtype,
			Category:   category,
		})
	}

	// 1. Self introduction.
	appendQ("Can you please introduce yourself and tell us about your professional background?",
		domain.DifficultyEasy, domain.TypeSelfIntroduction, "Basic")
	appendQ("What motivated you to pursue a career in this field, and what are your key strengths?",
		domain.DifficultyEasy, domain.TypeSelfIntroduction, "Background")

	// 2. Basic questions for the top two skills.
	for _, skill := range headSkills(signals.Skills, 0, 2) {
		appendQ(fmt.Sprintf("How would you rate your proficiency in %s and what projects have you used it in?", skill),
			domain.DifficultyEasy, domain.TypeTechnical, skill+" Basics")
	}

	// 3. Experience questions; the first experience also gets a
	// challenges follow-up.
	for i, exp := range signals.Experiences {
		if i >= 2 {
			break
		}
		appendQ(fmt.Sprintf("At %s as a %s, what were your key responsibilities and achievements?", exp.Company, exp.Title),
			domain.DifficultyMedium, domain.TypeExperience, "Work History")
		if i == 0 {
			appendQ(fmt.Sprintf("What was the most challenging project you worked on at %s and how did you handle it?", exp.Company),
				domain.DifficultyMedium, domain.TypeProblemSolving, "Work Challenges")
		}
	}

	// 4. Advanced questions from skills three and four.
	if len(signals.Skills) > 2 {
		for _, skill := range headSkills(signals.Skills, 2, 4) {
			appendQ(fmt.Sprintf("Can you explain a complex problem you solved using %s? What was your approach and what did you learn?", skill),
				domain.DifficultyHard, domain.TypeTechnical, "Advanced "+skill)
		}
	}

	// 5. One project question when there is room for it.
	if len(qs) < 8 && len(signals.Projects) > 0 {
		appendQ(fmt.Sprintf("Tell me about your project '%s'. What was your role, and what technologies did you use?", signals.Projects[0].Name),
			domain.DifficultyMedium, domain.TypeProject, "Projects")
	}

	// 6. Closing questions.
	appendQ("What technical skills are you currently working to improve, and how are you going about it?",
		domain.DifficultyEasy, domain.TypeCareerDevelopment, "Future Goals")
	appendQ("Where do you see your career in the next 3-5 years, and how does this position align with your goals?",
		domain.DifficultyMedium, domain.TypeCareerGoals, "Future Planning")

	// 7. Backfill from the generic pool.
	for _, generic := range genericQuestions {
		if len(qs) >= resumeTargetQuestions {
			break
		}
		appendQ(generic, domain.DifficultyMedium, domain.TypeGeneral, "Professional Development")
	}

	if len(qs) > maxQuestions {
		qs = qs[:maxQuestions]
	}
	slog.Info("generated resume questions", slog.Int("count", len(qs)),
		slog.Int("skills", len(signals.Skills)), slog.Int("experiences", len(signals.Experiences)), slog.Int("projects", len(signals.Projects)))
	return qs
}

const jdPromptFormat = `You are an expert technical recruiter constructing a rigorous interview.

Job Description:
%s

Task:
1. EXTRACT top 5 critical technical keywords/skills from the Job Description (e.g., 'React', 'AWS', 'System Design').
2. GENERATE 6 specific interview questions testing these exact skills.
   - The extracted keywords MUST be the focus of the questions.
   - Do NOT ask generic "soft skill" questions unless the JD emphasizes them.
   - Vary difficulty: Start with basic checks, move to scenario-based/hard problems.

Return STRICT JSON format:
{
    "extracted_keywords": ["Skill1", "Skill2", ...],
    "questions": [
        {
            "question": "Specific question testing a skill...",
            "difficulty": "Medium",
            "type": "Technical",
            "category": "Skill Name"
        }
    ]
}`

type jdGeneration struct {
	ExtractedKeywords []string `json:"extracted_keywords"`
	Questions         []struct {
		Question   string `json:"question" validate:"required"`
		Difficulty string `json:"difficulty"`
		Type       string `json:"type"`
		Category   string `json:"category"`
	} `json:"questions" validate:"required,min=1,dive"`
}

// generateJDQuestions asks the reasoning service for keyword-targeted
// questions, falling back to the curated keyword scan when the call or
// the parse fails.
func (s QuestionService) generateJDQuestions(ctx domain.Context, jdText string) []domain.Question {
	qs := []domain.Question{{
		ID:         1,
		Question:   "Can you please introduce yourself and tell us why you are interested in this specific role?",
		Difficulty: domain.DifficultyEasy,
		Type:       domain.TypeSelfIntroduction,
		Category:   "Basic",
	}}

	raw, err := s.AI.ChatJSON(ctx, s.Model, "", fmt.Sprintf(jdPromptFormat, textx.Truncate(jdText, jdPromptTextLimit)))
	if err == nil {
		var gen jdGeneration
		derr := ai.DecodeObject(raw, &gen)
		if derr == nil {
			slog.Info("extracted JD keywords", slog.Any("keywords", gen.ExtractedKeywords))
			for _, q := range gen.Questions {
				qs = append(qs, domain.Question{
					ID:         len(qs) + 1,
					Question:   q.Question,
					Difficulty: defaultStr(q.Difficulty, domain.DifficultyMedium),
					Type:       defaultStr(q.Type, domain.TypeGeneral),
					Category:   defaultStr(q.Category, "JD Requirement"),
				})
			}
			if len(qs) > maxQuestions {
				qs = qs[:maxQuestions]
			}
			return qs
		}
		err = fmt.Errorf("decode jd questions: %w", derr)
	}

	slog.Warn("jd question generation degraded to offline mode", slog.Any("error", err))
	observability.FallbacksTotal.WithLabelValues("jd_questions").Inc()
	return appendJDFallback(qs, jdText)
}

// appendJDFallback scans the curated keyword list; with zero matches it
// appends two fixed generic questions instead.
func appendJDFallback(qs []domain.Question, jdText string) []domain.Question {
	lower := strings.ToLower(jdText)
	var found []string
	for _, kw := range jdFallbackKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			found = append(found, kw)
		}
	}
	slog.Info("offline mode keyword scan", slog.Any("keywords", found))

	if len(found) == 0 {
		qs = append(qs, domain.Question{
			ID:         len(qs) + 1,
			Question:   "What specifically attracted you to the technical requirements of this position?",
			Difficulty: domain.DifficultyMedium,
			Type:       domain.TypeGeneral,
			Category:   "Fit",
		})
		qs = append(qs, domain.Question{
			ID:         len(qs) + 1,
			Question:   "Can you walk us through your most significant technical achievement relevant to this role?",
			Difficulty: domain.DifficultyHard,
			Type:       domain.TypeProject,
			Category:   "Experience",
		})
		return qs
	}
	for i, kw := range found {
		if i >= jdFallbackKeywordCap {
			break
		}
		qs = append(qs, domain.Question{
			ID:         len(qs) + 1,
			Question:   fmt.Sprintf("The job description mentions %s. Can you describe your experience with %s and a challenging problem you solved using it?", kw, kw),
			Difficulty: domain.DifficultyMedium,
			Type:       domain.TypeTechnical,
			Category:   kw + " Skill",
		})
	}
	return qs
}

func headSkills(skills []string, from, to int) []string {
	if from >= len(skills) {
		return nil
	}
	if to > len(skills) {
		to = len(skills)
	}
	return skills[from:to]
}

func defaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
