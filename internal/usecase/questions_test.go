package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/usecase"
)

type stubAI struct {
	response string
	err      error
	calls    int
	lastUser string
}

func (s *stubAI) ChatJSON(_ domain.Context, _ string, _ string, userPrompt string) (string, error) {
	s.calls++
	s.lastUser = userPrompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func assertContiguousIDs(t *testing.T, qs []domain.Question) {
	t.Helper()
	for i, q := range qs {
		assert.Equal(t, i+1, q.ID)
	}
}

func TestGenerate_Resume_RichDocument(t *testing.T) {
	t.Parallel()
	text := "Senior Software Engineer\nAcme Corp\nSkills: Python, Docker, Kubernetes, SQL\nProject: Chat App\nA realtime chat application built with websockets."
	svc := usecase.NewQuestionService(&stubAI{err: errors.New("must not be called")}, "m")

	qs := svc.Generate(context.Background(), text, domain.SourceResume)

	require.GreaterOrEqual(t, len(qs), 10)
	require.LessOrEqual(t, len(qs), 25)
	assertContiguousIDs(t, qs)
	assert.Equal(t, "Can you please introduce yourself and tell us about your professional background?", qs[0].Question)
	assert.Contains(t, qs[2].Question, "Python")
	assert.Contains(t, qs[4].Question, "Acme Corp")
}

func TestGenerate_Resume_NoSignalsBackfills(t *testing.T) {
	t.Parallel()
	svc := usecase.NewQuestionService(&stubAI{err: errors.New("must not be called")}, "m")

	qs := svc.Generate(context.Background(), "zzz", domain.SourceResume)

	require.Len(t, qs, 10)
	assertContiguousIDs(t, qs)
	// Two intros, two closers, six backfilled from the generic pool.
	assert.Equal(t, domain.TypeGeneral, qs[4].Type)
	assert.Equal(t, "Professional Development", qs[4].Category)
}

func TestGenerate_Resume_ProjectQuestion(t *testing.T) {
	t.Parallel()
	text := "Project: Chat App\nA realtime chat application built with websockets."
	svc := usecase.NewQuestionService(&stubAI{err: errors.New("must not be called")}, "m")

	qs := svc.Generate(context.Background(), text, domain.SourceResume)

	var found bool
	for _, q := range qs {
		if q.Type == domain.TypeProject {
			found = true
			assert.Contains(t, q.Question, "'Chat App'")
		}
	}
	assert.True(t, found)
}

func TestGenerate_JD_Success(t *testing.T) {
	t.Parallel()
	stub := &stubAI{response: "```json\n" + `{
		"extracted_keywords": ["React", "AWS"],
		"questions": [
			{"question": "Explain React reconciliation.", "difficulty": "Hard", "type": "Technical", "category": "React"},
			{"question": "How would you design an S3-backed pipeline?"}
		]
	}` + "\n```"}
	svc := usecase.NewQuestionService(stub, "m")

	qs := svc.Generate(context.Background(), "We need React and AWS engineers.", domain.SourceJobDescription)

	require.Len(t, qs, 3)
	assertContiguousIDs(t, qs)
	assert.Equal(t, domain.TypeSelfIntroduction, qs[0].Type)
	assert.Equal(t, "Explain React reconciliation.", qs[1].Question)
	assert.Equal(t, domain.DifficultyHard, qs[1].Difficulty)
	// Missing metadata gets defaults.
	assert.Equal(t, domain.DifficultyMedium, qs[2].Difficulty)
	assert.Equal(t, domain.TypeGeneral, qs[2].Type)
	assert.Equal(t, "JD Requirement", qs[2].Category)
	assert.Equal(t, 1, stub.calls)
}

func TestGenerate_JD_FallbackKeywordScan(t *testing.T) {
	t.Parallel()
	svc := usecase.NewQuestionService(&stubAI{err: errors.New("provider down")}, "m")

	qs := svc.Generate(context.Background(), "Python and AWS required.", domain.SourceJobDescription)

	require.Len(t, qs, 3)
	assertContiguousIDs(t, qs)
	assert.Equal(t, "The job description mentions Python. Can you describe your experience with Python and a challenging problem you solved using it?", qs[1].Question)
	assert.Equal(t, "Python Skill", qs[1].Category)
	assert.Equal(t, "AWS Skill", qs[2].Category)
	assert.Equal(t, domain.TypeTechnical, qs[1].Type)
}

func TestGenerate_JD_FallbackNoKeywords(t *testing.T) {
	t.Parallel()
	svc := usecase.NewQuestionService(&stubAI{err: errors.New("provider down")}, "m")

	qs := svc.Generate(context.Background(), "We're hiring somebody friendly.", domain.SourceJobDescription)

	require.Len(t, qs, 3)
	assertContiguousIDs(t, qs)
	assert.Equal(t, "What specifically attracted you to the technical requirements of this position?", qs[1].Question)
	assert.Equal(t, "Can you walk us through your most significant technical achievement relevant to this role?", qs[2].Question)
	assert.Equal(t, domain.DifficultyHard, qs[2].Difficulty)
}

func TestGenerate_JD_MalformedResponseFallsBack(t *testing.T) {
	t.Parallel()
	svc := usecase.NewQuestionService(&stubAI{response: "sorry, no JSON today"}, "m")

	qs := svc.Generate(context.Background(), "Looking for Docker experience.", domain.SourceJobDescription)

	require.Len(t, qs, 2)
	assert.Equal(t, "Docker Skill", qs[1].Category)
}
