package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/usecase"
)

func TestAnalyze_EmptyAnswerShortCircuits(t *testing.T) {
	t.Parallel()
	stub := &stubAI{err: errors.New("must not be called")}
	svc := usecase.NewAnalyzeService(stub, "m")

	eval := svc.Analyze(context.Background(), "Why Go?", "   ", "ctx")

	assert.Equal(t, 0, stub.calls)
	assert.Equal(t, "No answer provided.", eval.CorrectedAnswer)
	assert.Equal(t, "Please record your answer before analyzing.", eval.Feedback)
	assert.Zero(t, eval.OverallScore)
}

func TestAnalyze_PlaceholderCountsAsNoAnswer(t *testing.T) {
	t.Parallel()
	stub := &stubAI{err: errors.New("must not be called")}
	svc := usecase.NewAnalyzeService(stub, "m")

	eval := svc.Analyze(context.Background(), "q", "Transcribing...", "ctx")

	assert.Equal(t, 0, stub.calls)
	assert.Equal(t, "No answer provided.", eval.CorrectedAnswer)
}

func TestAnalyze_Success(t *testing.T) {
	t.Parallel()
	stub := &stubAI{response: `{
		"corrected_answer": "A polished answer.",
		"grammar_score": 80,
		"relevance_score": 85,
		"clarity_score": 82,
		"overall_score": 84,
		"feedback": "Well structured.",
		"keywords": ["concurrency", "channels"]
	}`}
	svc := usecase.NewAnalyzeService(stub, "m")

	eval := svc.Analyze(context.Background(), "Why Go?",
		"Go gives me lightweight concurrency with goroutines and channels out of the box.", "ctx")

	assert.Equal(t, 84, eval.OverallScore)
	assert.Equal(t, "A polished answer.", eval.CorrectedAnswer)
	assert.Equal(t, "Well structured.", eval.Feedback)
	assert.Equal(t, []string{"concurrency", "channels"}, eval.Keywords)
	assert.Equal(t, 1, stub.calls)
}

func TestAnalyze_ShortAnswerClamped(t *testing.T) {
	t.Parallel()
	stub := &stubAI{response: `{
		"corrected_answer": "Suggested Answer: a full model answer.",
		"grammar_score": 90,
		"relevance_score": 90,
		"clarity_score": 90,
		"overall_score": 90,
		"feedback": "Nice work.",
		"keywords": []
	}`}
	svc := usecase.NewAnalyzeService(stub, "m")

	eval := svc.Analyze(context.Background(), "q", "hi there", "ctx")

	assert.Equal(t, 10, eval.OverallScore)
	assert.Equal(t, "Your answer was too short. Nice work.", eval.Feedback)
}

func TestAnalyze_ShortAnswerClampKeepsExistingFeedback(t *testing.T) {
	t.Parallel()
	stub := &stubAI{response: `{
		"corrected_answer": "Suggested Answer: a full model answer.",
		"grammar_score": 50,
		"relevance_score": 50,
		"clarity_score": 50,
		"overall_score": 70,
		"feedback": "Way too short to judge.",
		"keywords": []
	}`}
	svc := usecase.NewAnalyzeService(stub, "m")

	eval := svc.Analyze(context.Background(), "q", "hello", "ctx")

	assert.Equal(t, 10, eval.OverallScore)
	assert.Equal(t, "Way too short to judge.", eval.Feedback)
}

func TestAnalyze_FallbackScoresByWordCount(t *testing.T) {
	t.Parallel()
	svc := usecase.NewAnalyzeService(&stubAI{err: domain.ErrServiceUnavailable}, "m")

	answer := strings.TrimSpace(strings.Repeat("word ", 20))
	eval := svc.Analyze(context.Background(), "q", answer, "ctx")

	assert.Equal(t, 40, eval.OverallScore)
	assert.Equal(t, "Analysis unavailable (Offline Mode)", eval.CorrectedAnswer)
	assert.Contains(t, eval.Feedback, "(Offline Mode)")
	assert.Contains(t, eval.Feedback, "20 words")
	assert.Equal(t, []string{"Offline"}, eval.Keywords)
}

func TestAnalyze_FallbackClampsToCeiling(t *testing.T) {
	t.Parallel()
	svc := usecase.NewAnalyzeService(&stubAI{err: domain.ErrQuotaExceeded}, "m")

	answer := strings.TrimSpace(strings.Repeat("word ", 60))
	eval := svc.Analyze(context.Background(), "q", answer, "ctx")

	assert.Equal(t, 85, eval.OverallScore)
}

func TestAnalyze_FallbackMidRange(t *testing.T) {
	t.Parallel()
	svc := usecase.NewAnalyzeService(&stubAI{err: errors.New("boom")}, "m")

	answer := strings.TrimSpace(strings.Repeat("word ", 30))
	eval := svc.Analyze(context.Background(), "q", answer, "ctx")

	assert.Equal(t, 60, eval.OverallScore)
}

func TestAnalyze_MalformedResponseFallsBack(t *testing.T) {
	t.Parallel()
	svc := usecase.NewAnalyzeService(&stubAI{response: "not json"}, "m")

	eval := svc.Analyze(context.Background(), "q", "a perfectly reasonable answer with enough words", "ctx")

	require.Equal(t, "Analysis unavailable (Offline Mode)", eval.CorrectedAnswer)
	assert.Equal(t, 40, eval.OverallScore)
}
