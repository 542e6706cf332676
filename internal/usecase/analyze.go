package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/ai"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/observability"
	"github.com/fairyhunter13/ai-mock-interviewer/pkg/textx"
)

// AnalyzeService scores a candidate answer against a question and
// optional resume/JD context. Evaluation never fails outward: empty
// answers short-circuit, and any reasoning failure degrades to the
// deterministic word-count heuristic.
type AnalyzeService struct {
	AI    domain.AIClient
	Model string
}

// NewAnalyzeService constructs an AnalyzeService.
func NewAnalyzeService(c domain.AIClient, model string) AnalyzeService {
	return AnalyzeService{AI: c, Model: model}
}

// Transcription placeholders that count as no answer.
var answerPlaceholders = []string{
	"Transcribing...",
	"Your speech will appear here automatically...",
}

const (
	// shortAnswerWords gates the safety clamp: an answer this short can
	// never keep a high score, which guards against the service scoring
	// its own suggested answer.
	shortAnswerWords      = 5
	shortAnswerScoreCeil  = 40
	shortAnswerForced     = 10
	fallbackScoreFloor    = 40
	fallbackScoreCeil     = 85
	fallbackWordsPerPoint = 2
)

const scoringPromptFormat = `You are an expert interview coach and evaluator. Your task is to provide high-quality, personalized feedback to a candidate.

Context (Resume/Job Description):
%s

Question: "%s"
Candidate's Answer: "%s"

Instructions:
1. **Analyze strictly based on the 'Candidate's Answer'**: Do NOT score based on the candidate's potential or resume. Score ONLY what they actually said.
   - If the answer is "hello", "I don't know", or very short/irrelevant, the score MUST be low (0-30).
   - Only give high scores for complete, relevant answers that address the question.

2. **Corrected Answer**:
   - If the candidate's answer is good, polish it.
   - If the candidate's answer is poor or missing (e.g. just "hello"), generate a **FULL MODEL ANSWER** based on their Resume/Context.
   - Start the corrected answer with "Suggested Answer:" if you are providing a model answer because theirs was poor.

3. **Feedback**:
   - Be honest. If they just said "hello", tell them they need to actually answer the question.
   - Critique the content, delivery (implied by text), and structure.

4. **Scoring**: Rate the **Candidate's Answer** on a scale of 0-100.
   - CRITICAL: If the candidate's answer is short (e.g. "hello") or irrelevant, the score MUST be < 30.
   - Do NOT score your own "Suggested Answer".

5. **Keywords**: Extract 2-3 key concepts from the *Suggested Answer* if the user's answer was poor.

Return VALID JSON ONLY.

Format:
{
  "corrected_answer": "Suggested Answer: ...",
  "grammar_score": 0,
  "relevance_score": 0,
  "clarity_score": 0,
  "overall_score": 0,
  "feedback": "Feedback...",
  "keywords": ["key1", "key2"]
}`

type evaluationPayload struct {
	CorrectedAnswer string   `json:"corrected_answer"`
	GrammarScore    int      `json:"grammar_score" validate:"min=0,max=100"`
	RelevanceScore  int      `json:"relevance_score" validate:"min=0,max=100"`
	ClarityScore    int      `json:"clarity_score" validate:"min=0,max=100"`
	OverallScore    int      `json:"overall_score" validate:"min=0,max=100"`
	Feedback        string   `json:"feedback" validate:"required"`
	Keywords        []string `json:"keywords"`
}

// Analyze evaluates one answer. The returned Evaluation is always
// usable; degraded results carry the offline-mode marker.
func (s AnalyzeService) Analyze(ctx domain.Context, question, answer, contextText string) domain.Evaluation {
	if isNoAnswer(answer) {
		return domain.Evaluation{
			CorrectedAnswer: "No answer provided.",
			Feedback:        "Please record your answer before analyzing.",
			Keywords:        []string{},
		}
	}

	eval, err := s.score(ctx, question, answer, contextText)
	if err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) {
			slog.Warn("answer analysis hit provider quota", slog.Any("error", err))
		} else {
			slog.Warn("answer analysis failed", slog.Any("error", err))
		}
		eval = fallbackEvaluation(answer)
	}
	observability.AnswerScoreHistogram.Observe(float64(eval.OverallScore))
	return eval
}

func (s AnalyzeService) score(ctx domain.Context, question, answer, contextText string) (domain.Evaluation, error) {
	prompt := fmt.Sprintf(scoringPromptFormat, contextText, question, answer)
	raw, err := s.AI.ChatJSON(ctx, s.Model, "", prompt)
	if err != nil {
		return domain.Evaluation{}, err
	}
	var p evaluationPayload
	if err := ai.DecodeObject(raw, &p); err != nil {
		return domain.Evaluation{}, err
	}

	// Safety clamp: the model must not score its own suggested answer.
	if textx.WordCount(answer) < shortAnswerWords && p.OverallScore > shortAnswerScoreCeil {
		p.OverallScore = shortAnswerForced
		if !strings.Contains(strings.ToLower(p.Feedback), "too short") {
			p.Feedback = "Your answer was too short. " + p.Feedback
		}
	}

	return domain.Evaluation{
		CorrectedAnswer: p.CorrectedAnswer,
		GrammarScore:    p.GrammarScore,
		RelevanceScore:  p.RelevanceScore,
		ClarityScore:    p.ClarityScore,
		OverallScore:    p.OverallScore,
		Feedback:        p.Feedback,
		Keywords:        p.Keywords,
	}, nil
}

// fallbackEvaluation is the deterministic offline-mode heuristic:
// clamp(word_count*2, 40, 85).
func fallbackEvaluation(answer string) domain.Evaluation {
	wc := textx.WordCount(answer)
	score := wc * fallbackWordsPerPoint
	if score < fallbackScoreFloor {
		score = fallbackScoreFloor
	}
	if score > fallbackScoreCeil {
		score = fallbackScoreCeil
	}
	observability.FallbacksTotal.WithLabelValues("analyze").Inc()
	return domain.Evaluation{
		CorrectedAnswer: "Analysis unavailable (Offline Mode)",
		OverallScore:    score,
		Feedback:        fmt.Sprintf("API quota/error (Offline Mode). Your answer was recorded (%d words). To get real AI analysis, check API credits.", wc),
		Keywords:        []string{"Offline"},
	}
}

func isNoAnswer(answer string) bool {
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return true
	}
	for _, ph := range answerPlaceholders {
		if trimmed == ph {
			return true
		}
	}
	return false
}
