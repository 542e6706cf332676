package usecase

import (
	"fmt"
	"math"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// ReportEntry is one (question, answer, score, feedback, corrected
// answer) tuple for the report renderer.
type ReportEntry struct {
	QuestionID      int    `json:"question_id"`
	Question        string `json:"question"`
	Answer          string `json:"answer"`
	Score           int    `json:"score"`
	Feedback        string `json:"feedback"`
	CorrectedAnswer string `json:"corrected_answer"`
}

// Report aggregates a finished (or in-progress) interview for rendering.
type Report struct {
	SessionID         string        `json:"session_id"`
	Source            domain.Source `json:"source"`
	AverageScore      float64       `json:"average_score"`
	TotalQuestions    int           `json:"total_questions"`
	QuestionsAnswered int           `json:"questions_answered"`
	Entries           []ReportEntry `json:"entries"`
}

// ReportService assembles report data from the durable answer log. The
// rendering itself is an external collaborator.
type ReportService struct {
	Sessions *SessionService
	Answers  domain.AnswerRepository
}

// NewReportService constructs a ReportService.
func NewReportService(s *SessionService, a domain.AnswerRepository) ReportService {
	return ReportService{Sessions: s, Answers: a}
}

// Build joins the recorded answers for a session into ordered entries
// with the rounded average score.
func (r ReportService) Build(ctx domain.Context, sessionID string) (Report, error) {
	sess, err := r.Sessions.Snapshot(ctx, sessionID)
	if err != nil {
		return Report{}, err
	}
	records, err := r.Answers.ListBySession(ctx, sessionID)
	if err != nil {
		return Report{}, fmt.Errorf("op=report.build: %w", err)
	}

	entries := make([]ReportEntry, 0, len(records))
	sum := 0
	for _, rec := range records {
		entries = append(entries, ReportEntry{
			QuestionID:      rec.QuestionID,
			Question:        rec.QuestionText,
			Answer:          rec.AnswerText,
			Score:           rec.Evaluation.OverallScore,
			Feedback:        rec.Evaluation.Feedback,
			CorrectedAnswer: rec.Evaluation.CorrectedAnswer,
		})
		sum += rec.Evaluation.OverallScore
	}
	avg := 0.0
	if len(records) > 0 {
		avg = math.Round(float64(sum)/float64(len(records))*100) / 100
	}
	return Report{
		SessionID:         sessionID,
		Source:            sess.Source,
		AverageScore:      avg,
		TotalQuestions:    len(sess.Questions),
		QuestionsAnswered: len(entries),
		Entries:           entries,
	}, nil
}
