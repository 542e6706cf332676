package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oklog/ulid/v2"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// AnswerRepo persists evaluated answers.
type AnswerRepo struct{ DB *sqlx.DB }

// NewAnswerRepo constructs an AnswerRepo with the given database.
func NewAnswerRepo(db *sqlx.DB) *AnswerRepo { return &AnswerRepo{DB: db} }

type answerRow struct {
	ID              string    `db:"id"`
	InterviewID     string    `db:"interview_id"`
	QuestionID      int       `db:"question_id"`
	QuestionText    string    `db:"question_text"`
	AnswerText      string    `db:"answer_text"`
	AIScore         int       `db:"ai_score"`
	AIFeedback      string    `db:"ai_feedback"`
	AIKeywords      string    `db:"ai_keywords"`
	CorrectedAnswer string    `db:"corrected_answer"`
	CreatedAt       time.Time `db:"created_at"`
}

// Insert stores an answer record, generating a ulid when the id is empty.
func (r *AnswerRepo) Insert(ctx domain.Context, a domain.AnswerRecord) error {
	id := a.ID
	if id == "" {
		id = ulid.Make().String()
	}
	keywords, err := json.Marshal(a.Evaluation.Keywords)
	if err != nil {
		return fmt.Errorf("op=answer.insert: %w", err)
	}
	q := `INSERT INTO answers (id, interview_id, question_id, question_text, answer_text, ai_score, ai_feedback, ai_keywords, corrected_answer, created_at)
	      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.DB.ExecContext(ctx, q,
		id, a.SessionID, a.QuestionID, a.QuestionText, a.AnswerText,
		a.Evaluation.OverallScore, a.Evaluation.Feedback, string(keywords),
		a.Evaluation.CorrectedAnswer, a.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("op=answer.insert: %w", err)
	}
	return nil
}

// ListBySession returns the recorded answers for a session ordered by
// question id.
func (r *AnswerRepo) ListBySession(ctx domain.Context, sessionID string) ([]domain.AnswerRecord, error) {
	var rows []answerRow
	q := `SELECT id, interview_id, question_id, question_text, answer_text, ai_score, ai_feedback, ai_keywords, corrected_answer, created_at
	      FROM answers WHERE interview_id = ? ORDER BY question_id ASC`
	if err := r.DB.SelectContext(ctx, &rows, q, sessionID); err != nil {
		return nil, fmt.Errorf("op=answer.list: %w", err)
	}
	out := make([]domain.AnswerRecord, 0, len(rows))
	for _, row := range rows {
		var keywords []string
		if row.AIKeywords != "" {
			_ = json.Unmarshal([]byte(row.AIKeywords), &keywords)
		}
		out = append(out, domain.AnswerRecord{
			ID:           row.ID,
			SessionID:    row.InterviewID,
			QuestionID:   row.QuestionID,
			QuestionText: row.QuestionText,
			AnswerText:   row.AnswerText,
			Evaluation: domain.Evaluation{
				OverallScore:    row.AIScore,
				Feedback:        row.AIFeedback,
				Keywords:        keywords,
				CorrectedAnswer: row.CorrectedAnswer,
			},
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}
