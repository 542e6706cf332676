package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

// SessionRepo persists interview sessions. The questions list is stored
// as a JSON column, matching how the session mutates as one unit.
type SessionRepo struct{ DB *sqlx.DB }

// NewSessionRepo constructs a SessionRepo with the given database.
func NewSessionRepo(db *sqlx.DB) *SessionRepo { return &SessionRepo{DB: db} }

type sessionRow struct {
	ID          string    `db:"id"`
	Source      string    `db:"source"`
	ProfileText string    `db:"profile_text"`
	Questions   string    `db:"questions"`
	CreatedAt   time.Time `db:"created_at"`
}

// Save upserts the session mirror.
func (r *SessionRepo) Save(ctx domain.Context, s domain.Session) error {
	qs, err := json.Marshal(s.Questions)
	if err != nil {
		return fmt.Errorf("op=session.save: %w", err)
	}
	q := `INSERT OR REPLACE INTO interviews (id, source, profile_text, questions, created_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.DB.ExecContext(ctx, q, s.ID, string(s.Source), s.ProfileText, string(qs), s.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("op=session.save: %w", err)
	}
	return nil
}

// Get restores a session from the mirror. The answers map comes back
// empty; recorded answers live in the answers table and are only joined
// for reports.
func (r *SessionRepo) Get(ctx domain.Context, id string) (domain.Session, error) {
	var row sessionRow
	q := `SELECT id, source, profile_text, questions, created_at FROM interviews WHERE id = ?`
	if err := r.DB.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, fmt.Errorf("op=session.get id=%s: %w", id, domain.ErrNotFound)
		}
		return domain.Session{}, fmt.Errorf("op=session.get: %w", err)
	}
	var questions []domain.Question
	if row.Questions != "" {
		if err := json.Unmarshal([]byte(row.Questions), &questions); err != nil {
			return domain.Session{}, fmt.Errorf("op=session.get questions: %w", err)
		}
	}
	return domain.Session{
		ID:          row.ID,
		Source:      domain.Source(row.Source),
		ProfileText: row.ProfileText,
		Questions:   questions,
		Answers:     make(map[int]domain.AnswerRecord),
		CreatedAt:   row.CreatedAt,
	}, nil
}

// UpdateQuestions replaces the stored question list after a follow-up
// insertion.
func (r *SessionRepo) UpdateQuestions(ctx domain.Context, id string, qs []domain.Question) error {
	b, err := json.Marshal(qs)
	if err != nil {
		return fmt.Errorf("op=session.update_questions: %w", err)
	}
	q := `UPDATE interviews SET questions = ? WHERE id = ?`
	if _, err := r.DB.ExecContext(ctx, q, string(b), id); err != nil {
		return fmt.Errorf("op=session.update_questions: %w", err)
	}
	return nil
}
