// Package sqlite provides the durable store adapters.
//
// The store is a best-effort mirror of in-memory session state: writes
// are never load-bearing for the request path and reads only serve
// restore-on-miss and report aggregation.
package sqlite

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS interviews (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    profile_text TEXT,
    questions TEXT,
    created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS answers (
    id TEXT PRIMARY KEY,
    interview_id TEXT NOT NULL,
    question_id INTEGER NOT NULL,
    question_text TEXT,
    answer_text TEXT,
    ai_score INTEGER,
    ai_feedback TEXT,
    ai_keywords TEXT,
    corrected_answer TEXT,
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_answers_interview ON answers(interview_id, question_id);
`

// Open connects to the database at path and applies the schema.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("op=sqlite.Open: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("op=sqlite.Open schema: %w", err)
	}
	return db, nil
}
