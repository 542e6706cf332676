package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/adapter/repo/sqlite"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
)

func openTestDB(t *testing.T) *sqlite.SessionRepo {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlite.NewSessionRepo(db)
}

func TestSessionRepo_SaveAndGet(t *testing.T) {
	t.Parallel()
	repo := openTestDB(t)

	sess := domain.Session{
		ID:          "int_1_abcd1234",
		Source:      domain.SourceResume,
		ProfileText: "profile text",
		Questions: []domain.Question{
			{ID: 1, Question: "Introduce yourself", Difficulty: domain.DifficultyEasy, Type: domain.TypeSelfIntroduction, Category: "Basic"},
			{ID: 2, Question: "Rate your Go", Difficulty: domain.DifficultyEasy, Type: domain.TypeTechnical, Category: "Go Basics"},
		},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Save(context.Background(), sess))

	got, err := repo.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, domain.SourceResume, got.Source)
	assert.Equal(t, "profile text", got.ProfileText)
	require.Len(t, got.Questions, 2)
	assert.Equal(t, "Rate your Go", got.Questions[1].Question)
	assert.NotNil(t, got.Answers)
	assert.Empty(t, got.Answers)
}

func TestSessionRepo_SaveIsUpsert(t *testing.T) {
	t.Parallel()
	repo := openTestDB(t)

	sess := domain.Session{ID: "int_2_ffff0000", Source: domain.SourceJobDescription, CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Save(context.Background(), sess))
	sess.ProfileText = "updated"
	require.NoError(t, repo.Save(context.Background(), sess))

	got, err := repo.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.ProfileText)
}

func TestSessionRepo_GetMissing(t *testing.T) {
	t.Parallel()
	repo := openTestDB(t)
	_, err := repo.Get(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionRepo_UpdateQuestions(t *testing.T) {
	t.Parallel()
	repo := openTestDB(t)

	sess := domain.Session{
		ID:        "int_3_00001111",
		Source:    domain.SourceResume,
		Questions: []domain.Question{{ID: 1, Question: "one"}},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Save(context.Background(), sess))

	updated := []domain.Question{
		{ID: 1, Question: "one"},
		{ID: 2, Question: "follow-up", Type: domain.TypeFollowUp},
		{ID: 3, Question: "two"},
	}
	require.NoError(t, repo.UpdateQuestions(context.Background(), sess.ID, updated))

	got, err := repo.Get(context.Background(), sess.ID)
	require.NoError(t, err)
	require.Len(t, got.Questions, 3)
	assert.Equal(t, domain.TypeFollowUp, got.Questions[1].Type)
}

func TestAnswerRepo_InsertAndList(t *testing.T) {
	t.Parallel()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "answers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := sqlite.NewAnswerRepo(db)

	base := domain.AnswerRecord{
		SessionID:    "int_4_aabbccdd",
		QuestionText: "q",
		AnswerText:   "a",
		Evaluation: domain.Evaluation{
			OverallScore:    75,
			Feedback:        "solid",
			Keywords:        []string{"Go", "SQL"},
			CorrectedAnswer: "better a",
		},
		CreatedAt: time.Now().UTC(),
	}

	// Insert out of order; listing sorts by question id.
	for _, qid := range []int{3, 1, 2} {
		rec := base
		rec.QuestionID = qid
		require.NoError(t, repo.Insert(context.Background(), rec))
	}

	records, err := repo.ListBySession(context.Background(), base.SessionID)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{records[0].QuestionID, records[1].QuestionID, records[2].QuestionID})
	assert.Equal(t, 75, records[0].Evaluation.OverallScore)
	assert.Equal(t, []string{"Go", "SQL"}, records[0].Evaluation.Keywords)
	assert.NotEmpty(t, records[0].ID) // generated ulid
}

func TestAnswerRepo_ListEmptySession(t *testing.T) {
	t.Parallel()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := sqlite.NewAnswerRepo(db)

	records, err := repo.ListBySession(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Empty(t, records)
}
