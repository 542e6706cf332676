package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/internal/observability"
	"github.com/fairyhunter13/ai-mock-interviewer/pkg/textx"
)

const profileTextLimit = 5000

// SessionService owns the in-memory session table and orchestrates the
// interview pipeline around it. Mutations of a session (follow-up
// insertion, answer recording) are serialized by a per-session lock;
// reads may observe a stale list but never a broken id sequence.
// Durable-store writes are asynchronous and best-effort.
type SessionService struct {
	Sessions  domain.SessionRepository
	AnswerLog domain.AnswerRepository
	Extractor domain.TextExtractor
	Profile   ProfileService
	Questions QuestionService
	FollowUp  FollowUpService
	Analyze   AnalyzeService

	// PersistMaxElapsed bounds retries of one async mirror write.
	PersistMaxElapsed time.Duration

	mu       sync.RWMutex
	sessions map[string]*domain.Session
	locks    map[string]*sync.Mutex
}

// NewSessionService constructs a SessionService with its dependencies.
func NewSessionService(sr domain.SessionRepository, ar domain.AnswerRepository, ex domain.TextExtractor,
	p ProfileService, q QuestionService, f FollowUpService, a AnalyzeService) *SessionService {
	return &SessionService{
		Sessions:          sr,
		AnswerLog:         ar,
		Extractor:         ex,
		Profile:           p,
		Questions:         q,
		FollowUp:          f,
		Analyze:           a,
		PersistMaxElapsed: 10 * time.Second,
		sessions:          make(map[string]*domain.Session),
		locks:             make(map[string]*sync.Mutex),
	}
}

// CreateFromDocument extracts text from an uploaded file and starts a
// session from it.
func (s *SessionService) CreateFromDocument(ctx domain.Context, data []byte, filename string, source domain.Source) (domain.Session, error) {
	text, err := s.Extractor.Extract(data, filename)
	if err != nil {
		return domain.Session{}, err
	}
	return s.CreateFromText(ctx, text, source)
}

// CreateFromText runs the pipeline for raw document text: profile
// analysis, question generation, session creation and the async mirror
// write.
func (s *SessionService) CreateFromText(ctx domain.Context, text string, source domain.Source) (domain.Session, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Session{}, fmt.Errorf("op=session.create: %w: empty document text", domain.ErrUnreadableDocument)
	}
	if source != domain.SourceResume && source != domain.SourceJobDescription {
		return domain.Session{}, fmt.Errorf("op=session.create: %w: unknown source %q", domain.ErrInvalidArgument, source)
	}

	profile := s.Profile.Analyze(ctx, text)
	questions := s.Questions.Generate(ctx, text, source)
	if len(questions) == 0 {
		// Unreachable given the generator fallbacks; treat as an
		// invariant violation if it ever happens.
		return domain.Session{}, fmt.Errorf("op=session.create: %w", domain.ErrNoQuestionsGenerated)
	}

	sess := domain.Session{
		ID:          newSessionID(),
		Source:      source,
		ProfileText: textx.Truncate(text, profileTextLimit),
		Profile:     profile,
		Questions:   questions,
		Answers:     make(map[int]domain.AnswerRecord),
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	stored := sess
	s.sessions[sess.ID] = &stored
	s.mu.Unlock()

	snapshot := sess
	s.persistAsync("session.save", func(pctx context.Context) error {
		return s.Sessions.Save(pctx, snapshot)
	})

	slog.Info("interview session created", slog.String("session_id", sess.ID),
		slog.String("source", string(source)), slog.Int("questions", len(questions)))
	return sess, nil
}

// Get returns a session by id, restoring it from the durable store when
// it is not in memory (process restart recovery).
func (s *SessionService) Get(ctx domain.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess, nil
	}

	restored, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("op=session.get id=%s: %w", id, domain.ErrNotFound)
	}
	slog.Info("restored session from durable store", slog.String("session_id", id))

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[id]; ok {
		return existing, nil
	}
	s.sessions[id] = &restored
	return &restored, nil
}

// Snapshot returns a deep enough copy of a session for readers that
// outlive the call: the question list and answer map are copied under
// the per-session lock so concurrent follow-up insertions and answer
// submissions never share memory with the returned value.
func (s *SessionService) Snapshot(ctx domain.Context, id string) (domain.Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	lock := s.sessionLock(id)
	lock.Lock()
	defer lock.Unlock()
	out := *sess
	out.Questions = make([]domain.Question, len(sess.Questions))
	copy(out.Questions, sess.Questions)
	out.Answers = make(map[int]domain.AnswerRecord, len(sess.Answers))
	for qid, rec := range sess.Answers {
		out.Answers[qid] = rec
	}
	return out, nil
}

// Question returns the question with the given display id.
func (s *SessionService) Question(ctx domain.Context, sessionID string, questionID int) (domain.Question, int, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return domain.Question{}, 0, err
	}
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()
	for _, q := range sess.Questions {
		if q.ID == questionID {
			return q, len(sess.Questions), nil
		}
	}
	return domain.Question{}, 0, fmt.Errorf("op=session.question id=%d: %w", questionID, domain.ErrQuestionNotFound)
}

// SubmitAnswer evaluates and records an answer, mirroring the record to
// the durable store asynchronously.
func (s *SessionService) SubmitAnswer(ctx domain.Context, sessionID string, questionID int, questionText, answerText string) (domain.Evaluation, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return domain.Evaluation{}, err
	}

	contextText := fmt.Sprintf("Candidate's %s: %s", sess.Source, sess.ProfileText)
	eval := s.Analyze.Analyze(ctx, questionText, answerText, contextText)

	record := domain.AnswerRecord{
		SessionID:    sessionID,
		QuestionID:   questionID,
		QuestionText: questionText,
		AnswerText:   answerText,
		Evaluation:   eval,
		CreatedAt:    time.Now().UTC(),
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	sess.Answers[questionID] = record
	lock.Unlock()

	s.persistAsync("answer.insert", func(pctx context.Context) error {
		return s.AnswerLog.Insert(pctx, record)
	})
	return eval, nil
}

// InsertFollowUp generates a follow-up for the answer just given and
// splices it into the live question list right after the answered
// question, renumbering everything behind it.
//
// Repeated invocation policy: when the slot after the answered question
// already holds a follow-up, the new question replaces it in place
// instead of growing the chain.
func (s *SessionService) InsertFollowUp(ctx domain.Context, sessionID string, currentQuestionID int, answerText string) (domain.Question, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return domain.Question{}, err
	}

	followUp := s.FollowUp.Generate(ctx, answerText, sess.ProfileText)

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	idx := -1
	for i, q := range sess.Questions {
		if q.ID == currentQuestionID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return domain.Question{}, fmt.Errorf("op=session.followup id=%d: %w", currentQuestionID, domain.ErrQuestionNotFound)
	}

	followUp.ID = currentQuestionID + 1
	if idx+1 < len(sess.Questions) && isFollowUpType(sess.Questions[idx+1]) {
		// Replace the existing follow-up; ids stay untouched.
		sess.Questions[idx+1] = followUp
	} else {
		for i := idx + 1; i < len(sess.Questions); i++ {
			sess.Questions[i].ID++
		}
		sess.Questions = append(sess.Questions, domain.Question{})
		copy(sess.Questions[idx+2:], sess.Questions[idx+1:])
		sess.Questions[idx+1] = followUp
	}

	snapshot := make([]domain.Question, len(sess.Questions))
	copy(snapshot, sess.Questions)
	s.persistAsync("session.update_questions", func(pctx context.Context) error {
		return s.Sessions.UpdateQuestions(pctx, sessionID, snapshot)
	})

	slog.Info("follow-up question inserted", slog.String("session_id", sessionID),
		slog.Int("after_question", currentQuestionID), slog.Int("total_questions", len(sess.Questions)))
	return followUp, nil
}

func isFollowUpType(q domain.Question) bool {
	return q.Type == domain.TypeFollowUp || q.Category == "Follow-up"
}

// sessionLock returns the mutex serializing mutations for one session.
func (s *SessionService) sessionLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locks[id]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[id] = l
	return l
}

// persistAsync runs a durable-store write off the request path. Failures
// are retried briefly, then logged; they never reach the caller and
// never roll back the in-memory mutation.
func (s *SessionService) persistAsync(op string, fn func(ctx context.Context) error) {
	maxElapsed := s.PersistMaxElapsed
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), maxElapsed)
		defer cancel()
		expo := backoff.NewExponentialBackOff()
		expo.MaxElapsedTime = maxElapsed
		err := backoff.Retry(func() error { return fn(ctx) }, backoff.WithContext(expo, ctx))
		if err != nil {
			slog.Warn("durable store write failed", slog.String("op", op), slog.Any("error", err))
			observability.StoreWritesTotal.WithLabelValues(op, "error").Inc()
			return
		}
		observability.StoreWritesTotal.WithLabelValues(op, "ok").Inc()
	}()
}

// newSessionID mirrors the historical token shape int_<unix>_<8 hex>.
func newSessionID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("int_%d_%s", time.Now().Unix(), hex[:8])
}
