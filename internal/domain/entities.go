package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrNotFound             = errors.New("not found")
	ErrUnreadableDocument   = errors.New("unreadable document")
	ErrNoQuestionsGenerated = errors.New("no questions generated")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrMalformedEvaluation  = errors.New("malformed evaluation")
	ErrServiceUnavailable   = errors.New("reasoning service unavailable")
	ErrQuotaExceeded        = errors.New("reasoning service quota exceeded")
	ErrInternal             = errors.New("internal error")
)

// Source enumerates the kinds of uploaded documents. The source decides
// which question-generation branch runs for the session.
type Source string

const (
	SourceResume         Source = "resume"
	SourceJobDescription Source = "job_description"
)

// Question difficulty labels.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Question type labels.
const (
	TypeSelfIntroduction  = "Self-Introduction"
	TypeTechnical         = "Technical"
	TypeExperience        = "Experience"
	TypeProblemSolving    = "Problem-Solving"
	TypeProject           = "Project"
	TypeCareerDevelopment = "Career Development"
	TypeCareerGoals       = "Career Goals"
	TypeGeneral           = "General"
	TypeFollowUp          = "Follow-up"
)

// Question is one slot of an interview. IDs are display labels that stay
// contiguous (1..N) in presentation order; inserting a follow-up
// renumbers everything after it.
type Question struct {
	ID         int    `json:"id"`
	Question   string `json:"question" validate:"required"`
	Difficulty string `json:"difficulty"`
	Type       string `json:"type"`
	Category   string `json:"category"`
}

// Experience is a work-history signal extracted from resume text.
type Experience struct {
	Title   string `json:"title"`
	Company string `json:"company"`
}

// Project is a project signal extracted from resume text.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SignalSet holds the heuristic signals derived once per uploaded
// document. Immutable after creation.
type SignalSet struct {
	Skills      []string
	Experiences []Experience
	Projects    []Project
}

// ProfileAnalysis is the structured profile produced by the reasoning
// service, or an empty-valued structure when the call fails. Attached to
// a session at creation time, never mutated.
type ProfileAnalysis struct {
	Skills               []string `json:"skills"`
	Projects             []string `json:"projects"`
	ToolsAndTechnologies []string `json:"tools_and_technologies"`
	ExperienceLevel      string   `json:"experience_level"`
	Domains              []string `json:"domains"`
	ImportantKeywords    []string `json:"important_keywords"`
}

// Evaluation is the scoring result for one submitted answer. Produced
// fresh per submission and immutable once returned.
type Evaluation struct {
	CorrectedAnswer string   `json:"corrected_answer"`
	GrammarScore    int      `json:"grammar_score"`
	RelevanceScore  int      `json:"relevance_score"`
	ClarityScore    int      `json:"clarity_score"`
	OverallScore    int      `json:"overall_score"`
	Feedback        string   `json:"feedback"`
	Keywords        []string `json:"keywords"`
}

// AnswerRecord is a recorded answer with its evaluation, persisted
// alongside the session.
type AnswerRecord struct {
	ID           string
	SessionID    string
	QuestionID   int
	QuestionText string
	AnswerText   string
	Evaluation   Evaluation
	CreatedAt    time.Time
}

// Session is one candidate's interview instance. Held in memory for the
// process lifetime and mirrored best-effort to the durable store.
// Questions is mutable (follow-up insertion); Answers grows on
// submission. Mutations must be serialized per session.
type Session struct {
	ID          string
	Source      Source
	ProfileText string
	Profile     ProfileAnalysis
	Questions   []Question
	Answers     map[int]AnswerRecord
	CreatedAt   time.Time
}

// Repositories (ports)

// SessionRepository mirrors sessions to durable storage. Writes are
// best-effort; reads serve restore-on-miss.
type SessionRepository interface {
	Save(ctx Context, s Session) error
	Get(ctx Context, id string) (Session, error)
	UpdateQuestions(ctx Context, id string, qs []Question) error
}

// AnswerRepository persists evaluated answers for report aggregation.
type AnswerRepository interface {
	Insert(ctx Context, a AnswerRecord) error
	ListBySession(ctx Context, sessionID string) ([]AnswerRecord, error)
}

// AIClient (port)

// AIClient is the external reasoning service. It returns free-form text
// expected to contain one embedded JSON object. Calls are attempted
// exactly once; any failure feeds a deterministic fallback at the call
// site.
type AIClient interface {
	ChatJSON(ctx Context, model, systemPrompt, userPrompt string) (string, error)
}

// TextExtractor converts uploaded document bytes into plain text based
// on the declared filename.
type TextExtractor interface {
	Extract(data []byte, filename string) (string, error)
}

// Transcriber is the external speech-to-text collaborator. The candidate
// name biases recognition and drives the fuzzy name-correction pass.
type Transcriber interface {
	Transcribe(ctx Context, audio []byte, language, candidateName string) (string, error)
}

// Context is an alias to allow decoupling from std context in domain.
// Adapters and usecases pass context.Context through.
type Context = context.Context
