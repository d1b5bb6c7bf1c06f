package assessment

import (
	"context"
	"time"

	"github.com/abhisek/examprep/internal/analytics"
	"github.com/abhisek/examprep/internal/question"
)

// Stage is the lifecycle state of an assessment run.
type Stage string

const (
	StageSetup      Stage = "setup"
	StageLoading    Stage = "loading"
	StageRunning    Stage = "running"
	StageSubmitting Stage = "submitting"
	StageCompleted  Stage = "completed"
)

// Blueprint describes the assessment to create.
type Blueprint struct {
	CandidateID string   `json:"candidateId"`
	Subject     string   `json:"subject,omitempty"`
	System      string   `json:"system,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// TimeLimitMinutes is converted to seconds by the backend. Nil means
	// untimed.
	TimeLimitMinutes *int `json:"timeLimitMinutes,omitempty"`

	QuestionCount int `json:"questionCount,omitempty"`
}

// Created is the backend's answer to a create request.
type Created struct {
	AssessmentID  string `json:"assessmentId"`
	QuestionCount int    `json:"questionCount"`
	Status        string `json:"status"`
}

// Started is the backend's answer to a start request. Questions are fixed
// from here on.
type Started struct {
	AssessmentID     string
	StartedAt        time.Time
	ExpiresAt        *time.Time
	TimeLimitSeconds *int
	Questions        []question.Question
}

// Response is one submitted answer. Answer is nil for an omitted question.
type Response struct {
	QuestionID string  `json:"questionId"`
	Answer     *string `json:"answer"`
}

// Score is the backend-computed result of a submission.
type Score struct {
	TotalQuestions  int     `json:"totalQuestions"`
	Correct         int     `json:"correct"`
	Incorrect       int     `json:"incorrect"`
	Omitted         int     `json:"omitted"`
	Percentage      float64 `json:"percentage"`
	DurationSeconds int     `json:"durationSeconds"`
}

// Submission records a successful submit.
type Submission struct {
	AssessmentID string    `json:"assessmentId"`
	SubmittedAt  time.Time `json:"submittedAt"`
	Score        Score     `json:"score"`
}

// Backend creates, starts and scores assessments.
type Backend interface {
	Create(ctx context.Context, bp Blueprint) (Created, error)
	Start(ctx context.Context, assessmentID string) (Started, error)
	Submit(ctx context.Context, assessmentID string, responses []Response) (Submission, error)
}

// AnalyticsSource supplies the post-completion analytics snapshot.
type AnalyticsSource interface {
	FetchLatest(ctx context.Context) (analytics.Snapshot, error)
}
