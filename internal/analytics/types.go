package analytics

import (
	"context"
	"time"

	"github.com/abhisek/examprep/internal/question"
	"github.com/abhisek/examprep/internal/summary"
)

// Snapshot is the aggregate performance view returned by the analytics
// backend. It is display-only.
type Snapshot struct {
	GeneratedAt    time.Time     `json:"generatedAt"`
	TotalAnswered  int           `json:"totalAnswered"`
	Correct        int           `json:"correct"`
	Accuracy       float64       `json:"accuracy"`
	AverageSeconds float64       `json:"averageSeconds"`
	Subjects       []SubjectStat `json:"subjects,omitempty"`
}

// SubjectStat is the per-subject breakdown of a Snapshot.
type SubjectStat struct {
	Subject  string  `json:"subject"`
	Answered int     `json:"answered"`
	Accuracy float64 `json:"accuracy"`
}

// Event records a learner's performance on one question of a completed
// practice block.
type Event struct {
	SessionID      string        `json:"sessionId"`
	Mode           question.Mode `json:"mode"`
	QuestionID     string        `json:"questionId"`
	Index          int           `json:"index"`
	Selected       *string       `json:"selected"`
	CorrectAnswer  string        `json:"correctAnswer"`
	Correct        bool          `json:"correct"`
	ElapsedSeconds int           `json:"elapsedSeconds"`
	RecordedAt     time.Time     `json:"recordedAt"`
}

// EventsFromSummary expands a summary into one Event per question.
func EventsFromSummary(sessionID string, s summary.Summary) []Event {
	events := make([]Event, 0, len(s.Performances))
	for _, p := range s.Performances {
		events = append(events, Event{
			SessionID:      sessionID,
			Mode:           s.Mode,
			QuestionID:     p.QuestionID,
			Index:          p.Index,
			Selected:       p.Selected,
			CorrectAnswer:  p.CorrectAnswer,
			Correct:        p.Correct,
			ElapsedSeconds: p.ElapsedSeconds,
			RecordedAt:     s.CompletedAt,
		})
	}
	return events
}

// Recorder stores or forwards a single performance event.
type Recorder interface {
	Record(ctx context.Context, e Event) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, e Event) error

func (f RecorderFunc) Record(ctx context.Context, e Event) error {
	return f(ctx, e)
}
