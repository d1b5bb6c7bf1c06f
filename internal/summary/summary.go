package summary

import (
	"math"
	"time"

	"github.com/abhisek/examprep/internal/question"
)

// Performance is the scored record for one delivered question.
type Performance struct {
	QuestionID string `json:"questionId"`
	Index      int    `json:"index"`

	// Selected is nil when the question was omitted.
	Selected *string `json:"selected,omitempty"`

	CorrectAnswer  string `json:"correctAnswer"`
	Correct        bool   `json:"correct"`
	ElapsedSeconds int    `json:"elapsedSeconds"`
}

// Summary is the scored result of a completed practice block.
type Summary struct {
	Mode    question.Mode    `json:"mode"`
	Filters question.Filters `json:"filters"`

	Total     int `json:"total"`
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Omitted   int `json:"omitted"`

	// AverageSeconds is the rounded mean of the per-question elapsed seconds.
	AverageSeconds int `json:"averageSeconds"`

	Performances []Performance `json:"performances"`
	CompletedAt  time.Time     `json:"completedAt"`
}

// Accuracy returns correct/total, or 0 for an empty summary.
func (s Summary) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

// Answered returns the number of questions with a recorded answer.
func (s Summary) Answered() int {
	return s.Correct + s.Incorrect
}

// Input is the raw session state a summary is computed from.
type Input struct {
	Mode      question.Mode
	Filters   question.Filters
	Questions []question.Question

	// Answers maps question ID to the chosen label.
	Answers map[string]string

	// DurationsMs maps question ID to accrued active milliseconds.
	DurationsMs map[string]int64
}

// Compute scores a session. It is deterministic and has no side effects.
// Questions are reported in delivered order.
func Compute(in Input, completedAt time.Time) Summary {
	s := Summary{
		Mode:         in.Mode,
		Filters:      in.Filters.Snapshot(),
		Total:        len(in.Questions),
		Performances: make([]Performance, 0, len(in.Questions)),
		CompletedAt:  completedAt,
	}

	answered := 0
	elapsedSum := 0
	for i, q := range in.Questions {
		p := Performance{
			QuestionID:     q.ID,
			Index:          i,
			CorrectAnswer:  q.CorrectAnswer,
			ElapsedSeconds: roundSeconds(in.DurationsMs[q.ID]),
		}
		if sel, ok := in.Answers[q.ID]; ok {
			v := sel
			p.Selected = &v
			p.Correct = sel == q.CorrectAnswer
			answered++
		}
		if p.Correct {
			s.Correct++
		}
		elapsedSum += p.ElapsedSeconds
		s.Performances = append(s.Performances, p)
	}

	s.Incorrect = answered - s.Correct
	s.Omitted = s.Total - answered
	if s.Total > 0 {
		s.AverageSeconds = int(math.Round(float64(elapsedSum) / float64(s.Total)))
	}
	return s
}

func roundSeconds(ms int64) int {
	if ms <= 0 {
		return 0
	}
	return int(math.Round(float64(ms) / 1000))
}
