package practice

import (
	"maps"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/abhisek/examprep/internal/question"
	"github.com/abhisek/examprep/internal/summary"
)

// Session is the state of one practice block. The functions in this file
// are reducers: they take a Session and return the next one without
// touching the input's maps or slices.
type Session struct {
	ID      string
	Mode    question.Mode
	Filters question.Filters

	// Questions is fixed at creation.
	Questions []question.Question

	// Answers maps question ID to the chosen label. Absent means unanswered.
	Answers map[string]string

	// Reveals marks questions whose explanation is visible. Never reverts.
	Reveals map[string]bool

	CurrentIndex int
	StartedAt    time.Time

	// TotalDurationSeconds is nil for an untimed block.
	TotalDurationSeconds *int

	// RemainingSeconds mirrors the countdown; nil when untimed.
	RemainingSeconds *int

	Completed bool

	// QuestionDurationsMs is the accrued active time per question ID.
	QuestionDurationsMs map[string]int64

	// QuestionStartedAt is when the displayed question became active. Nil
	// once the block is completed.
	QuestionStartedAt *time.Time

	// Summary is set on completion when the block has questions.
	Summary *summary.Summary
}

// TotalDuration returns the time budget for a block, or nil when untimed.
func TotalDuration(mode question.Mode, f question.Filters) *int {
	var perQuestion int
	switch mode {
	case question.ModeTimed:
		perQuestion = question.DefaultTimePerQuestionSeconds
		if f.TimePerQuestionSeconds != nil {
			perQuestion = *f.TimePerQuestionSeconds
		}
	case question.ModeCustom:
		if f.TimePerQuestionSeconds == nil {
			return nil
		}
		perQuestion = *f.TimePerQuestionSeconds
	default:
		return nil
	}
	total := max(f.QuestionCount*perQuestion, 0)
	return &total
}

// AutoReveals reports whether answering a question reveals it immediately.
func AutoReveals(mode question.Mode, f question.Filters) bool {
	switch mode {
	case question.ModeTutor:
		return true
	case question.ModeCustom:
		return f.ShowExplanationOnSubmit
	}
	return false
}

// NewSession builds a block from fetched questions. Questions are shuffled
// with rng when the filters ask for it; a nil rng keeps server order.
func NewSession(id string, mode question.Mode, f question.Filters, questions []question.Question, now time.Time, rng *rand.Rand) Session {
	f = f.Snapshot()
	qs := slices.Clone(questions)
	if f.RandomizeOrder && rng != nil {
		rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
	}

	s := Session{
		ID:                   id,
		Mode:                 mode,
		Filters:              f,
		Questions:            qs,
		Answers:              map[string]string{},
		Reveals:              map[string]bool{},
		StartedAt:            now,
		TotalDurationSeconds: TotalDuration(mode, f),
		QuestionDurationsMs:  map[string]int64{},
	}
	if s.TotalDurationSeconds != nil {
		v := *s.TotalDurationSeconds
		s.RemainingSeconds = &v
	}
	if len(qs) > 0 {
		t := now
		s.QuestionStartedAt = &t
	}
	return s
}

// SelectAnswer records or overwrites an answer. Unknown questions, unknown
// labels and completed blocks are ignored. The answer that leaves no
// question unanswered completes the block.
func SelectAnswer(s Session, questionID, label string, now time.Time) Session {
	if s.Completed {
		return s
	}
	q, ok := s.question(questionID)
	if !ok || !q.HasChoice(label) {
		return s
	}

	s = s.clone()
	s.Answers[questionID] = label
	if AutoReveals(s.Mode, s.Filters) {
		s.Reveals[questionID] = true
	}
	if s.AnsweredCount() == len(s.Questions) {
		return Complete(s, now)
	}
	return s
}

// GoToQuestion moves to index, clamped into range. Time on the question
// being left is accrued unless the block is completed.
func GoToQuestion(s Session, index int, now time.Time) Session {
	if len(s.Questions) == 0 {
		return s
	}
	index = min(max(index, 0), len(s.Questions)-1)
	if index == s.CurrentIndex {
		return s
	}

	s = s.clone()
	if !s.Completed {
		s.accrue(now)
		t := now
		s.QuestionStartedAt = &t
	}
	s.CurrentIndex = index
	return s
}

// Reveal marks a question's explanation visible.
func Reveal(s Session, questionID string) Session {
	if _, ok := s.question(questionID); !ok || s.Reveals[questionID] {
		return s
	}
	s = s.clone()
	s.Reveals[questionID] = true
	return s
}

// Complete finishes the block: it accrues the active question's time,
// computes the summary, reveals everything and stops timing. Completing a
// completed block returns it unchanged.
func Complete(s Session, now time.Time) Session {
	if s.Completed {
		return s
	}

	s = s.clone()
	s.accrue(now)
	s.QuestionStartedAt = nil
	s.Completed = true
	if s.RemainingSeconds != nil {
		zero := 0
		s.RemainingSeconds = &zero
	}
	for _, q := range s.Questions {
		s.Reveals[q.ID] = true
	}
	if len(s.Questions) > 0 {
		sum := summary.Compute(summary.Input{
			Mode:        s.Mode,
			Filters:     s.Filters,
			Questions:   s.Questions,
			Answers:     s.Answers,
			DurationsMs: s.QuestionDurationsMs,
		}, now)
		s.Summary = &sum
	}
	return s
}

// ApplyRemaining copies the countdown value into the block. It never
// raises the value and is ignored after completion.
func ApplyRemaining(s Session, remaining *int) Session {
	if s.Completed || s.RemainingSeconds == nil || remaining == nil {
		return s
	}
	v := max(*remaining, 0)
	if v >= *s.RemainingSeconds {
		return s
	}
	s.RemainingSeconds = &v
	return s
}

// AnsweredCount returns the number of answered questions.
func (s Session) AnsweredCount() int {
	return len(s.Answers)
}

// CurrentQuestion returns the displayed question.
func (s Session) CurrentQuestion() (question.Question, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return question.Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// Revealed reports whether a question's explanation is visible.
func (s Session) Revealed(questionID string) bool {
	return s.Reveals[questionID]
}

// Answer returns the chosen label for a question.
func (s Session) Answer(questionID string) (string, bool) {
	a, ok := s.Answers[questionID]
	return a, ok
}

func (s Session) question(id string) (question.Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return question.Question{}, false
}

// accrue adds the time since QuestionStartedAt to the displayed question.
// Callers must hold a clone.
func (s *Session) accrue(now time.Time) {
	if s.QuestionStartedAt == nil {
		return
	}
	q, ok := s.CurrentQuestion()
	if !ok {
		return
	}
	if d := now.Sub(*s.QuestionStartedAt).Milliseconds(); d > 0 {
		s.QuestionDurationsMs[q.ID] += d
	}
}

func (s Session) clone() Session {
	s.Answers = maps.Clone(s.Answers)
	s.Reveals = maps.Clone(s.Reveals)
	s.QuestionDurationsMs = maps.Clone(s.QuestionDurationsMs)
	if s.Answers == nil {
		s.Answers = map[string]string{}
	}
	if s.Reveals == nil {
		s.Reveals = map[string]bool{}
	}
	if s.QuestionDurationsMs == nil {
		s.QuestionDurationsMs = map[string]int64{}
	}
	return s
}
