// Package assessment drives a formal timed assessment: create, start,
// deliver, submit (manually or on expiry) and score.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/examprep/internal/analytics"
	"github.com/abhisek/examprep/internal/countdown"
	"github.com/abhisek/examprep/internal/question"
)

// Run is the state of one assessment attempt.
type Run struct {
	Stage     Stage
	Blueprint Blueprint

	AssessmentID     string
	Questions        []question.Question
	TimeLimitSeconds *int
	StartedAt        time.Time
	ExpiresAt        *time.Time

	// Answers maps question ID to the chosen label.
	Answers      map[string]string
	CurrentIndex int

	// TimedOut is set when the clock ran out before any submission.
	TimedOut bool

	Submission *Submission

	// Analytics is filled best effort after completion. AnalyticsPending
	// stays true while it is missing.
	Analytics        *analytics.Snapshot
	AnalyticsPending bool
}

// Lifecycle owns one Run and its countdown. Like practice.Controller it is
// driven from a single goroutine through Update.
type Lifecycle struct {
	backend   Backend
	analytics AnalyticsSource
	log       *zap.Logger
	interval  time.Duration
	timeout   time.Duration

	run       Run
	timer     countdown.Timer
	submitted bool
	seq       int
	err       error
}

// Option configures a Lifecycle.
type Option func(*Lifecycle)

// WithAnalytics sets the source of the post-completion snapshot.
func WithAnalytics(a AnalyticsSource) Option {
	return func(l *Lifecycle) { l.analytics = a }
}

// WithLogger sets the logger for best-effort failures.
func WithLogger(log *zap.Logger) Option {
	return func(l *Lifecycle) {
		if log != nil {
			l.log = log
		}
	}
}

// WithTickInterval sets the countdown tick length.
func WithTickInterval(d time.Duration) Option {
	return func(l *Lifecycle) { l.interval = d }
}

// WithRequestTimeout bounds each backend call.
func WithRequestTimeout(d time.Duration) Option {
	return func(l *Lifecycle) { l.timeout = d }
}

// New creates a Lifecycle in the setup stage.
func New(backend Backend, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		backend:  backend,
		log:      zap.NewNop(),
		interval: countdown.DefaultInterval,
		timeout:  30 * time.Second,
		run:      Run{Stage: StageSetup},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type startedMsg struct {
	seq     int
	created Created
	started Started
	err     error
}

type submittedMsg struct {
	seq        int
	submission Submission
	err        error
}

type analyticsMsg struct {
	seq      int
	snapshot analytics.Snapshot
	err      error
}

// Begin creates and starts an assessment from bp. It is only valid in the
// setup stage.
func (l *Lifecycle) Begin(bp Blueprint) tea.Cmd {
	if l.run.Stage != StageSetup {
		return nil
	}
	bp.Tags = question.NormalizeTags(bp.Tags)
	l.seq++
	l.err = nil
	l.run = Run{Stage: StageLoading, Blueprint: bp}

	seq, backend, timeout := l.seq, l.backend, l.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		created, err := backend.Create(ctx, bp)
		if err != nil {
			return startedMsg{seq: seq, err: err}
		}
		started, err := backend.Start(ctx, created.AssessmentID)
		return startedMsg{seq: seq, created: created, started: started, err: err}
	}
}

// Update applies backend responses and countdown messages.
func (l *Lifecycle) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case startedMsg:
		return l.handleStarted(msg)
	case countdown.TickMsg:
		var cmd tea.Cmd
		l.timer, cmd = l.timer.Update(msg)
		return cmd
	case countdown.ExpiredMsg:
		if msg.ID != l.timer.ID() || l.run.Stage != StageRunning || l.submitted {
			return nil
		}
		l.run.TimedOut = true
		l.log.Info("assessment clock expired, submitting",
			zap.String("assessment_id", l.run.AssessmentID),
			zap.Int("answered", len(l.run.Answers)))
		return l.submit()
	case submittedMsg:
		return l.handleSubmitted(msg)
	case analyticsMsg:
		if msg.seq != l.seq || l.run.Stage != StageCompleted {
			return nil
		}
		if msg.err != nil {
			l.log.Warn("fetch analytics snapshot",
				zap.String("assessment_id", l.run.AssessmentID),
				zap.Error(msg.err))
			return nil
		}
		snap := msg.snapshot
		l.run.Analytics = &snap
		l.run.AnalyticsPending = false
	}
	return nil
}

func (l *Lifecycle) handleStarted(msg startedMsg) tea.Cmd {
	if msg.seq != l.seq || l.run.Stage != StageLoading {
		return nil
	}
	if msg.err != nil {
		l.err = msg.err
		l.run = Run{Stage: StageSetup, Blueprint: l.run.Blueprint}
		return nil
	}
	if len(msg.started.Questions) == 0 {
		l.err = errors.New("assessment started with no questions")
		l.run = Run{Stage: StageSetup, Blueprint: l.run.Blueprint}
		return nil
	}

	id := msg.started.AssessmentID
	if id == "" {
		id = msg.created.AssessmentID
	}
	l.run.Stage = StageRunning
	l.run.AssessmentID = id
	l.run.Questions = msg.started.Questions
	l.run.TimeLimitSeconds = msg.started.TimeLimitSeconds
	l.run.StartedAt = msg.started.StartedAt
	l.run.ExpiresAt = msg.started.ExpiresAt
	l.run.Answers = map[string]string{}
	l.submitted = false

	l.timer = countdown.NewWithInterval(msg.started.TimeLimitSeconds, l.interval)
	if l.timer.Expired() {
		l.run.TimedOut = true
		return l.submit()
	}
	var cmd tea.Cmd
	l.timer, cmd = l.timer.Start()
	return cmd
}

func (l *Lifecycle) handleSubmitted(msg submittedMsg) tea.Cmd {
	if msg.seq != l.seq || l.run.Stage != StageSubmitting {
		return nil
	}
	if msg.err != nil {
		l.err = msg.err
		l.run.Stage = StageRunning
		l.submitted = false
		l.log.Warn("submit assessment",
			zap.String("assessment_id", l.run.AssessmentID),
			zap.Bool("timed_out", l.run.TimedOut),
			zap.Error(msg.err))
		return nil
	}

	l.timer = l.timer.Stop()
	sub := msg.submission
	l.run.Submission = &sub
	l.run.Stage = StageCompleted
	l.err = nil

	if l.analytics == nil {
		return nil
	}
	l.run.AnalyticsPending = true
	seq, source, timeout := l.seq, l.analytics, l.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		snap, err := source.FetchLatest(ctx)
		return analyticsMsg{seq: seq, snapshot: snap, err: err}
	}
}

// SelectAnswer records an answer while the assessment is running and the
// clock has not run out.
func (l *Lifecycle) SelectAnswer(questionID, label string) {
	if l.run.Stage != StageRunning || l.run.TimedOut || l.timer.Expired() {
		return
	}
	for _, q := range l.run.Questions {
		if q.ID == questionID && q.HasChoice(label) {
			l.run.Answers[questionID] = label
			return
		}
	}
}

// GoToQuestion moves to index, clamped into range.
func (l *Lifecycle) GoToQuestion(index int) {
	if len(l.run.Questions) == 0 {
		return
	}
	l.run.CurrentIndex = min(max(index, 0), len(l.run.Questions)-1)
}

// Submit sends the collected answers. Only the first trigger while running
// takes effect; later ones, manual or timed, are suppressed.
func (l *Lifecycle) Submit() tea.Cmd {
	if l.run.Stage != StageRunning || l.submitted {
		return nil
	}
	return l.submit()
}

// Retry re-sends a submission after a failure, including one triggered by
// the clock.
func (l *Lifecycle) Retry() tea.Cmd {
	if l.err == nil {
		return nil
	}
	return l.Submit()
}

func (l *Lifecycle) submit() tea.Cmd {
	l.submitted = true
	l.run.Stage = StageSubmitting
	l.err = nil

	responses := l.Responses()
	seq, backend, timeout, id := l.seq, l.backend, l.timeout, l.run.AssessmentID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		sub, err := backend.Submit(ctx, id, responses)
		if err != nil {
			err = fmt.Errorf("submit failed: %w", err)
		}
		return submittedMsg{seq: seq, submission: sub, err: err}
	}
}

// Responses returns one response per question in delivery order.
// Unanswered questions carry a nil answer.
func (l *Lifecycle) Responses() []Response {
	out := make([]Response, 0, len(l.run.Questions))
	for _, q := range l.run.Questions {
		r := Response{QuestionID: q.ID}
		if a, ok := l.run.Answers[q.ID]; ok {
			v := a
			r.Answer = &v
		}
		out = append(out, r)
	}
	return out
}

// Reset discards the run and returns to setup. Responses still in flight
// are ignored when they arrive.
func (l *Lifecycle) Reset() {
	l.timer = countdown.New(nil)
	l.run = Run{Stage: StageSetup}
	l.submitted = false
	l.err = nil
	l.seq++
}

// Run returns a copy of the current run.
func (l *Lifecycle) Run() Run {
	r := l.run
	r.Answers = maps.Clone(l.run.Answers)
	return r
}

// Stage returns the current stage.
func (l *Lifecycle) Stage() Stage { return l.run.Stage }

// Remaining returns the clock value. ok is false for an untimed run.
func (l *Lifecycle) Remaining() (int, bool) { return l.timer.Remaining() }

// Err returns the last failure.
func (l *Lifecycle) Err() error { return l.err }

// ErrorMessage returns Err as display text.
func (l *Lifecycle) ErrorMessage() string {
	if l.err == nil {
		return ""
	}
	return l.err.Error()
}
