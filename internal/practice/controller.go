package practice

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/examprep/internal/analytics"
	"github.com/abhisek/examprep/internal/countdown"
	"github.com/abhisek/examprep/internal/question"
	"github.com/abhisek/examprep/internal/summary"
)

// QuestionSource returns pages of questions for a search.
type QuestionSource interface {
	Search(ctx context.Context, q question.SearchQuery) (question.Page, error)
}

// SummaryStore keeps the most recent completed summary.
type SummaryStore interface {
	SaveLast(ctx context.Context, s summary.Summary) error
	Last(ctx context.Context) (*summary.Summary, error)
}

// Controller owns at most one practice block and its countdown. It must be
// driven from a single goroutine: commands return tea.Cmds whose messages
// are fed back through Update.
type Controller struct {
	source     QuestionSource
	summaries  SummaryStore
	dispatcher *analytics.Dispatcher
	log        *zap.Logger
	now        func() time.Time
	rng        *rand.Rand
	interval   time.Duration
	timeout    time.Duration

	session  *Session
	timer    countdown.Timer
	loading  bool
	err      error
	startSeq int
	last     *summary.Summary
}

// Option configures a Controller.
type Option func(*Controller)

// WithSummaryStore persists each completed summary.
func WithSummaryStore(s SummaryStore) Option {
	return func(c *Controller) { c.summaries = s }
}

// WithDispatcher records per-question performance after completion.
func WithDispatcher(d *analytics.Dispatcher) Option {
	return func(c *Controller) { c.dispatcher = d }
}

// WithLogger sets the logger for best-effort failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithRand sets the shuffle source.
func WithRand(r *rand.Rand) Option {
	return func(c *Controller) { c.rng = r }
}

// WithTickInterval sets the countdown tick length.
func WithTickInterval(d time.Duration) Option {
	return func(c *Controller) { c.interval = d }
}

// WithRequestTimeout bounds each backend call.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// NewController creates a Controller with no active block.
func NewController(source QuestionSource, opts ...Option) *Controller {
	c := &Controller{
		source:   source,
		log:      zap.NewNop(),
		now:      time.Now,
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		interval: countdown.DefaultInterval,
		timeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type sessionLoadedMsg struct {
	seq       int
	mode      question.Mode
	filters   question.Filters
	questions []question.Question
	err       error
}

type summarySavedMsg struct {
	sessionID string
	err       error
}

type performanceRecordedMsg struct {
	sessionID string
	failures  int
}

type lastSummaryMsg struct {
	summary *summary.Summary
	err     error
}

// StartSession fetches filters.QuestionCount questions and, on success,
// replaces the current block. On failure the current state is kept and Err
// is set.
func (c *Controller) StartSession(mode question.Mode, filters question.Filters) tea.Cmd {
	f := filters.Snapshot()
	if f.QuestionCount <= 0 {
		c.err = errors.New("question count must be at least 1")
		return nil
	}

	c.startSeq++
	c.loading = true
	c.err = nil

	seq, source, timeout := c.startSeq, c.source, c.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		page, err := source.Search(ctx, f.SearchQuery(f.QuestionCount, 0))
		return sessionLoadedMsg{seq: seq, mode: mode, filters: f, questions: page.Questions, err: err}
	}
}

// Update applies messages produced by the controller's commands and its
// countdown. Unrelated messages are ignored.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case sessionLoadedMsg:
		return c.handleLoaded(msg)
	case countdown.TickMsg:
		return c.handleTick(msg)
	case countdown.ExpiredMsg:
		if msg.ID != c.timer.ID() || c.session == nil || c.session.Completed {
			return nil
		}
		return c.finish(Complete(*c.session, c.now()))
	case summarySavedMsg:
		if msg.err != nil {
			c.log.Warn("persist last summary",
				zap.String("session_id", msg.sessionID),
				zap.Error(msg.err))
		}
	case performanceRecordedMsg:
		if msg.failures > 0 {
			c.log.Info("performance recording incomplete",
				zap.String("session_id", msg.sessionID),
				zap.Int("failures", msg.failures))
		}
	case lastSummaryMsg:
		if msg.err != nil {
			c.log.Warn("load last summary", zap.Error(msg.err))
			return nil
		}
		if c.last == nil {
			c.last = msg.summary
		}
	}
	return nil
}

func (c *Controller) handleLoaded(msg sessionLoadedMsg) tea.Cmd {
	if msg.seq != c.startSeq {
		return nil
	}
	c.loading = false

	qs := uniqueQuestions(msg.questions)
	if dropped := len(msg.questions) - len(qs); dropped > 0 {
		c.log.Warn("dropped repeated questions from start response", zap.Int("dropped", dropped))
	}
	switch {
	case msg.err != nil:
		c.err = msg.err
		return nil
	case len(qs) == 0:
		c.err = ErrNoMatches
		return nil
	case len(qs) < msg.filters.QuestionCount:
		c.err = &InsufficientQuestionsError{Requested: msg.filters.QuestionCount, Available: len(qs)}
		return nil
	}
	qs = qs[:msg.filters.QuestionCount]

	c.timer = c.timer.Stop()
	s := NewSession(uuid.NewString(), msg.mode, msg.filters, qs, c.now(), c.rng)
	c.session = &s
	c.timer = countdown.NewWithInterval(s.TotalDurationSeconds, c.interval)

	if c.timer.Expired() {
		return c.finish(Complete(s, c.now()))
	}
	var cmd tea.Cmd
	c.timer, cmd = c.timer.Start()
	return cmd
}

// uniqueQuestions keeps the first occurrence of each question ID.
func uniqueQuestions(qs []question.Question) []question.Question {
	seen := make(map[string]bool, len(qs))
	out := make([]question.Question, 0, len(qs))
	for _, q := range qs {
		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	return out
}

func (c *Controller) handleTick(msg countdown.TickMsg) tea.Cmd {
	var cmd tea.Cmd
	c.timer, cmd = c.timer.Update(msg)
	if c.session != nil {
		s := ApplyRemaining(*c.session, c.timer.RemainingPtr())
		c.session = &s
	}
	return cmd
}

// SelectAnswer records an answer on the active block. Answering the last
// open question completes the block.
func (c *Controller) SelectAnswer(questionID, label string) tea.Cmd {
	if c.session == nil || c.session.Completed {
		return nil
	}
	s := SelectAnswer(*c.session, questionID, label, c.now())
	if s.Completed {
		return c.finish(s)
	}
	c.session = &s
	return nil
}

// GoToQuestion moves the active block to index.
func (c *Controller) GoToQuestion(index int) {
	if c.session == nil {
		return
	}
	s := GoToQuestion(*c.session, index, c.now())
	c.session = &s
}

// RevealExplanation marks a question revealed.
func (c *Controller) RevealExplanation(questionID string) {
	if c.session == nil {
		return
	}
	s := Reveal(*c.session, questionID)
	c.session = &s
}

// CompleteSession completes the active block. Repeated calls do nothing.
func (c *Controller) CompleteSession() tea.Cmd {
	if c.session == nil || c.session.Completed {
		return nil
	}
	return c.finish(Complete(*c.session, c.now()))
}

// ResetSession discards the block without persisting anything. An
// in-flight start is abandoned.
func (c *Controller) ResetSession() {
	c.timer = c.timer.Stop()
	c.session = nil
	c.loading = false
	c.err = nil
	c.startSeq++
}

// finish installs a freshly completed block, stops the countdown and
// schedules persistence and analytics.
func (c *Controller) finish(s Session) tea.Cmd {
	c.timer = c.timer.Stop()
	c.session = &s
	if s.Summary == nil {
		return nil
	}

	sum := *s.Summary
	c.last = &sum

	var cmds []tea.Cmd
	if c.summaries != nil {
		store, timeout := c.summaries, c.timeout
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			return summarySavedMsg{sessionID: s.ID, err: store.SaveLast(ctx, sum)}
		})
	}
	if c.dispatcher != nil {
		d := c.dispatcher
		cmds = append(cmds, func() tea.Msg {
			failures := d.RecordSummary(context.Background(), s.ID, sum)
			return performanceRecordedMsg{sessionID: s.ID, failures: failures}
		})
	}
	return tea.Batch(cmds...)
}

// LoadLastSummary reads the persisted summary for the recent performance
// panel. A summary completed in this process takes precedence.
func (c *Controller) LoadLastSummary() tea.Cmd {
	if c.summaries == nil {
		return nil
	}
	store, timeout := c.summaries, c.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		s, err := store.Last(ctx)
		return lastSummaryMsg{summary: s, err: err}
	}
}

// Session returns a copy of the active block, or nil.
func (c *Controller) Session() *Session {
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// Loading reports whether a start request is in flight.
func (c *Controller) Loading() bool { return c.loading }

// Err returns the last start failure.
func (c *Controller) Err() error { return c.err }

// ErrorMessage returns Err as display text.
func (c *Controller) ErrorMessage() string {
	if c.err == nil {
		return ""
	}
	return c.err.Error()
}

// LastSummary returns the most recent summary known to this controller.
func (c *Controller) LastSummary() *summary.Summary { return c.last }

// TimerID identifies the countdown messages this controller consumes.
func (c *Controller) TimerID() int { return c.timer.ID() }
