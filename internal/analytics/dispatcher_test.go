package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/abhisek/examprep/internal/question"
	"github.com/abhisek/examprep/internal/summary"
)

type captureRecorder struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (c *captureRecorder) Record(_ context.Context, e Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return c.err
}

func testSummary() summary.Summary {
	sel := "B"
	return summary.Summary{
		Mode:  question.ModeTutor,
		Total: 2,
		Performances: []summary.Performance{
			{QuestionID: "q1", Index: 0, Selected: &sel, CorrectAnswer: "B", Correct: true, ElapsedSeconds: 12},
			{QuestionID: "q2", Index: 1, CorrectAnswer: "A", ElapsedSeconds: 3},
		},
		CompletedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestEventsFromSummary(t *testing.T) {
	events := EventsFromSummary("sess-1", testSummary())
	require.Len(t, events, 2)

	assert.Equal(t, "sess-1", events[0].SessionID)
	assert.Equal(t, question.ModeTutor, events[0].Mode)
	assert.True(t, events[0].Correct)
	assert.Equal(t, 12, events[0].ElapsedSeconds)
	assert.Nil(t, events[1].Selected)
	assert.Equal(t, testSummary().CompletedAt, events[1].RecordedAt)
}

func TestDispatcher_FansOutToEveryRecorder(t *testing.T) {
	a := &captureRecorder{}
	b := &captureRecorder{}
	d := NewDispatcher(zap.NewNop(), rate.Inf, 1, a, b)

	failures := d.RecordSummary(context.Background(), "sess-1", testSummary())

	assert.Equal(t, 0, failures)
	assert.Len(t, a.events, 2)
	assert.Len(t, b.events, 2)
}

func TestDispatcher_FailuresAreCountedNotReturned(t *testing.T) {
	failing := &captureRecorder{err: errors.New("backend down")}
	ok := &captureRecorder{}
	d := NewDispatcher(nil, rate.Inf, 1, failing, ok)

	failures := d.RecordSummary(context.Background(), "sess-1", testSummary())

	assert.Equal(t, 2, failures)
	assert.Len(t, failing.events, 2, "failed deliveries must not be retried")
	assert.Len(t, ok.events, 2)
}

func TestDispatcher_RecoversFromPanickingRecorder(t *testing.T) {
	boom := RecorderFunc(func(context.Context, Event) error { panic("boom") })
	d := NewDispatcher(nil, rate.Inf, 1, boom)

	assert.Equal(t, 2, d.RecordSummary(context.Background(), "s", testSummary()))
}

func TestDispatcher_CancelledContextAbandonsRemaining(t *testing.T) {
	rec := &captureRecorder{}
	d := NewDispatcher(nil, rate.Every(time.Hour), 1, rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	failures := d.RecordSummary(ctx, "s", testSummary())
	assert.Equal(t, 2, failures)
	assert.Empty(t, rec.events)
}

func TestDispatcher_NilIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.Equal(t, 0, d.RecordSummary(context.Background(), "s", testSummary()))
}

type fakeChannel struct {
	exchange string
	key      string
	msgs     []amqp.Publishing
	err      error
	closed   bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange = exchange
	f.key = key
	f.msgs = append(f.msgs, msg)
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPPublisher_Record(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, exchange: "examprep"}

	e := EventsFromSummary("sess-1", testSummary())[0]
	require.NoError(t, p.Record(context.Background(), e))

	assert.Equal(t, "examprep", ch.exchange)
	assert.Equal(t, RoutingKeyPerformance, ch.key)
	require.Len(t, ch.msgs, 1)
	assert.Equal(t, "application/json", ch.msgs[0].ContentType)
	assert.Equal(t, amqp.Persistent, ch.msgs[0].DeliveryMode)

	var got Event
	require.NoError(t, json.Unmarshal(ch.msgs[0].Body, &got))
	assert.Equal(t, "q1", got.QuestionID)
	assert.True(t, got.Correct)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	p := &AMQPPublisher{ch: &fakeChannel{err: errors.New("channel closed")}, exchange: "x"}
	err := p.Record(context.Background(), Event{QuestionID: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}
