package analytics

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/abhisek/examprep/internal/summary"
)

// DefaultRate and DefaultBurst bound how fast a completed block is fanned
// out to the recorders.
const (
	DefaultRate  = rate.Limit(20)
	DefaultBurst = 5
)

// Dispatcher records every question performance of a completed block to a
// set of recorders. Recording is best effort: failures are logged and never
// retried or returned to the caller.
type Dispatcher struct {
	recorders []Recorder
	limiter   *rate.Limiter
	log       *zap.Logger

	// Timeout bounds the whole fan-out for one summary.
	Timeout time.Duration
}

// NewDispatcher creates a Dispatcher. A nil logger disables logging.
func NewDispatcher(log *zap.Logger, limit rate.Limit, burst int, recorders ...Recorder) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if burst < 1 {
		burst = 1
	}
	return &Dispatcher{
		recorders: recorders,
		limiter:   rate.NewLimiter(limit, burst),
		log:       log,
		Timeout:   30 * time.Second,
	}
}

// RecordSummary sends one event per question to every recorder and returns
// the number of failed deliveries.
func (d *Dispatcher) RecordSummary(ctx context.Context, sessionID string, s summary.Summary) int {
	if d == nil || len(d.recorders) == 0 {
		return 0
	}
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	events := EventsFromSummary(sessionID, s)
	total := len(events) * len(d.recorders)
	failures := 0
	attempted := 0
	for _, e := range events {
		for _, r := range d.recorders {
			if err := d.limiter.Wait(ctx); err != nil {
				d.log.Warn("analytics recording aborted",
					zap.String("session_id", sessionID),
					zap.Int("undelivered", total-attempted),
					zap.Error(err))
				return failures + total - attempted
			}
			attempted++
			if err := safeRecord(ctx, r, e); err != nil {
				failures++
				d.log.Warn("record question performance",
					zap.String("session_id", sessionID),
					zap.String("question_id", e.QuestionID),
					zap.Error(err))
			}
		}
	}
	return failures
}

func safeRecord(ctx context.Context, r Recorder, e Event) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("recorder panic: %v", p)
		}
	}()
	return r.Record(ctx, e)
}
