package store

import (
	"context"

	"github.com/abhisek/examprep/internal/analytics"
	"github.com/abhisek/examprep/internal/summary"
)

// LastSummaryKey is the single key holding the most recent practice summary.
const LastSummaryKey = "practice:last-summary"

// SummaryRepo persists the most recent practice summary. Each save
// overwrites the previous value.
type SummaryRepo interface {
	// SaveLast overwrites the stored summary.
	SaveLast(ctx context.Context, s summary.Summary) error

	// Last returns the stored summary, or nil if none was saved.
	Last(ctx context.Context) (*summary.Summary, error)
}

// EventRepo is the local append-only log of question performance events.
type EventRepo interface {
	// Record appends one performance event. It satisfies analytics.Recorder.
	Record(ctx context.Context, e analytics.Event) error

	// SessionEvents returns the events of one session in append order.
	SessionEvents(ctx context.Context, sessionID string) ([]analytics.Event, error)

	// RecentAccuracy returns the accuracy over the last limit events and the
	// number of events considered.
	RecentAccuracy(ctx context.Context, limit int) (float64, int, error)
}

var _ analytics.Recorder = EventRepo(nil)
