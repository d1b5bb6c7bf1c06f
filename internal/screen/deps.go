package screen

import (
	"context"

	"github.com/abhisek/examprep/internal/assessment"
	"github.com/abhisek/examprep/internal/practice"
	"github.com/abhisek/examprep/internal/preview"
	"github.com/abhisek/examprep/internal/question"
)

// FilterSource lists the accepted filter values.
type FilterSource interface {
	FetchFilters(ctx context.Context) (question.FilterOptions, error)
}

// AccuracySource reports accuracy over the most recent recorded answers.
type AccuracySource interface {
	RecentAccuracy(ctx context.Context, limit int) (float64, int, error)
}

// Deps are the engine components shared by every screen. The app feeds
// each message to Practice, Assessment and Preview before the active
// screen sees it, so screens only issue commands and read state.
type Deps struct {
	Practice   *practice.Controller
	Assessment *assessment.Lifecycle
	Preview    *preview.Paginator

	// Filters and Recent are optional.
	Filters FilterSource
	Recent  AccuracySource

	// CandidateID prefills the assessment form.
	CandidateID string
}
