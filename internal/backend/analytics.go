package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/abhisek/examprep/internal/analytics"
	"github.com/abhisek/examprep/internal/assessment"
)

var (
	_ analytics.Recorder         = (*Client)(nil)
	_ assessment.AnalyticsSource = (*Client)(nil)
)

// FetchLatest returns the most recent aggregate analytics snapshot.
func (c *Client) FetchLatest(ctx context.Context) (analytics.Snapshot, error) {
	var snap analytics.Snapshot
	if err := c.do(ctx, http.MethodGet, "/analytics/latest", endpointAnalytics, nil, &snap); err != nil {
		return analytics.Snapshot{}, fmt.Errorf("fetch analytics: %w", err)
	}
	return snap, nil
}

// Record posts one performance event.
func (c *Client) Record(ctx context.Context, e analytics.Event) error {
	if err := c.do(ctx, http.MethodPost, "/analytics/events", endpointEvents, e, nil); err != nil {
		return fmt.Errorf("record performance event: %w", err)
	}
	return nil
}
