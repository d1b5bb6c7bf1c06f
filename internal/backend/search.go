package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/abhisek/examprep/internal/question"
)

// FetchFilters returns the values the search backend accepts per filter
// dimension.
func (c *Client) FetchFilters(ctx context.Context) (question.FilterOptions, error) {
	var opts question.FilterOptions
	if err := c.do(ctx, http.MethodGet, "/filters", endpointFilters, nil, &opts); err != nil {
		return question.FilterOptions{}, fmt.Errorf("fetch filters: %w", err)
	}
	opts.Tags = question.NormalizeTags(opts.Tags)
	return opts, nil
}

type searchRequest struct {
	Query    string             `json:"query,omitempty"`
	Tags     []string           `json:"tags,omitempty"`
	Metadata *question.Metadata `json:"metadata,omitempty"`
	Limit    int                `json:"limit"`
	Offset   int                `json:"offset"`
}

type searchResponse struct {
	Data       []wireQuestion      `json:"data"`
	Pagination question.Pagination `json:"pagination"`
}

// Search returns one page of questions matching q.
func (c *Client) Search(ctx context.Context, q question.SearchQuery) (question.Page, error) {
	req := searchRequest{
		Query:  q.Query,
		Tags:   q.Tags,
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if q.Metadata != (question.Metadata{}) {
		md := q.Metadata
		req.Metadata = &md
	}

	var resp searchResponse
	if err := c.do(ctx, http.MethodPost, "/questions/search", endpointSearch, req, &resp); err != nil {
		return question.Page{}, fmt.Errorf("search questions: %w", err)
	}

	questions, err := normalizeQuestions(resp.Data, true)
	if err != nil {
		return question.Page{}, fmt.Errorf("search questions: %w", &InvalidResponseError{Endpoint: endpointSearch, Err: err})
	}

	p := resp.Pagination
	if p.Returned == 0 {
		p.Returned = len(questions)
	}
	if p.Limit == 0 {
		p.Limit = q.Limit
	}
	if p.Offset == 0 {
		p.Offset = q.Offset
	}
	return question.Page{Questions: questions, Pagination: p}, nil
}
