package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/abhisek/examprep/internal/assessment"
)

var _ assessment.Backend = (*Client)(nil)

type createResponse struct {
	AssessmentID  json.RawMessage `json:"assessmentId"`
	QuestionCount int             `json:"questionCount"`
	Status        string          `json:"status"`
}

// Create registers a new assessment from bp.
func (c *Client) Create(ctx context.Context, bp assessment.Blueprint) (assessment.Created, error) {
	var resp createResponse
	if err := c.do(ctx, http.MethodPost, "/assessments", endpointCreate, bp, &resp); err != nil {
		return assessment.Created{}, fmt.Errorf("create assessment: %w", err)
	}
	id, err := normalizeID(resp.AssessmentID)
	if err != nil {
		return assessment.Created{}, fmt.Errorf("create assessment: %w",
			&InvalidResponseError{Endpoint: endpointCreate, Err: fmt.Errorf("assessmentId: %w", err)})
	}
	return assessment.Created{AssessmentID: id, QuestionCount: resp.QuestionCount, Status: resp.Status}, nil
}

type startResponse struct {
	AssessmentID     json.RawMessage `json:"assessmentId"`
	StartedAt        *time.Time      `json:"startedAt"`
	ExpiresAt        *time.Time      `json:"expiresAt"`
	TimeLimitSeconds *int            `json:"timeLimitSeconds"`
	Questions        []wireQuestion  `json:"questions"`
}

// Start begins the assessment and returns its fixed question list.
func (c *Client) Start(ctx context.Context, assessmentID string) (assessment.Started, error) {
	path := "/assessments/" + url.PathEscape(assessmentID) + "/start"

	var resp startResponse
	if err := c.do(ctx, http.MethodPost, path, endpointStart, struct{}{}, &resp); err != nil {
		return assessment.Started{}, fmt.Errorf("start assessment: %w", err)
	}

	id, err := normalizeID(resp.AssessmentID)
	if err != nil {
		return assessment.Started{}, fmt.Errorf("start assessment: %w",
			&InvalidResponseError{Endpoint: endpointStart, Err: fmt.Errorf("assessmentId: %w", err)})
	}
	questions, err := normalizeQuestions(resp.Questions, false)
	if err != nil {
		return assessment.Started{}, fmt.Errorf("start assessment: %w",
			&InvalidResponseError{Endpoint: endpointStart, Err: err})
	}

	started := assessment.Started{
		AssessmentID:     id,
		ExpiresAt:        resp.ExpiresAt,
		TimeLimitSeconds: resp.TimeLimitSeconds,
		Questions:        questions,
	}
	if resp.StartedAt != nil {
		started.StartedAt = *resp.StartedAt
	}
	return started, nil
}

type submitRequest struct {
	Responses []assessment.Response `json:"responses"`
}

type submitResponse struct {
	AssessmentID json.RawMessage  `json:"assessmentId"`
	SubmittedAt  *time.Time       `json:"submittedAt"`
	Score        assessment.Score `json:"score"`
}

// Submit sends the responses and returns the scored submission.
func (c *Client) Submit(ctx context.Context, assessmentID string, responses []assessment.Response) (assessment.Submission, error) {
	path := "/assessments/" + url.PathEscape(assessmentID) + "/submit"

	var resp submitResponse
	if err := c.do(ctx, http.MethodPost, path, endpointSubmit, submitRequest{Responses: responses}, &resp); err != nil {
		return assessment.Submission{}, fmt.Errorf("submit assessment: %w", err)
	}

	id, err := normalizeID(resp.AssessmentID)
	if err != nil {
		return assessment.Submission{}, fmt.Errorf("submit assessment: %w",
			&InvalidResponseError{Endpoint: endpointSubmit, Err: fmt.Errorf("assessmentId: %w", err)})
	}

	sub := assessment.Submission{AssessmentID: id, Score: resp.Score}
	if resp.SubmittedAt != nil {
		sub.SubmittedAt = *resp.SubmittedAt
	}
	return sub, nil
}
