package backend

import (
	"fmt"
	"net/http"
	"time"
)

// HTTPError indicates a backend answered with a non-2xx status.
type HTTPError struct {
	Method  string
	Path    string
	Status  int
	Message string

	// RetryAfter is the server-requested wait for 429/503 responses.
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Status, msg)
}

// Temporary reports whether the status is worth retrying.
func (e *HTTPError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// InvalidResponseError indicates a response that failed schema validation
// or could not be normalized into domain types.
type InvalidResponseError struct {
	Endpoint string
	Err      error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("invalid response from %s: %v", e.Endpoint, e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// TransportError indicates the request never produced an HTTP response.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: backend unreachable: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
