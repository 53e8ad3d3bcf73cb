package search

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnsupported is returned when a provider cannot perform an operation.
var ErrUnsupported = errors.New("operation not supported by search provider")

// APIError is returned when the search API answers with a non-2xx status.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 300 {
		body = body[:300] + "..."
	}
	return fmt.Sprintf("%s API request failed with status %d: %s", e.Provider, e.StatusCode, body)
}

// ResearchFailedError is returned when a research task finishes unsuccessfully.
type ResearchFailedError struct {
	TaskID string
	Status string
}

func (e *ResearchFailedError) Error() string {
	return fmt.Sprintf("research task %s ended with status %s", e.TaskID, e.Status)
}
