package research

import (
	"errors"
	"fmt"
)

// Failure messages, one per operation
const (
	MsgSearch          = "Failed to perform search"
	MsgWikipediaSearch = "Failed to perform Wikipedia search"
	MsgSimilar         = "Failed to find similar profiles"
	MsgSummary         = "Failed to process summary request"
	MsgRoast           = "Failed to process roast request"
	MsgPraise          = "Failed to process praise request"
	MsgCareer          = "Failed to generate career information"
	MsgFunFacts        = "Failed to generate fun facts"
)

// ErrEmptyCareer is returned when the model produced no skills or no timeline.
var ErrEmptyCareer = &OperationError{Message: MsgCareer}

// OperationError is a downstream failure of a research operation. Its
// message is safe to return to API clients.
type OperationError struct {
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s | %v", e.Message, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func fail(message string, err error) error {
	return &OperationError{Message: message, Err: err}
}

// RequiredError reports a missing input.
type RequiredError struct {
	Field string
}

func (e *RequiredError) Error() string {
	return e.Field + " is required"
}

// IsRequired reports whether err is caused by missing input.
func IsRequired(err error) bool {
	var reqErr *RequiredError
	return errors.As(err, &reqErr)
}
