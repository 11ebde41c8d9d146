package llm

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-parser/internal/logging"
)

// maxErrorBody bounds the response body quoted in CallError messages
const maxErrorBody = 2000

// ErrMissingAPIKey is returned when a client is constructed without a key
var ErrMissingAPIKey = errors.New("API key is required")

// FailureReason classifies a failed generation call
type FailureReason string

const (
	// ReasonTransport means the request never produced an HTTP response
	ReasonTransport FailureReason = "transport"
	// ReasonStatus means the endpoint answered with a non-2xx status
	ReasonStatus FailureReason = "status"
	// ReasonEmptyCompletion means a 2xx response carried no usable text
	ReasonEmptyCompletion FailureReason = "empty_completion"
)

// CallError represents a failed call to the generation endpoint.
// Body never contains the API key.
type CallError struct {
	Reason     FailureReason
	StatusCode int    // zero for transport failures
	Body       string // raw response body when available
	Cause      error
}

func (e *CallError) Error() string {
	switch e.Reason {
	case ReasonStatus:
		return fmt.Sprintf("LLM call failed: status %d: %s", e.StatusCode, logging.Truncate(e.Body, maxErrorBody))
	case ReasonEmptyCompletion:
		if e.Body != "" {
			return fmt.Sprintf("LLM call failed: no completion text in response: %s", logging.Truncate(e.Body, maxErrorBody))
		}
		return "LLM call failed: no completion text in response"
	default:
		if e.Cause != nil {
			return fmt.Sprintf("LLM call failed: %v", e.Cause)
		}
		return "LLM call failed"
	}
}

func (e *CallError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether repeating the same call may succeed.
func (e *CallError) Retryable() bool {
	switch e.Reason {
	case ReasonTransport:
		return true
	case ReasonStatus:
		return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
	default:
		return false
	}
}

// IsRetryable reports whether err is a CallError worth repeating.
func IsRetryable(err error) bool {
	var callErr *CallError
	if errors.As(err, &callErr) {
		return callErr.Retryable()
	}
	return false
}
