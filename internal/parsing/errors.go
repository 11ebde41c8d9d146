package parsing

import (
	"errors"
	"fmt"
)

// ErrDocumentTooLarge is wrapped by InvalidInputError when a document exceeds the size limit
var ErrDocumentTooLarge = errors.New("document exceeds size limit")

// InvalidInputError represents a missing or empty document or text field
type InvalidInputError struct {
	Message string
	Cause   error
}

func (e *InvalidInputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid input: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Cause
}

// UnsupportedMediaTypeError represents a document whose media type is not accepted
type UnsupportedMediaTypeError struct {
	MediaType string
}

func (e *UnsupportedMediaTypeError) Error() string {
	if e.MediaType == "" {
		return "unsupported media type: unknown"
	}
	return fmt.Sprintf("unsupported media type: %s", e.MediaType)
}

// ConfigurationError represents missing process configuration, such as the API key
type ConfigurationError struct {
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// UnparsableResponseError represents a completion from which no JSON object could be recovered.
// Raw holds the completion text verbatim for diagnosis.
type UnparsableResponseError struct {
	Raw   string
	Cause error
}

func (e *UnparsableResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unparsable response: %v", e.Cause)
	}
	return "unparsable response"
}

func (e *UnparsableResponseError) Unwrap() error {
	return e.Cause
}
