// Package server provides the HTTP API for resume extraction.
package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/logging"
	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/types"
)

// maxDetailsLength caps the diagnostic text echoed back to clients
const maxDetailsLength = 2000

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return "validation error: " + e.Field + " - " + e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		invalid     *parsing.InvalidInputError
		unsupported *parsing.UnsupportedMediaTypeError
		configErr   *parsing.ConfigurationError
		callErr     *llm.CallError
		unparsable  *parsing.UnparsableResponseError
		validation  *ErrValidation
		tooLarge    *http.MaxBytesError
	)

	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.Is(err, parsing.ErrDocumentTooLarge), errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &invalid), errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &configErr):
		return http.StatusInternalServerError
	case errors.As(err, &callErr), errors.As(err, &unparsable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody builds the client-facing error for err. apiKey is scrubbed from details.
func ErrorBody(err error, apiKey string) types.ErrorResponse {
	var (
		invalid     *parsing.InvalidInputError
		unsupported *parsing.UnsupportedMediaTypeError
		configErr   *parsing.ConfigurationError
		callErr     *llm.CallError
		unparsable  *parsing.UnparsableResponseError
		validation  *ErrValidation
		tooLarge    *http.MaxBytesError
	)

	var resp types.ErrorResponse
	switch {
	case errors.As(err, &tooLarge):
		resp.Error = "Request body too large"
	case errors.As(err, &invalid):
		resp.Error = invalid.Message
	case errors.As(err, &validation):
		resp.Error = validation.Message
	case errors.As(err, &unsupported):
		resp.Error = "Unsupported file type"
		resp.Details = unsupported.MediaType
	case errors.As(err, &configErr):
		resp.Error = configErr.Message
	case errors.As(err, &callErr):
		resp.Error = "Failed to call Gemini API"
		if callErr.Reason == llm.ReasonEmptyCompletion {
			resp.Error = "No response from Gemini"
		}
		resp.Details = callErr.Body
		if resp.Details == "" && callErr.Cause != nil {
			resp.Details = callErr.Cause.Error()
		}
	case errors.As(err, &unparsable):
		resp.Error = "Failed to parse AI response"
		resp.Details = unparsable.Raw
	default:
		resp.Error = "Internal server error"
	}

	resp.Details = logging.Truncate(logging.Redact(resp.Details, apiKey), maxDetailsLength)
	return resp
}
