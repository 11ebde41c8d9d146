package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-parser/internal/logging"
	"github.com/jonathan/resume-parser/internal/parsing"
	"github.com/jonathan/resume-parser/internal/types"
)

// handleParseText extracts a resume from a JSON body {"resumeText": "..."}
func (s *Server) handleParseText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartOverhead)

	var req types.ParseTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.failure(w, r, err)
			return
		}
		s.failure(w, r, &ErrValidation{Field: "body", Message: "Invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			s.failure(w, r, &ErrValidation{Field: verrs[0].Field(), Message: "Resume text is required"})
			return
		}
		s.failure(w, r, &ErrValidation{Field: "resumeText", Message: err.Error()})
		return
	}

	resume, err := s.parser.ParseText(r.Context(), req.ResumeText)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

// handleParseDocument extracts a resume from the multipart field "file"
func (s *Server) handleParseDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			s.failure(w, r, err)
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			s.failure(w, r, &parsing.InvalidInputError{Message: "No file uploaded"})
		default:
			s.failure(w, r, &parsing.InvalidInputError{Message: "Invalid multipart form", Cause: err})
		}
		return
	}
	defer file.Close()
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll() //nolint:errcheck
	}

	resume, err := s.parser.ParseDocument(r.Context(), parsing.Document{
		Name:      header.Filename,
		MediaType: header.Header.Get("Content-Type"),
		Body:      file,
	})
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

// failure logs err and writes the mapped error response
func (s *Server) failure(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	event := logging.Ctx(r.Context()).Info()
	if status >= http.StatusInternalServerError {
		event = logging.Ctx(r.Context()).Error()
	}
	event.Err(err).Int("status", status).Msg("parse request failed")
	s.jsonResponse(w, status, ErrorBody(err, s.apiKey))
}
