// Package types provides type definitions for structured data used throughout the resume-parser system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// ParsedResume is the canonical record produced by the extraction pipeline.
// Every field is always populated; lists are never nil once normalized.
type ParsedResume struct {
	Name       string            `json:"name"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	Skills     []string          `json:"skills"`
	Education  []EducationEntry  `json:"education"`
	Experience []ExperienceEntry `json:"experience"`
}

// EducationEntry is a single degree listed on a resume
type EducationEntry struct {
	Degree string `json:"degree"`
	School string `json:"school"`
	Year   string `json:"year"`
}

// ExperienceEntry is a single position listed on a resume
type ExperienceEntry struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Duration string `json:"duration"`
}

// EmptyParsedResume returns a record with every field at its empty default.
func EmptyParsedResume() ParsedResume {
	return ParsedResume{
		Skills:     []string{},
		Education:  []EducationEntry{},
		Experience: []ExperienceEntry{},
	}
}

// ParseTextRequest is the request body for parsing raw resume text.
type ParseTextRequest struct {
	ResumeText string `json:"resumeText" validate:"required"`
}

// Validate validates the ParseTextRequest using the validator.
func (r *ParseTextRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ErrorResponse is the body returned for any failed parse request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
