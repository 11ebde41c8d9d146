// Package schemas holds the JSON Schemas for the records this module produces.
package schemas

import _ "embed"

// ParsedResumePath is the repository-relative location of the ParsedResume schema
const ParsedResumePath = "schemas/parsed_resume.schema.json"

// ParsedResume is the ParsedResume schema document
//
//go:embed parsed_resume.schema.json
var ParsedResume string
