// Package llm - extractor.go describes extraction output schemas and renders them for prompts.
package llm

import (
	"strings"
)

// ExtractionSchema defines the structure the model is asked to return.
type ExtractionSchema struct {
	Name   string        // Schema name (e.g., "ParsedResume")
	Fields []SchemaField // Expected output fields, in order
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name    string        // JSON field name
	Example string        // Placeholder value shown to the model for string fields
	List    bool          // Field is a JSON array
	Items   []SchemaField // Object element fields; empty means an array of strings
}

// RenderExample writes the schema as an indented JSON skeleton with placeholder values.
func (s ExtractionSchema) RenderExample() string {
	var sb strings.Builder
	writeObject(&sb, s.Fields, 0)
	return sb.String()
}

func writeObject(sb *strings.Builder, fields []SchemaField, depth int) {
	indent := strings.Repeat("  ", depth)
	sb.WriteString("{\n")
	for i, field := range fields {
		sb.WriteString(indent + "  \"" + field.Name + "\": ")
		switch {
		case field.List && len(field.Items) > 0:
			sb.WriteString("[\n" + indent + "    ")
			writeObject(sb, field.Items, depth+2)
			sb.WriteString("\n" + indent + "  ]")
		case field.List:
			sb.WriteString("[\"" + field.Example + "\"]")
		default:
			sb.WriteString("\"" + field.Example + "\"")
		}
		if i < len(fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(indent + "}")
}

// ResumeSchema returns the six-key schema the model must fill for a resume.
func ResumeSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "ParsedResume",
		Fields: []SchemaField{
			{Name: "name", Example: "Full Name"},
			{Name: "email", Example: "email@example.com"},
			{Name: "phone", Example: "phone number"},
			{Name: "skills", Example: "skill1", List: true},
			{
				Name: "education",
				List: true,
				Items: []SchemaField{
					{Name: "degree", Example: "Degree Name"},
					{Name: "school", Example: "School Name"},
					{Name: "year", Example: "Graduation Year"},
				},
			},
			{
				Name: "experience",
				List: true,
				Items: []SchemaField{
					{Name: "title", Example: "Job Title"},
					{Name: "company", Example: "Company Name"},
					{Name: "duration", Example: "Duration (e.g., 2 years, 2020-2022)"},
				},
			},
		},
	}
}
