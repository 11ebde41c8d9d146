package parsing

import (
	"encoding/json"
	"strconv"

	"github.com/jonathan/resume-parser/internal/types"
)

// Normalize coerces a recovered object into a ParsedResume. It never fails.
//
// String fields keep string values and render JSON numbers as their literal text;
// anything else becomes "". List fields are used only when the value is an array.
// Skills keep string and number elements. Education and experience keep object
// elements, with each nested field coerced by the string rule.
func Normalize(data map[string]any) types.ParsedResume {
	return types.ParsedResume{
		Name:       stringValue(data["name"]),
		Email:      stringValue(data["email"]),
		Phone:      stringValue(data["phone"]),
		Skills:     stringList(data["skills"]),
		Education:  educationList(data["education"]),
		Experience: experienceList(data["experience"]),
	}
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch item.(type) {
		case string, json.Number, float64:
			out = append(out, stringValue(item))
		}
	}
	return out
}

func educationList(v any) []types.EducationEntry {
	items, _ := v.([]any)
	out := make([]types.EducationEntry, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, types.EducationEntry{
			Degree: stringValue(obj["degree"]),
			School: stringValue(obj["school"]),
			Year:   stringValue(obj["year"]),
		})
	}
	return out
}

func experienceList(v any) []types.ExperienceEntry {
	items, _ := v.([]any)
	out := make([]types.ExperienceEntry, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, types.ExperienceEntry{
			Title:    stringValue(obj["title"]),
			Company:  stringValue(obj["company"]),
			Duration: stringValue(obj["duration"]),
		})
	}
	return out
}
