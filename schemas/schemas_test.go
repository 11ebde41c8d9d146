package schemas

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestParsedResumeSchema_ValidJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(ParsedResume), &v))
	assert.Equal(t, "ParsedResume", v["title"])
}

func TestParsedResumeSchema_Compiles(t *testing.T) {
	_, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(ParsedResume))
	assert.NoError(t, err)
}

func TestParsedResumeSchema_MatchesFile(t *testing.T) {
	data, err := os.ReadFile("parsed_resume.schema.json")
	require.NoError(t, err)
	assert.Equal(t, string(data), ParsedResume)
}

func TestParsedResumeSchema_RequiresAllKeys(t *testing.T) {
	var v struct {
		Required []string `json:"required"`
	}
	require.NoError(t, json.Unmarshal([]byte(ParsedResume), &v))
	assert.ElementsMatch(t, []string{"name", "email", "phone", "skills", "education", "experience"}, v.Required)
}
