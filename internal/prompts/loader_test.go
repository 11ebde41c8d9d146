package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("resume.json", "system")
	require.NoError(t, err)
	assert.Contains(t, prompt, "extracts structured data from resumes")
	assert.Contains(t, prompt, "valid JSON only")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("resume.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	ClearCache()

	assert.NotPanics(t, func() {
		prompt := MustGet("resume.json", "extract-text")
		assert.NotEmpty(t, prompt)
	})
}

func TestRender_TextPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Render("resume.json", "extract-text", map[string]string{
		"ResumeText": "Jane Doe, jane@x.com",
		"Schema":     `{"name": "Full Name"}`,
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Extract structured JSON data from this resume: Jane Doe, jane@x.com")
	assert.Contains(t, prompt, `{"name": "Full Name"}`)
	assert.Contains(t, prompt, "use an empty string for strings or empty array for arrays")
	assert.NotContains(t, prompt, "{{.")
}

func TestRender_MissingPlaceholder(t *testing.T) {
	ClearCache()

	_, err := Render("resume.json", "extract-text", map[string]string{"Schema": "{}"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ResumeText")
}

func TestRender_ValuesAreNotReexpanded(t *testing.T) {
	ClearCache()

	prompt, err := Render("resume.json", "extract-text", map[string]string{
		"ResumeText": "literal {{.Schema}} in resume",
		"Schema":     "SCHEMA",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "literal {{.Schema}} in resume")
}

func TestCaching(t *testing.T) {
	ClearCache()

	// First call loads from file
	prompt1, err := Get("resume.json", "extract-binary")
	require.NoError(t, err)

	// Second call should use cache
	prompt2, err := Get("resume.json", "extract-binary")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
