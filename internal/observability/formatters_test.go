package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jonathan/resume-parser/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintParsedResume(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	resume := &types.ParsedResume{
		Name:   "Jane Doe",
		Email:  "jane@x.io",
		Skills: []string{"Go", "SQL"},
		Education: []types.EducationEntry{
			{Degree: "BSc", School: "MIT", Year: "2019"},
		},
		Experience: []types.ExperienceEntry{
			{Title: "SWE", Company: "Acme", Duration: "2019-2023"},
		},
	}

	p.PrintParsedResume("jane.pdf", resume)
	output := buf.String()

	assert.Contains(t, output, "PARSED RESUME: jane.pdf")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "Phone:  -")
	assert.Contains(t, output, "Go, SQL")
	assert.Contains(t, output, "BSc, MIT (2019)")
	assert.Contains(t, output, "SWE @ Acme (2019-2023)")
}

func TestPrintParsedResume_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintParsedResume("x", nil)
	assert.Empty(t, buf.String())
}

func TestPrintParsedResume_ManySkills(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	skills := make([]string, 15)
	for i := range skills {
		skills[i] = "s"
	}
	p.PrintParsedResume("", &types.ParsedResume{Skills: skills})

	assert.Contains(t, buf.String(), "Skills (15):")
	assert.Contains(t, buf.String(), "... and 5 more")
}

func TestPrintBatchSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintBatchSummary([]FileResult{
		{Path: "a.pdf", Output: "out/a.json", Duration: 1500 * time.Millisecond},
		{Path: "b.png", Err: errors.New("unsupported media type: image/png")},
	})
	output := buf.String()

	assert.Contains(t, output, "PARSE SUMMARY")
	assert.Contains(t, output, "✓ a.pdf (1.5s) -> out/a.json")
	assert.Contains(t, output, "✗ b.png")
	assert.Contains(t, output, "1 succeeded, 1 failed")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintParsedResume("", &types.ParsedResume{
		Name: strings.Repeat("Ünïcødé ", 20),
	})

	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
	assert.Contains(t, buf.String(), "...")
}
