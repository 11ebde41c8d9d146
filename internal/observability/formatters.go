// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/resume-parser/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, fit(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, fit(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// fit truncates line to the box's inner width, counting runes
func fit(line string) string {
	runes := []rune(line)
	if len(runes) > boxWidth-4 {
		return string(runes[:boxWidth-7]) + "..."
	}
	return line
}

// orDash renders empty values visibly
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// PrintParsedResume outputs a human-readable summary of an extracted resume.
func (p *Printer) PrintParsedResume(source string, resume *types.ParsedResume) {
	if resume == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:   %s\n", orDash(resume.Name)))
	sb.WriteString(fmt.Sprintf("Email:  %s\n", orDash(resume.Email)))
	sb.WriteString(fmt.Sprintf("Phone:  %s\n", orDash(resume.Phone)))
	sb.WriteString("\n")

	if len(resume.Skills) > 0 {
		count := min(len(resume.Skills), maxItemsToShow*2)
		sb.WriteString(fmt.Sprintf("Skills (%d):\n", len(resume.Skills)))
		sb.WriteString("  " + strings.Join(resume.Skills[:count], ", ") + "\n")
		if len(resume.Skills) > count {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(resume.Skills)-count))
		}
		sb.WriteString("\n")
	}

	if len(resume.Education) > 0 {
		sb.WriteString("Education:\n")
		count := min(len(resume.Education), maxItemsToShow)
		for _, e := range resume.Education[:count] {
			sb.WriteString(fmt.Sprintf("  • %s, %s", orDash(e.Degree), orDash(e.School)))
			if e.Year != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", e.Year))
			}
			sb.WriteString("\n")
		}
		if len(resume.Education) > count {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(resume.Education)-count))
		}
		sb.WriteString("\n")
	}

	if len(resume.Experience) > 0 {
		sb.WriteString("Experience:\n")
		count := min(len(resume.Experience), maxItemsToShow)
		for _, e := range resume.Experience[:count] {
			sb.WriteString(fmt.Sprintf("  • %s @ %s", orDash(e.Title), orDash(e.Company)))
			if e.Duration != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", e.Duration))
			}
			sb.WriteString("\n")
		}
		if len(resume.Experience) > count {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(resume.Experience)-count))
		}
	}

	title := "PARSED RESUME"
	if source != "" {
		title += ": " + source
	}
	p.printBox(title, sb.String())
}

// FileResult is the outcome of parsing one input file
type FileResult struct {
	Path     string
	Output   string // written JSON path; empty when printed to stdout
	Err      error
	Duration time.Duration
}

// PrintBatchSummary outputs per-file outcomes for a multi-file parse run.
func (p *Printer) PrintBatchSummary(results []FileResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			sb.WriteString(fmt.Sprintf("✗ %s: %v\n", r.Path, r.Err))
			continue
		}
		line := fmt.Sprintf("✓ %s (%s)", r.Path, r.Duration.Round(time.Millisecond))
		if r.Output != "" {
			line += " -> " + r.Output
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString(fmt.Sprintf("\n%d succeeded, %d failed\n", len(results)-failed, failed))

	p.printBox("PARSE SUMMARY", sb.String())
}
