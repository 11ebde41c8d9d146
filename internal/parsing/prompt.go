package parsing

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/prompts"
	"github.com/jonathan/resume-parser/internal/types"
)

const promptFile = "resume.json"

// systemInstruction is embedded at build time; a missing key is a programming error
var systemInstruction = prompts.MustGet(promptFile, "system")

// BuildPrompt assembles the model input for payload: the system instruction, the task
// instruction with the output schema, and for binary documents an inline data part.
// The result depends only on payload.
func BuildPrompt(payload types.DocumentPayload) (llm.Prompt, error) {
	schema := llm.ResumeSchema().RenderExample()

	if !payload.IsBinary() {
		task, err := prompts.Render(promptFile, "extract-text", map[string]string{
			"ResumeText": payload.Content,
			"Schema":     schema,
		})
		if err != nil {
			return llm.Prompt{}, err
		}
		return llm.Prompt{System: systemInstruction, Parts: []llm.Part{llm.TextPart(task)}}, nil
	}

	if payload.MIMEType == "" || payload.Base64 == "" {
		return llm.Prompt{}, fmt.Errorf("binary payload is missing media type or data")
	}
	task, err := prompts.Render(promptFile, "extract-binary", map[string]string{
		"DocumentKind": documentKind(payload.MIMEType),
		"Schema":       schema,
	})
	if err != nil {
		return llm.Prompt{}, err
	}
	return llm.Prompt{
		System: systemInstruction,
		Parts: []llm.Part{
			llm.TextPart(task),
			llm.InlinePart(payload.MIMEType, payload.Base64),
		},
	}, nil
}

// documentKind names a media type the way a person would, e.g. "PDF".
func documentKind(mediaType string) string {
	if mediaType == MediaTypePDF {
		return "PDF"
	}
	if _, sub, ok := strings.Cut(mediaType, "/"); ok && sub != "" {
		return strings.ToUpper(sub)
	}
	return mediaType
}
