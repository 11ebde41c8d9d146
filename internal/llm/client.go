package llm

import (
	"context"
	"fmt"
)

// Client is an abstraction over the generation endpoint
type Client interface {
	// Complete sends prompt in a single call and returns the raw completion text.
	// Failures are reported as *CallError.
	Complete(ctx context.Context, prompt Prompt) (string, error)
	// Close releases any resources held by the client
	Close() error
}

// Part is one content part of a prompt: either text or inline binary data.
type Part struct {
	Text     string
	MIMEType string // inline parts only
	Data     string // inline parts only, base64 std encoding
}

// TextPart returns a text content part
func TextPart(text string) Part {
	return Part{Text: text}
}

// InlinePart returns an inline data part holding base64 content
func InlinePart(mimeType, base64Data string) Part {
	return Part{MIMEType: mimeType, Data: base64Data}
}

// IsInline reports whether the part carries binary data
func (p Part) IsInline() bool {
	return p.MIMEType != ""
}

// Prompt is the full model input: a system instruction followed by content parts.
type Prompt struct {
	System string
	Parts  []Part
}

// AllParts returns the system instruction as a leading text part followed by Parts.
func (p Prompt) AllParts() []Part {
	parts := make([]Part, 0, len(p.Parts)+1)
	if p.System != "" {
		parts = append(parts, TextPart(p.System))
	}
	return append(parts, p.Parts...)
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	config = config.withDefaults()

	switch config.Transport {
	case TransportREST:
		return NewRESTClient(config, apiKey, nil)
	case TransportSDK:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unknown LLM transport %q", config.Transport)
	}
}
