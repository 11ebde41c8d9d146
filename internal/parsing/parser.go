package parsing

import (
	"context"

	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/logging"
	"github.com/jonathan/resume-parser/internal/types"
)

// Parser runs the extraction pipeline: load, build prompt, call the model, recover, normalize.
// It holds no per-request state and is safe for concurrent use.
type Parser struct {
	client llm.Client
	loader *Loader
}

// NewParser creates a Parser. A nil client makes every parse fail with ConfigurationError,
// which is how a missing API key surfaces. A nil loader uses default limits.
func NewParser(client llm.Client, loader *Loader) *Parser {
	if loader == nil {
		loader = NewLoader(0, nil)
	}
	return &Parser{client: client, loader: loader}
}

// Loader returns the document loader used by ParseDocument.
func (p *Parser) Loader() *Loader {
	return p.loader
}

// ParseText extracts a resume from raw text.
func (p *Parser) ParseText(ctx context.Context, text string) (*types.ParsedResume, error) {
	payload, err := LoadText(text)
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, payload)
}

// ParseDocument loads doc and extracts a resume from it.
func (p *Parser) ParseDocument(ctx context.Context, doc Document) (*types.ParsedResume, error) {
	payload, err := p.loader.Load(doc)
	if err != nil {
		logging.Ctx(ctx).Info().Err(err).Str("file", doc.Name).Msg("document rejected")
		return nil, err
	}
	return p.Parse(ctx, payload)
}

// Parse runs the pipeline on an already loaded payload.
func (p *Parser) Parse(ctx context.Context, payload types.DocumentPayload) (*types.ParsedResume, error) {
	logger := logging.Ctx(ctx)

	if p.client == nil {
		return nil, &ConfigurationError{Message: "Gemini API key not configured"}
	}

	prompt, err := BuildPrompt(payload)
	if err != nil {
		return nil, &InvalidInputError{Message: "failed to build prompt", Cause: err}
	}

	completion, err := p.client.Complete(ctx, prompt)
	if err != nil {
		logger.Error().Err(err).Str("payload_kind", string(payload.Kind)).Msg("llm call failed")
		return nil, err
	}

	data, err := Recover(completion)
	if err != nil {
		logger.Warn().Err(err).Str("raw", completion).Msg("could not recover JSON from completion")
		return nil, err
	}

	resume := Normalize(data)
	logger.Debug().
		Str("payload_kind", string(payload.Kind)).
		Int("skills", len(resume.Skills)).
		Int("education", len(resume.Education)).
		Int("experience", len(resume.Experience)).
		Msg("resume parsed")
	return &resume, nil
}
