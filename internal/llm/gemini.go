package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/jonathan/resume-parser/internal/logging"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiClient implements Client on top of the generative-ai-go SDK
type GeminiClient struct {
	client *genai.Client
	config *Config
	apiKey string
}

// NewGeminiClient creates a new Gemini SDK client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config.withDefaults(),
		apiKey: apiKey,
	}, nil
}

// Complete sends prompt through the SDK. The system instruction travels as
// SystemInstruction rather than a leading text part.
func (c *GeminiClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	model := c.client.GenerativeModel(c.config.Model)
	model.SetTemperature(*c.config.Temperature)
	model.SetMaxOutputTokens(c.config.MaxOutputTokens)
	if prompt.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(prompt.System)}}
	}

	parts, err := toGenaiParts(prompt.Parts)
	if err != nil {
		return "", &CallError{Reason: ReasonTransport, Cause: err}
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		callErr := c.mapError(err)
		logging.Ctx(ctx).Error().
			Str("model", c.config.Model).
			Int("status", callErr.StatusCode).
			Str("reason", string(callErr.Reason)).
			Msg("llm request failed")
		return "", callErr
	}

	text, ok := firstGenaiText(resp)
	if !ok {
		detail := emptyCompletionDetail(resp)
		logging.Ctx(ctx).Warn().Str("model", c.config.Model).Str("body", detail).Msg("llm response had no completion text")
		return "", &CallError{Reason: ReasonEmptyCompletion, Body: detail}
	}
	return text, nil
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func toGenaiParts(parts []Part) ([]genai.Part, error) {
	out := make([]genai.Part, 0, len(parts))
	for _, p := range parts {
		if !p.IsInline() {
			out = append(out, genai.Text(p.Text))
			continue
		}
		data, err := base64.StdEncoding.DecodeString(p.Data)
		if err != nil {
			return nil, fmt.Errorf("decode inline %s data: %w", p.MIMEType, err)
		}
		out = append(out, genai.Blob{MIMEType: p.MIMEType, Data: data})
	}
	return out, nil
}

// mapError converts SDK errors into CallError, keeping status and body when the API supplied them.
func (c *GeminiClient) mapError(err error) *CallError {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &CallError{Reason: ReasonEmptyCompletion, Body: logging.Redact(blocked.Error(), c.apiKey)}
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPCode() > 0 {
		return &CallError{
			Reason:     ReasonStatus,
			StatusCode: apiErr.HTTPCode(),
			Body:       logging.Redact(apiErr.Error(), c.apiKey),
		}
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		body := gErr.Body
		if body == "" {
			body = gErr.Message
		}
		return &CallError{
			Reason:     ReasonStatus,
			StatusCode: gErr.Code,
			Body:       logging.Redact(body, c.apiKey),
		}
	}

	return &CallError{Reason: ReasonTransport, Cause: redactError(err, c.apiKey)}
}

func firstGenaiText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", false
	}
	text, ok := candidate.Content.Parts[0].(genai.Text)
	if !ok || text == "" {
		return "", false
	}
	return string(text), true
}

// emptyCompletionDetail names the block and finish reasons the API gave for a textless response.
func emptyCompletionDetail(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var fields []string
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		fields = append(fields, "blockReason="+resp.PromptFeedback.BlockReason.String())
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		fields = append(fields, "finishReason="+resp.Candidates[0].FinishReason.String())
	}
	return strings.Join(fields, " ")
}
