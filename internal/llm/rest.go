package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-parser/internal/logging"
)

// apiKeyHeader carries the key so it never appears in URLs or request bodies.
const apiKeyHeader = "x-goog-api-key"

// RESTClient implements Client by posting to the generateContent endpoint directly.
type RESTClient struct {
	httpClient *http.Client
	config     *Config
	apiKey     string
}

// NewRESTClient creates a REST client. A nil httpClient gets one built from config.Timeout.
func NewRESTClient(config *Config, apiKey string, httpClient *http.Client) (*RESTClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	config = config.withDefaults()
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	return &RESTClient{
		httpClient: httpClient,
		config:     config,
		apiKey:     apiKey,
	}, nil
}

type generateRequest struct {
	Contents         []restContent    `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type restContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []restPart `json:"parts"`
}

type restPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int32   `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

// Complete posts prompt and returns candidates[0].content.parts[0].text.
func (c *RESTClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	reqID := uuid.New().String()
	logger := logging.Ctx(ctx).With().Str("llm_req_id", reqID).Str("model", c.config.Model).Logger()
	start := time.Now()

	body, err := json.Marshal(c.buildRequest(prompt))
	if err != nil {
		return "", &CallError{Reason: ReasonTransport, Cause: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", &CallError{Reason: ReasonTransport, Cause: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	logger.Debug().Int("content_length", len(body)).Msg("llm request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("llm request failed")
		return "", &CallError{Reason: ReasonTransport, Cause: redactError(err, c.apiKey)}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("llm response body close failed")
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &CallError{Reason: ReasonTransport, StatusCode: resp.StatusCode, Cause: fmt.Errorf("read response: %w", err)}
	}
	rawText := logging.Redact(string(raw), c.apiKey)

	logger.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(raw)).
		Dur("elapsed", time.Since(start)).
		Msg("llm response")

	if resp.StatusCode/100 != 2 {
		return "", &CallError{Reason: ReasonStatus, StatusCode: resp.StatusCode, Body: rawText}
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		logger.Warn().Err(err).Str("body", logging.Truncate(rawText, maxErrorBody)).Msg("llm response not decodable")
		return "", &CallError{Reason: ReasonEmptyCompletion, StatusCode: resp.StatusCode, Body: rawText, Cause: err}
	}
	text, ok := firstText(decoded)
	if !ok {
		logger.Warn().
			Int("status", resp.StatusCode).
			Str("body", logging.Truncate(rawText, maxErrorBody)).
			Msg("llm response had no completion text")
		return "", &CallError{Reason: ReasonEmptyCompletion, StatusCode: resp.StatusCode, Body: rawText}
	}
	return text, nil
}

// Close is a no-op; the underlying http.Client is shared.
func (c *RESTClient) Close() error {
	return nil
}

func (c *RESTClient) endpoint() string {
	base := strings.TrimRight(c.config.BaseURL, "/")
	return fmt.Sprintf("%s/models/%s:generateContent", base, url.PathEscape(c.config.Model))
}

func (c *RESTClient) buildRequest(prompt Prompt) generateRequest {
	all := prompt.AllParts()
	parts := make([]restPart, 0, len(all))
	for _, p := range all {
		if p.IsInline() {
			parts = append(parts, restPart{InlineData: &inlineData{MIMEType: p.MIMEType, Data: p.Data}})
			continue
		}
		parts = append(parts, restPart{Text: p.Text})
	}
	return generateRequest{
		Contents: []restContent{{Parts: parts}},
		GenerationConfig: generationConfig{
			Temperature:     *c.config.Temperature,
			MaxOutputTokens: c.config.MaxOutputTokens,
		},
	}
}

func firstText(resp generateResponse) (string, bool) {
	if len(resp.Candidates) == 0 {
		return "", false
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", false
	}
	text := content.Parts[0].Text
	return text, text != ""
}

// redactError strips the key from transport errors, which may echo request details.
func redactError(err error, apiKey string) error {
	msg := err.Error()
	redacted := logging.Redact(msg, apiKey)
	if redacted == msg {
		return err
	}
	return errors.New(redacted)
}
