// Package parsing turns resume documents into structured ParsedResume records using LLM extraction.
package parsing

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jonathan/resume-parser/internal/types"
)

const (
	// MediaTypeText is accepted as inline UTF-8 text
	MediaTypeText = "text/plain"
	// MediaTypePDF is the default binary document type
	MediaTypePDF = "application/pdf"
	// DefaultMaxDocumentBytes bounds a single buffered document
	DefaultMaxDocumentBytes int64 = 10 << 20

	mediaTypeOctetStream = "application/octet-stream"
)

// Document is an uploaded resume before normalization.
type Document struct {
	Name      string    // original filename, used only for logging
	MediaType string    // declared media type; empty means unknown
	Body      io.Reader // read fully by Load
}

// Loader converts documents into payloads the prompt builder can use.
type Loader struct {
	maxBytes    int64
	binaryTypes map[string]bool
}

// NewLoader creates a loader. maxBytes <= 0 uses DefaultMaxDocumentBytes;
// an empty binaryTypes list accepts only PDF.
func NewLoader(maxBytes int64, binaryTypes []string) *Loader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDocumentBytes
	}
	if len(binaryTypes) == 0 {
		binaryTypes = []string{MediaTypePDF}
	}
	allowed := make(map[string]bool, len(binaryTypes))
	for _, t := range binaryTypes {
		allowed[strings.ToLower(strings.TrimSpace(t))] = true
	}
	return &Loader{maxBytes: maxBytes, binaryTypes: allowed}
}

// MaxBytes returns the configured document size limit.
func (l *Loader) MaxBytes() int64 {
	return l.maxBytes
}

// Load reads doc and returns a text or binary payload.
// Unknown declared types are rejected before any content is inspected.
func (l *Loader) Load(doc Document) (types.DocumentPayload, error) {
	if doc.Body == nil {
		return types.DocumentPayload{}, &InvalidInputError{Message: "No file uploaded"}
	}

	declared, err := parseMediaType(doc.MediaType)
	if err != nil {
		return types.DocumentPayload{}, &UnsupportedMediaTypeError{MediaType: doc.MediaType}
	}
	if declared != "" && declared != mediaTypeOctetStream && !l.accepts(declared) {
		return types.DocumentPayload{}, &UnsupportedMediaTypeError{MediaType: declared}
	}

	data, err := io.ReadAll(io.LimitReader(doc.Body, l.maxBytes+1))
	if err != nil {
		return types.DocumentPayload{}, &InvalidInputError{Message: "failed to read document", Cause: err}
	}
	if int64(len(data)) > l.maxBytes {
		return types.DocumentPayload{}, &InvalidInputError{
			Message: fmt.Sprintf("document larger than %d bytes", l.maxBytes),
			Cause:   ErrDocumentTooLarge,
		}
	}
	if len(data) == 0 {
		return types.DocumentPayload{}, &InvalidInputError{Message: "document is empty"}
	}

	mediaType := declared
	if mediaType == "" || mediaType == mediaTypeOctetStream {
		mediaType, err = parseMediaType(mimetype.Detect(data).String())
		if err != nil || !l.accepts(mediaType) {
			return types.DocumentPayload{}, &UnsupportedMediaTypeError{MediaType: mediaType}
		}
	}

	if mediaType == MediaTypeText {
		return LoadText(string(data))
	}
	return types.DocumentPayload{
		Kind:     types.PayloadBinary,
		MIMEType: mediaType,
		Base64:   base64.StdEncoding.EncodeToString(data),
	}, nil
}

// LoadText wraps raw resume text. Invalid UTF-8 sequences become U+FFFD.
func LoadText(text string) (types.DocumentPayload, error) {
	text = strings.ToValidUTF8(text, "\uFFFD")
	text = strings.TrimPrefix(text, "\uFEFF")
	if strings.TrimSpace(text) == "" {
		return types.DocumentPayload{}, &InvalidInputError{Message: "Resume text is required"}
	}
	return types.DocumentPayload{Kind: types.PayloadText, Content: text}, nil
}

func (l *Loader) accepts(mediaType string) bool {
	return mediaType == MediaTypeText || l.binaryTypes[mediaType]
}

// parseMediaType strips parameters and lowercases. Empty input is not an error.
func parseMediaType(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return "", err
	}
	return mediaType, nil
}
