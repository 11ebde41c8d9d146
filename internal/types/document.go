package types

// PayloadKind distinguishes inline text from binary documents
type PayloadKind string

const (
	// PayloadText carries UTF-8 resume text inline
	PayloadText PayloadKind = "text"
	// PayloadBinary carries an opaque document as base64
	PayloadBinary PayloadKind = "binary"
)

// DocumentPayload is the normalized form of an uploaded document.
// It lives for a single request and is never persisted.
type DocumentPayload struct {
	Kind     PayloadKind `json:"kind"`
	Content  string      `json:"content,omitempty"`  // text payloads only
	MIMEType string      `json:"mimeType,omitempty"` // binary payloads only
	Base64   string      `json:"base64,omitempty"`   // binary payloads only, std encoding
}

// IsBinary reports whether the payload must be sent as inline data.
func (p DocumentPayload) IsBinary() bool {
	return p.Kind == PayloadBinary
}
