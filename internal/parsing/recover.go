package parsing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errNotObject = errors.New("completion is not a JSON object")

// Recover extracts a JSON object from a free-text completion.
//
// The greedy span from the first '{' to the last '}' is tried first. When that span
// is not valid JSON, the last well-formed top-level object in the text wins. Text
// without any brace span is parsed whole. Anything that does not yield a JSON object
// fails with *UnparsableResponseError carrying the raw text.
func Recover(raw string) (map[string]any, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		obj, err := decodeObject(raw)
		if err != nil {
			return nil, &UnparsableResponseError{Raw: raw, Cause: err}
		}
		return obj, nil
	}

	obj, spanErr := decodeObject(raw[start : end+1])
	if spanErr == nil {
		return obj, nil
	}
	if obj, ok := lastObject(raw[start : end+1]); ok {
		return obj, nil
	}
	return nil, &UnparsableResponseError{Raw: raw, Cause: spanErr}
}

// decodeObject parses text as exactly one JSON object with nothing but whitespace around it.
func decodeObject(text string) (map[string]any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return obj, nil
}

// lastObject scans text for top-level balanced JSON objects and returns the last one that
// decodes. A span that fails to decode is skipped whole, so nested entries are never
// taken for the record. Scanning stops at a '{' whose braces never close.
func lastObject(text string) (map[string]any, bool) {
	var last map[string]any
	found := false

	for i := 0; i < len(text); {
		next := strings.IndexByte(text[i:], '{')
		if next < 0 {
			break
		}
		i += next

		end, ok := objectEnd(text, i)
		if !ok {
			break
		}
		if obj, err := decodeObject(text[i:end]); err == nil {
			last, found = obj, true
		}
		i = end
	}
	return last, found
}

// objectEnd returns the index just past the '}' that balances the '{' at text[start].
// Braces inside JSON strings are ignored.
func objectEnd(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}
