package ailink

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoJSONObject is returned when model output is not a single JSON object.
var ErrNoJSONObject = errors.New("model output is not a JSON object")

// ExtractJSONObject returns the JSON object that makes up the whole of s.
// One enclosing ```json fence is stripped; any other text around the object
// is rejected. The returned bytes are compacted; key order and values are
// untouched.
func ExtractJSONObject(s string) ([]byte, error) {
	raw := stripFence(strings.TrimSpace(s))
	if !strings.HasPrefix(raw, "{") {
		return nil, ErrNoJSONObject
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	var msg json.RawMessage
	if err := dec.Decode(&msg); err != nil {
		return nil, err
	}
	if err := dec.Decode(&json.RawMessage{}); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after object", ErrNoJSONObject)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, msg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// stripFence removes a ```lang ... ``` wrapper around the whole input.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	body := strings.TrimSuffix(s, "```")
	newline := strings.IndexByte(body, '\n')
	if newline < 0 {
		return s
	}
	return strings.TrimSpace(body[newline+1:])
}
