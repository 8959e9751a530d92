package entity

import (
	"bytes"
	"encoding/json"
	"io"
)

// BodyFromBytes converts a raw request body into its stored form.
// An empty body is stored as absent.
func BodyFromBytes(raw []byte) *string {
	if len(raw) == 0 {
		return nil
	}
	s := string(raw)
	return &s
}

// ClassifyBody returns the read-path representation of a stored body: the decoded
// JSON value when the body is valid JSON, the raw text otherwise, and nil when absent.
func ClassifyBody(body *string) any {
	if body == nil || *body == "" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(*body)))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return *body
	}
	// Trailing data after the first value means the body is not a single JSON document.
	if _, err := dec.Token(); err != io.EOF {
		return *body
	}
	return decoded
}
