package utils

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// IsDataURI reports whether ref is an inline-encoded image payload
// (data:image/...;base64,...) rather than a durable URL
func IsDataURI(ref string) bool {
	return strings.HasPrefix(ref, "data:")
}

// DecodeDataURI extracts the raw bytes and MIME type from a data URI.
// Example input: data:image/png;base64,iVBORw0...
func DecodeDataURI(uri string) ([]byte, string, error) {
	if !IsDataURI(uri) {
		return nil, "", fmt.Errorf("not a data URI")
	}

	comma := strings.Index(uri, ",")
	if comma < 0 {
		return nil, "", fmt.Errorf("invalid data URI: missing payload separator")
	}

	// Header format: data:<mime>;base64
	header := uri[len("data:"):comma]
	mimeType := header
	if semi := strings.Index(header, ";"); semi >= 0 {
		mimeType = header[:semi]
		if !strings.Contains(header[semi:], "base64") {
			return nil, "", fmt.Errorf("unsupported data URI encoding: %s", header)
		}
	}

	data, err := base64.StdEncoding.DecodeString(uri[comma+1:])
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode base64 payload: %w", err)
	}

	return data, mimeType, nil
}

// EstimatedByteSize returns the approximate decoded size of an inline-encoded
// image without decoding it (base64 carries 3 bytes per 4 characters).
// Returns 0 for durable references.
func EstimatedByteSize(ref string) int64 {
	if !IsDataURI(ref) {
		return 0
	}
	comma := strings.Index(ref, ",")
	if comma < 0 {
		return 0
	}
	return int64(len(ref)-comma-1) * 3 / 4
}

// EncodeDataURI builds an inline data URI from raw bytes and a MIME type
func EncodeDataURI(data []byte, mimeType string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
