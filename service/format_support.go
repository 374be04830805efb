package service

import (
	"bytes"
	"encoding/base64"

	"golang.org/x/image/webp"
)

// FormatSupportDetector answers whether the preferred image format (WebP)
// can be both decoded and encoded in the current runtime. The codec probes
// once at construction; the answer holds for the life of the process.
type FormatSupportDetector interface {
	WebPSupported() bool
}

// webpProbe is a valid 1x1 lossy WebP used to verify decoder availability
const webpProbe = "UklGRiQAAABXRUJQVlA4IBgAAAAwAQCdASoBAAEAAwA0JaQAA3AA/vuUAAA="

// ProbeDetector checks the actual runtime: the WebP decoder must accept a
// known-good sample and a WebP encoder must be registered with the codec.
type ProbeDetector struct{}

var _ FormatSupportDetector = (*ProbeDetector)(nil)

// WebPSupported probes decode and encode capability
func (ProbeDetector) WebPSupported() bool {
	sample, err := base64.StdEncoding.DecodeString(webpProbe)
	if err != nil {
		return false
	}
	if _, err := webp.Decode(bytes.NewReader(sample)); err != nil {
		return false
	}
	// x/image/webp is decode-only; encoding needs a separately registered
	// encoder (cgo builds can provide one)
	return webpEncoder != nil
}

// StaticDetector reports a fixed answer, letting tests force either branch
type StaticDetector bool

var _ FormatSupportDetector = StaticDetector(false)

// WebPSupported returns the configured answer
func (d StaticDetector) WebPSupported() bool {
	return bool(d)
}
