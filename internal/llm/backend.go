// Package llm adapts generative model services for translation and flyer
// OCR. Callers depend on Backend; the concrete clients live beside it.
package llm

import (
	"context"
	"encoding/base64"
)

// Request is one generation call. Image is optional.
type Request struct {
	Prompt    string
	Image     []byte
	ImageMIME string
	// JSON asks the backend for a bare JSON response when it supports it.
	JSON bool
}

// DataURL renders the request image as a base64 data URL.
func (r Request) DataURL() string {
	mime := r.ImageMIME
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(r.Image)
}

// Backend generates text from a prompt.
type Backend interface {
	Name() string
	// Available reports whether the backend is configured and reachable
	// enough to try. It must not make a billable call.
	Available(ctx context.Context) bool
	Generate(ctx context.Context, req Request) (string, error)
}
