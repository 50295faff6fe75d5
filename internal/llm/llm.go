// Package llm abstracts the interchangeable model providers behind one
// client interface and owns prompt construction for every pipeline call.
package llm

import (
	"context"
	"errors"
)

// Request is the provider-independent wire contract: a system instruction,
// a user message, and hints the adapter may or may not be able to honor.
type Request struct {
	System string
	User   string

	// ForceJSON asks the provider for JSON output. Providers without a
	// native JSON mode ignore it; callers must still extract defensively.
	ForceJSON bool

	// RecordSchema asks the provider to enforce the 10-field analysis
	// record schema at the API level. Only Gemini honors this natively.
	RecordSchema bool

	Temperature float32
	MaxTokens   int
}

// Client is a single LLM backend. Implementations translate Request into
// their provider's API shape and return the raw response text.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// ErrNotConfigured is returned when a provider has no usable credential.
var ErrNotConfigured = errors.New("llm provider not configured")
