// Package llm wraps the text-generation services used to draft customer
// replies and admin notes. Callers depend on Generator and never on a
// concrete SDK, so the backing provider is chosen purely by configuration.
package llm

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrGenerationUnavailable reports that no completion could be obtained
	// (transport error, timeout, quota, missing credentials).
	ErrGenerationUnavailable = errors.New("generation unavailable")
	// ErrEmptyCompletion reports a successful call that produced no text.
	ErrEmptyCompletion = errors.New("empty completion")
)

// Generator produces a single text completion for a prompt.
type Generator interface {
	// Generate returns non-blank text or an error. Implementations must
	// honor ctx cancellation.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name returns the provider name (for logging)
	Name() string
}

// Config holds provider selection and credentials.
type Config struct {
	Provider string // "gemini", "openai", "static"

	// Gemini-specific
	GeminiAPIKey  string
	GeminiModel   string // e.g. "gemini-2.5-flash"
	GeminiBaseURL string

	// OpenAI-specific
	OpenAIAPIKey  string
	OpenAIModel   string // e.g. "gpt-4o-mini"
	OpenAIBaseURL string
}

// completion trims provider output and maps blank text to ErrEmptyCompletion.
func completion(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
