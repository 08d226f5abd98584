// Package llm talks to the language-model collaborators: a text-generation
// provider (Gemini or an Ollama-compatible server) and the NLP sidecar used
// for humanizing answers and extracting tags.
package llm

import (
	"context"
)

// Provider abstracts the text-generation backend.
type Provider interface {
	// GenerateText produces text for the prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// Close releases the provider's resources.
	Close()
}
