// Package provider adapts the conversation transcript to hosted LLM chat
// APIs. Each provider translates neutral turns into its SDK's request shape
// and yields the response as a finite stream of text fragments.
package provider

import (
	"context"
	"fmt"

	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/chat"
)

// Stream is a finite, non-restartable sequence of response fragments.
// Concatenating every fragment in emission order yields the full assistant
// message. A fresh Stream is required for every turn.
type Stream interface {
	// Next advances to the next fragment. It returns false when the stream
	// is exhausted or has failed; Err distinguishes the two.
	Next() bool

	// Current returns the fragment at the current position.
	Current() string

	// Err returns the error that terminated the stream, if any.
	Err() error

	// Close releases the underlying connection.
	Close() error
}

// Request carries one chat completion call.
type Request struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Turns       []chat.Turn
}

// Provider is a chat completion backend.
type Provider interface {
	// Stream submits the ordered turns and returns the response fragments.
	Stream(ctx context.Context, req Request) (Stream, error)

	// Name returns the provider name.
	Name() string
}

// Profile holds the credentials and endpoint selection for a provider.
type Profile struct {
	Provider string `json:"provider"` // "gemini", "openai", "anthropic"
	APIKey   string `json:"api_key"`
	BaseURL  string `json:"base_url,omitempty"`
}

// Factory creates providers from profiles.
type Factory struct{}

// New creates a provider for the given profile.
func (f *Factory) New(profile Profile) (Provider, error) {
	switch profile.Provider {
	case "gemini":
		return NewGeminiProvider(profile.APIKey), nil
	case "openai":
		return NewOpenAIProvider(profile.APIKey, profile.BaseURL), nil
	case "anthropic":
		return NewAnthropicProvider(profile.APIKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", profile.Provider)
	}
}
