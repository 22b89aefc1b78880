package provider

import (
	"context"
)

// geminiBaseURL is Google's OpenAI-compatible endpoint for the Gemini API.
const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// GeminiProvider implements Provider for Google Gemini via its
// OpenAI-compatible endpoint.
type GeminiProvider struct {
	inner *OpenAIProvider
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(apiKey string) *GeminiProvider {
	return &GeminiProvider{
		inner: NewOpenAIProvider(apiKey, geminiBaseURL),
	}
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Stream makes a streaming chat completion call against the Gemini API.
func (p *GeminiProvider) Stream(ctx context.Context, req Request) (Stream, error) {
	return p.inner.Stream(ctx, req)
}
