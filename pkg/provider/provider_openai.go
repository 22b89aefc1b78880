package provider

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"

	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/chat"
)

// OpenAIProvider implements Provider for the OpenAI chat completions API
// and for any OpenAI-compatible endpoint.
type OpenAIProvider struct {
	client openai.Client
	name   string
}

// NewOpenAIProvider creates a new OpenAI provider. baseURL may be empty to
// use the default endpoint.
func NewOpenAIProvider(apiKey, baseURL string) *OpenAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		name:   "openai",
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return p.name
}

// Stream makes a streaming chat completion call.
func (p *OpenAIProvider) Stream(ctx context.Context, req Request) (Stream, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: toOpenAIMessages(req.Turns),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	return &openaiStream{stream: p.client.Chat.Completions.NewStreaming(ctx, params)}, nil
}

// toOpenAIMessages converts neutral turns to OpenAI message params. Context
// turns carry image content, which the API only accepts on user messages,
// so they go over the wire as multimodal user messages.
func toOpenAIMessages(turns []chat.Turn) []openai.ChatCompletionMessageParamUnion {
	messages := []openai.ChatCompletionMessageParamUnion{}

	for _, turn := range turns {
		switch content := turn.Content.(type) {
		case chat.ImageContent:
			parts := []openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(content.Text),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: dataURL(content.MIMEType, content.Data),
				}),
			}
			messages = append(messages, openai.UserMessage(parts))
		case chat.TextContent:
			switch turn.Role {
			case chat.RoleSystem:
				messages = append(messages, openai.SystemMessage(content.Text))
			case chat.RoleUser:
				messages = append(messages, openai.UserMessage(content.Text))
			case chat.RoleAssistant:
				messages = append(messages, openai.AssistantMessage(content.Text))
			}
		}
	}

	return messages
}

func dataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// openaiStream adapts the SDK's SSE stream to the Stream interface.
type openaiStream struct {
	stream  *ssestream.Stream[openai.ChatCompletionChunk]
	current string
}

func (s *openaiStream) Next() bool {
	for s.stream.Next() {
		chunk := s.stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		s.current = delta
		return true
	}
	return false
}

func (s *openaiStream) Current() string {
	return s.current
}

func (s *openaiStream) Err() error {
	return s.stream.Err()
}

func (s *openaiStream) Close() error {
	return s.stream.Close()
}
