package provider

import (
	"context"
	"encoding/base64"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/chat"
)

// anthropicDefaultMaxTokens applies when the request leaves MaxTokens unset;
// the Messages API requires the field.
const anthropicDefaultMaxTokens = 4096

// AnthropicProvider implements Provider for Anthropic Claude.
type AnthropicProvider struct {
	client anthropic.Client
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	return &AnthropicProvider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
	}
}

// Name returns the provider name.
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// Stream makes a streaming Messages API call.
func (p *AnthropicProvider) Stream(ctx context.Context, req Request) (Stream, error) {
	messages, system := toAnthropicMessages(req.Turns)

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		Messages:  messages,
		MaxTokens: int64(maxTokens),
	}
	if len(system) > 0 {
		params.System = system
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	return &anthropicStream{stream: p.client.Messages.NewStreaming(ctx, params)}, nil
}

// toAnthropicMessages converts neutral turns to Anthropic message params.
// Plain system turns ride the dedicated System field; context turns carry
// images, which the API only accepts inside user messages.
func toAnthropicMessages(turns []chat.Turn) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	messages := []anthropic.MessageParam{}
	system := []anthropic.TextBlockParam{}

	for _, turn := range turns {
		switch content := turn.Content.(type) {
		case chat.ImageContent:
			encoded := base64.StdEncoding.EncodeToString(content.Data)
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(content.Text),
				anthropic.NewImageBlockBase64(content.MIMEType, encoded),
			))
		case chat.TextContent:
			switch turn.Role {
			case chat.RoleSystem:
				system = append(system, anthropic.TextBlockParam{Text: content.Text})
			case chat.RoleUser:
				messages = append(messages, anthropic.NewUserMessage(
					anthropic.NewTextBlock(content.Text),
				))
			case chat.RoleAssistant:
				messages = append(messages, anthropic.MessageParam{
					Role: anthropic.MessageParamRoleAssistant,
					Content: []anthropic.ContentBlockParamUnion{
						anthropic.NewTextBlock(content.Text),
					},
				})
			}
		}
	}

	return messages, system
}

// anthropicStream adapts the SDK's event stream to the Stream interface,
// surfacing only text deltas.
type anthropicStream struct {
	stream  *ssestream.Stream[anthropic.MessageStreamEventUnion]
	current string
}

func (s *anthropicStream) Next() bool {
	for s.stream.Next() {
		event := s.stream.Current()
		switch eventVariant := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch deltaVariant := eventVariant.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if deltaVariant.Text == "" {
					continue
				}
				s.current = deltaVariant.Text
				return true
			}
		}
	}
	return false
}

func (s *anthropicStream) Current() string {
	return s.current
}

func (s *anthropicStream) Err() error {
	return s.stream.Err()
}

func (s *anthropicStream) Close() error {
	return s.stream.Close()
}
