package provider

import (
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/chat"
)

func sampleTurns() []chat.Turn {
	return []chat.Turn{
		chat.NewTurn(chat.RoleSystem, "you are an interviewer"),
		chat.NewContextTurn("analyze this resume", "image/png", []byte{0x89, 0x50}),
		chat.NewHiddenTurn(chat.RoleUser, "start the interview"),
		chat.NewTurn(chat.RoleAssistant, "First question?"),
		chat.NewTurn(chat.RoleUser, "My answer."),
	}
}

func TestFactory_New(t *testing.T) {
	f := &Factory{}

	tests := []struct {
		provider  string
		wantName  string
		shouldErr bool
	}{
		{provider: "gemini", wantName: "gemini"},
		{provider: "openai", wantName: "openai"},
		{provider: "anthropic", wantName: "anthropic"},
		{provider: "cohere", shouldErr: true},
		{provider: "", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			p, err := f.New(Profile{Provider: tt.provider, APIKey: "test-key"})
			if tt.shouldErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name())
		})
	}
}

func TestToOpenAIMessages(t *testing.T) {
	messages := toOpenAIMessages(sampleTurns())
	require.Len(t, messages, 5)

	assert.NotNil(t, messages[0].OfSystem, "system turn maps to a system message")

	// The context turn becomes a multimodal user message: text part plus
	// base64 image data URL.
	require.NotNil(t, messages[1].OfUser)
	parts := messages[1].OfUser.Content.OfArrayOfContentParts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].OfText)
	assert.Equal(t, "analyze this resume", parts[0].OfText.Text)
	require.NotNil(t, parts[1].OfImageURL)
	assert.True(t, strings.HasPrefix(parts[1].OfImageURL.ImageURL.URL, "data:image/png;base64,"))

	assert.NotNil(t, messages[2].OfUser, "hidden starter turn still goes over the wire")
	assert.NotNil(t, messages[3].OfAssistant)
	assert.NotNil(t, messages[4].OfUser)
}

func TestToAnthropicMessages(t *testing.T) {
	messages, system := toAnthropicMessages(sampleTurns())

	// Plain system turns ride the System field, not the message list.
	require.Len(t, system, 1)
	assert.Equal(t, "you are an interviewer", system[0].Text)

	require.Len(t, messages, 4)
	assert.Equal(t, anthropic.MessageParamRoleUser, messages[0].Role)
	require.Len(t, messages[0].Content, 2, "context message holds text and image blocks")
	assert.Equal(t, anthropic.MessageParamRoleUser, messages[1].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, messages[2].Role)
	assert.Equal(t, anthropic.MessageParamRoleUser, messages[3].Role)
}

func TestDataURL(t *testing.T) {
	url := dataURL("image/jpeg", []byte("abc"))
	assert.Equal(t, "data:image/jpeg;base64,YWJj", url)
}
