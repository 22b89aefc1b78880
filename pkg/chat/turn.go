package chat

import (
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Content is the tagged payload of a turn: either plain text or an
// image paired with an instruction.
type Content interface {
	isContent()
}

// TextContent is a plain text payload.
type TextContent struct {
	Text string `json:"text"`
}

func (TextContent) isContent() {}

// ImageContent pairs an instruction with raw image bytes. The bytes are
// encoded for the wire by the provider, not here.
type ImageContent struct {
	Text     string `json:"text"`
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

func (ImageContent) isContent() {}

// Turn is one role-tagged message in a conversation. Turns are immutable
// once appended to a transcript.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   Content   `json:"content"`
	Hidden    bool      `json:"hidden,omitempty"`  // suppressed from display
	Context   bool      `json:"context,omitempty"` // uploaded-document context turn
	Timestamp time.Time `json:"timestamp"`
}

// Text returns the textual part of the turn's content.
func (t Turn) Text() string {
	switch c := t.Content.(type) {
	case TextContent:
		return c.Text
	case ImageContent:
		return c.Text
	default:
		return ""
	}
}

// NewTurn creates a text turn with a fresh ID.
func NewTurn(role Role, text string) Turn {
	return Turn{
		ID:        newTurnID(),
		Role:      role,
		Content:   TextContent{Text: text},
		Timestamp: time.Now(),
	}
}

// NewHiddenTurn creates a text turn that is excluded from display.
func NewHiddenTurn(role Role, text string) Turn {
	t := NewTurn(role, text)
	t.Hidden = true
	return t
}

// NewContextTurn creates the system-role turn carrying uploaded image
// context. It is hidden: the front end reports the upload separately.
func NewContextTurn(instruction, mimeType string, data []byte) Turn {
	return Turn{
		ID:        newTurnID(),
		Role:      RoleSystem,
		Content:   ImageContent{Text: instruction, MIMEType: mimeType, Data: data},
		Hidden:    true,
		Context:   true,
		Timestamp: time.Now(),
	}
}

func newTurnID() string {
	id, err := gonanoid.New()
	if err != nil {
		// gonanoid only fails when the OS entropy source does; fall back
		// to a timestamp so turn creation never errors.
		return time.Now().Format("20060102150405.000000000")
	}
	return id
}
