package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_SystemPrefix(t *testing.T) {
	tr := NewTranscript("you are an interviewer", "one question at a time")

	assert.Equal(t, 2, tr.PrefixLen())
	assert.Equal(t, 2, tr.Len())
	assert.Equal(t, 0, tr.NonSystemCount())
	assert.Empty(t, tr.Visible())
}

func TestTranscript_AppendAndVisible(t *testing.T) {
	tr := NewTranscript("system prompt")

	tr.Append(NewHiddenTurn(RoleUser, "start the interview"))
	tr.Append(NewTurn(RoleAssistant, "Tell me about goroutines."))
	tr.Append(NewTurn(RoleUser, "They are lightweight threads."))

	assert.Equal(t, 3, tr.NonSystemCount())

	visible := tr.Visible()
	require.Len(t, visible, 2)
	assert.Equal(t, RoleAssistant, visible[0].Role)
	assert.Equal(t, "Tell me about goroutines.", visible[0].Text())
	assert.Equal(t, RoleUser, visible[1].Role)
}

func TestTranscript_InsertContext(t *testing.T) {
	tr := NewTranscript("system prompt")
	tr.Append(NewHiddenTurn(RoleUser, "start"))
	tr.Append(NewTurn(RoleAssistant, "First question?"))

	ctx := NewContextTurn("analyze this resume", "image/png", []byte{1, 2, 3})
	require.NoError(t, tr.InsertContext(ctx))

	turns := tr.Turns()
	require.Len(t, turns, 4)
	assert.Equal(t, RoleSystem, turns[0].Role)
	assert.True(t, turns[1].Context, "context turn sits directly after the system prefix")
	assert.Equal(t, "start", turns[2].Text())

	// Context turns are system role and do not count as conversation turns.
	assert.Equal(t, 2, tr.NonSystemCount())
	assert.True(t, tr.HasContext())
}

func TestTranscript_InsertContext_Rejections(t *testing.T) {
	tr := NewTranscript("system prompt")

	err := tr.InsertContext(NewTurn(RoleUser, "not a context turn"))
	assert.Error(t, err)

	require.NoError(t, tr.InsertContext(NewContextTurn("ctx", "image/png", nil)))

	err = tr.InsertContext(NewContextTurn("ctx again", "image/jpeg", nil))
	assert.ErrorIs(t, err, ErrContextPresent)
	assert.Equal(t, 2, tr.Len())
}

func TestTranscript_ResetRoundTrip(t *testing.T) {
	tr := NewTranscript("a", "b")
	initial := tr.Turns()

	require.NoError(t, tr.InsertContext(NewContextTurn("ctx", "image/png", nil)))
	for i := 0; i < 10; i++ {
		tr.Append(NewTurn(RoleUser, "answer"))
		tr.Append(NewTurn(RoleAssistant, "follow-up"))
	}
	require.Equal(t, 23, tr.Len())

	tr.Reset()

	assert.Equal(t, 2, tr.Len())
	assert.False(t, tr.HasContext())
	assert.Equal(t, 0, tr.NonSystemCount())

	restored := tr.Turns()
	for i := range initial {
		assert.Equal(t, initial[i].ID, restored[i].ID)
		assert.Equal(t, initial[i].Text(), restored[i].Text())
	}
}

func TestTranscript_TurnsReturnsCopy(t *testing.T) {
	tr := NewTranscript("system prompt")
	tr.Append(NewTurn(RoleUser, "hello"))

	turns := tr.Turns()
	turns[0] = NewTurn(RoleUser, "mutated")

	assert.Equal(t, "system prompt", tr.Turns()[0].Text())
}

func TestTurn_Text(t *testing.T) {
	tests := []struct {
		name string
		turn Turn
		want string
	}{
		{"text content", NewTurn(RoleUser, "hello"), "hello"},
		{"image content", NewContextTurn("look at this", "image/png", []byte{1}), "look at this"},
		{"nil content", Turn{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.turn.Text())
		})
	}
}
