package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/chat"
	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/provider"
)

// scriptedStream yields its fragments in order, then terminates with err.
type scriptedStream struct {
	fragments []string
	idx       int
	err       error
}

func (s *scriptedStream) Next() bool {
	if s.idx >= len(s.fragments) {
		return false
	}
	s.idx++
	return true
}

func (s *scriptedStream) Current() string { return s.fragments[s.idx-1] }
func (s *scriptedStream) Err() error      { return s.err }
func (s *scriptedStream) Close() error    { return nil }

// call describes one scripted provider response.
type call struct {
	fragments []string
	streamErr error // terminates the stream after fragments
	callErr   error // fails the Stream call itself
}

type fakeProvider struct {
	calls    []call
	requests []provider.Request
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Stream(_ context.Context, req provider.Request) (provider.Stream, error) {
	f.requests = append(f.requests, req)
	if len(f.calls) == 0 {
		return &scriptedStream{fragments: []string{"ok"}}, nil
	}
	c := f.calls[0]
	f.calls = f.calls[1:]
	if c.callErr != nil {
		return nil, c.callErr
	}
	return &scriptedStream{fragments: c.fragments, err: c.streamErr}, nil
}

type recorderRenderer struct {
	fragments []string
	committed []string
}

func (r *recorderRenderer) Fragment(text string) { r.fragments = append(r.fragments, text) }
func (r *recorderRenderer) Commit(text string)   { r.committed = append(r.committed, text) }

func testPersona() Persona {
	return Persona{
		SystemPrompt:    "You are a technical interviewer.",
		StarterPrompt:   "Start the interview now by asking your first question.",
		ContextPrompt:   "Base your questions on this resume.",
		FallbackMessage: "Sorry, something went wrong. Please try again.",
		Model:           "gemini-2.5-flash",
		Temperature:     0.7,
		MaxTokens:       1024,
	}
}

func newTestSession(calls ...call) (*Session, *fakeProvider) {
	p := &fakeProvider{calls: calls}
	return NewSession(p, testPersona(), zerolog.Nop()), p
}

func TestSession_Begin_FirstTurn(t *testing.T) {
	s, p := newTestSession(call{fragments: []string{"What is ", "a goroutine?"}})
	r := &recorderRenderer{}

	require.NoError(t, s.Begin(context.Background(), r))

	assert.True(t, s.Started())
	require.Len(t, p.requests, 1)

	// The hidden starter instruction goes over the wire but is suppressed
	// from display: first render shows one assistant turn and no user turns.
	visible := s.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, chat.RoleAssistant, visible[0].Role)
	assert.Equal(t, "What is a goroutine?", visible[0].Text())

	assert.Equal(t, []string{"What is ", "a goroutine?"}, r.fragments)
	assert.Equal(t, []string{"What is a goroutine?"}, r.committed)
}

func TestSession_Begin_ExactlyOnce(t *testing.T) {
	s, p := newTestSession(
		call{fragments: []string{"first question"}},
		call{fragments: []string{"should never fire"}},
	)

	require.NoError(t, s.Begin(context.Background(), nil))
	require.NoError(t, s.Begin(context.Background(), nil))
	require.NoError(t, s.Begin(context.Background(), nil))

	assert.Len(t, p.requests, 1)
	assert.Len(t, s.Visible(), 1)
}

func TestSession_Begin_TrustsTurnCountOverFlag(t *testing.T) {
	s, p := newTestSession(call{fragments: []string{"first question"}})
	require.NoError(t, s.Begin(context.Background(), nil))

	// A partial failure can leave a stale flag; the non-system turn count
	// must still prevent a duplicate starter.
	s.mu.Lock()
	s.started = false
	s.mu.Unlock()

	require.NoError(t, s.Begin(context.Background(), nil))
	assert.Len(t, p.requests, 1)
	assert.True(t, s.Started())
}

func TestSession_Submit(t *testing.T) {
	s, p := newTestSession(
		call{fragments: []string{"Tell me about slices."}},
		call{fragments: []string{"Good. ", "Follow-up?"}},
	)
	require.NoError(t, s.Begin(context.Background(), nil))

	r := &recorderRenderer{}
	require.NoError(t, s.Submit(context.Background(), "Slices wrap arrays.", r))

	require.Len(t, p.requests, 2)

	// The second request carries the full history in order.
	turns := p.requests[1].Turns
	require.Len(t, turns, 4)
	assert.Equal(t, chat.RoleSystem, turns[0].Role)
	assert.Equal(t, chat.RoleUser, turns[1].Role)
	assert.Equal(t, chat.RoleAssistant, turns[2].Role)
	assert.Equal(t, "Slices wrap arrays.", turns[3].Text())

	assert.Equal(t, []string{"Good. Follow-up?"}, r.committed)
}

func TestSession_Submit_EmptyInput(t *testing.T) {
	s, p := newTestSession(call{fragments: []string{"question"}})
	require.NoError(t, s.Begin(context.Background(), nil))

	for _, input := range []string{"", "   ", "\n\t"} {
		err := s.Submit(context.Background(), input, nil)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}

	assert.Len(t, p.requests, 1, "blank input must not trigger a model call")
	assert.Len(t, s.Visible(), 1, "blank input must not append turns")
}

func TestSession_Submit_BeforeBegin(t *testing.T) {
	s, p := newTestSession()

	err := s.Submit(context.Background(), "hello", nil)
	assert.ErrorIs(t, err, ErrNotStarted)
	assert.Empty(t, p.requests)
}

func TestSession_StreamError_Fallback(t *testing.T) {
	s, _ := newTestSession(
		call{fragments: []string{"question"}},
		call{fragments: []string{"partial "}, streamErr: errors.New("connection reset")},
	)
	require.NoError(t, s.Begin(context.Background(), nil))

	r := &recorderRenderer{}
	require.NoError(t, s.Submit(context.Background(), "my answer", r))

	// Exactly one assistant turn holding the fallback text, never the
	// partial fragment.
	visible := s.Visible()
	require.Len(t, visible, 3)
	last := visible[len(visible)-1]
	assert.Equal(t, chat.RoleAssistant, last.Role)
	assert.Equal(t, testPersona().FallbackMessage, last.Text())
	assert.Equal(t, []string{testPersona().FallbackMessage}, r.committed)
}

func TestSession_CallError_Fallback(t *testing.T) {
	s, _ := newTestSession(call{callErr: errors.New("api unreachable")})

	require.NoError(t, s.Begin(context.Background(), nil))

	visible := s.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, testPersona().FallbackMessage, visible[0].Text())
	assert.True(t, s.Started(), "a failed first call must not wedge the state machine")
}

func TestSession_EmptyCompletion_Fallback(t *testing.T) {
	s, _ := newTestSession(call{fragments: nil})

	require.NoError(t, s.Begin(context.Background(), nil))

	visible := s.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, testPersona().FallbackMessage, visible[0].Text())
}

func TestSession_Reset(t *testing.T) {
	s, p := newTestSession()
	require.NoError(t, s.Begin(context.Background(), nil))
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Submit(context.Background(), "answer", nil))
	}
	require.NoError(t, s.LoadContext(pngBytes(t)))
	require.True(t, s.ContextLoaded())

	s.Reset()

	assert.False(t, s.Started())
	assert.False(t, s.ContextLoaded())
	turns := s.Turns()
	require.Len(t, turns, 1, "reset restores exactly the system prefix")
	assert.Equal(t, chat.RoleSystem, turns[0].Role)

	// The starter fires again after a reset.
	require.NoError(t, s.Begin(context.Background(), nil))
	assert.Len(t, p.requests, 7)
	assert.True(t, s.Started())
}

func TestSession_FullScenarioOrdering(t *testing.T) {
	s, _ := newTestSession(
		call{fragments: []string{"First question based on your resume?"}},
		call{fragments: []string{"Arrays are fixed-size."}},
	)

	require.NoError(t, s.LoadContext(pngBytes(t)))
	require.NoError(t, s.Begin(context.Background(), nil))
	require.NoError(t, s.Submit(context.Background(), "Tell me about arrays", nil))

	turns := s.Turns()
	require.Len(t, turns, 6)
	assert.Equal(t, chat.RoleSystem, turns[0].Role)
	assert.True(t, turns[1].Context)
	assert.True(t, turns[2].Hidden, "starter instruction stays hidden")
	assert.Equal(t, chat.RoleUser, turns[2].Role)
	assert.Equal(t, chat.RoleAssistant, turns[3].Role)
	assert.Equal(t, "Tell me about arrays", turns[4].Text())
	assert.Equal(t, chat.RoleAssistant, turns[5].Role)
}

func TestSession_FragmentsConcatenateToCommit(t *testing.T) {
	fragments := []string{"a", "b", "c", "d"}
	s, _ := newTestSession(call{fragments: fragments})

	r := &recorderRenderer{}
	require.NoError(t, s.Begin(context.Background(), r))

	require.Len(t, r.committed, 1)
	assert.Equal(t, strings.Join(fragments, ""), r.committed[0])
}
