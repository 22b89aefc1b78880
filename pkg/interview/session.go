// Package interview implements the turn controller for one interview
// session: when the first AI question fires, how uploaded context is merged
// into history exactly once, and how streamed fragments become committed
// assistant turns.
package interview

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Dharanikpdb-007/Interview-practice-partners/internal/metrics"
	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/chat"
	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/provider"
)

var (
	// ErrEmptyInput is returned when a submitted message is blank. Nothing
	// is appended and no model call is made.
	ErrEmptyInput = errors.New("input is empty")

	// ErrNotStarted is returned when input arrives before the interview has
	// begun.
	ErrNotStarted = errors.New("interview has not started")
)

// Persona configures the interviewer behavior and model parameters for a
// session.
type Persona struct {
	SystemPrompt    string
	StarterPrompt   string
	ContextPrompt   string
	FallbackMessage string
	Model           string
	Temperature     float64
	MaxTokens       int
}

// Renderer receives streamed output for display. Fragment is called once
// per streamed piece; Commit delivers the final text, replacing whatever
// the fragments accumulated to.
type Renderer interface {
	Fragment(text string)
	Commit(text string)
}

// Session owns the state for one user's interview: the transcript, the
// started and context-loaded flags, and the provider handle. All operations
// are serialized; one user action runs to completion before the next is
// accepted.
type Session struct {
	id         string
	persona    Persona
	provider   provider.Provider
	transcript *chat.Transcript
	logger     zerolog.Logger

	mu            sync.Mutex
	started       bool
	contextLoaded bool
	lastActive    time.Time
}

// NewSession creates a session with a fresh transcript seeded from the
// persona's system prompt.
func NewSession(p provider.Provider, persona Persona, logger zerolog.Logger) *Session {
	id := uuid.NewString()
	metrics.RecordSessionCreated()
	return &Session{
		id:         id,
		persona:    persona,
		provider:   p,
		transcript: chat.NewTranscript(persona.SystemPrompt),
		logger:     logger.With().Str("session_id", id).Logger(),
		lastActive: time.Now(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Started reports whether the interview has begun.
func (s *Session) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// ContextLoaded reports whether an uploaded context turn is present.
func (s *Session) ContextLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contextLoaded
}

// IdleFor returns how long the session has been without user activity.
func (s *Session) IdleFor() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastActive)
}

// Turns returns a copy of the full transcript, system turns included.
func (s *Session) Turns() []chat.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.Turns()
}

// Visible returns the turns shown to the user.
func (s *Session) Visible() []chat.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.Visible()
}

// Begin fires the first AI turn: a hidden starter instruction is appended
// as a user turn and the model's streamed answer becomes the opening
// question. The non-system turn count guards against duplicate triggering,
// so a stale started flag after a partial failure cannot replay the
// starter. Calling Begin on a started session is a no-op.
func (s *Session) Begin(ctx context.Context, r Renderer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()

	if s.started || s.transcript.NonSystemCount() > 0 {
		s.started = true
		s.logger.Debug().Msg("begin skipped, interview already started")
		return nil
	}

	starter := chat.NewHiddenTurn(chat.RoleUser, s.persona.StarterPrompt)
	s.transcript.Append(starter)
	metrics.RecordTurn(string(chat.RoleUser))

	s.streamAssistantTurn(ctx, r)
	s.started = true

	s.logger.Info().Msg("interview started")
	return nil
}

// Submit appends the user's message and streams the assistant's reply.
// Blank input appends nothing and triggers no model call.
func (s *Session) Submit(ctx context.Context, input string, r Renderer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()

	if strings.TrimSpace(input) == "" {
		return ErrEmptyInput
	}
	if !s.started {
		return ErrNotStarted
	}

	s.transcript.Append(chat.NewTurn(chat.RoleUser, input))
	metrics.RecordTurn(string(chat.RoleUser))

	s.streamAssistantTurn(ctx, r)
	return nil
}

// Reset truncates the transcript back to its initial system prefix and
// clears both flags. The next Begin fires the starter again.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()

	s.transcript.Reset()
	s.started = false
	s.contextLoaded = false

	s.logger.Info().Msg("session reset")
}

// streamAssistantTurn sends the transcript to the provider, forwards
// fragments to the renderer, and commits exactly one assistant turn. Any
// transport or API failure discards the partial text and commits the fixed
// fallback message instead; errors never propagate to the renderer.
// Callers must hold s.mu.
func (s *Session) streamAssistantTurn(ctx context.Context, r Renderer) {
	start := time.Now()

	req := provider.Request{
		Model:       s.persona.Model,
		Temperature: s.persona.Temperature,
		MaxTokens:   s.persona.MaxTokens,
		Turns:       s.transcript.Turns(),
	}

	var full strings.Builder
	stream, err := s.provider.Stream(ctx, req)
	if err == nil {
		for stream.Next() {
			fragment := stream.Current()
			full.WriteString(fragment)
			if r != nil {
				r.Fragment(fragment)
			}
		}
		err = stream.Err()
		stream.Close()
	}

	text := full.String()
	if err != nil {
		s.logger.Error().Err(err).Str("provider", s.provider.Name()).Msg("chat call failed, using fallback")
		metrics.RecordStreamError(s.provider.Name())
		text = s.persona.FallbackMessage
	} else if text == "" {
		s.logger.Warn().Str("provider", s.provider.Name()).Msg("empty completion, using fallback")
		metrics.RecordStreamError(s.provider.Name())
		text = s.persona.FallbackMessage
	}

	if r != nil {
		r.Commit(text)
	}

	s.transcript.Append(chat.NewTurn(chat.RoleAssistant, text))
	metrics.RecordTurn(string(chat.RoleAssistant))
	metrics.ObserveStreamDuration(time.Since(start))
}
