package chat

import (
	"errors"
	"fmt"
)

var (
	// ErrContextPresent is returned when a second context turn is inserted.
	ErrContextPresent = errors.New("transcript already holds a context turn")
)

// Transcript is the ordered turn sequence for one session. It starts with a
// fixed prefix of system turns; Reset always restores exactly that prefix.
// Transcript is not safe for concurrent use; the session serializes access.
type Transcript struct {
	turns  []Turn
	prefix int // number of initial system turns
}

// NewTranscript creates a transcript seeded with one system turn per prompt.
func NewTranscript(systemPrompts ...string) *Transcript {
	t := &Transcript{}
	for _, p := range systemPrompts {
		t.turns = append(t.turns, NewTurn(RoleSystem, p))
	}
	t.prefix = len(t.turns)
	return t
}

// Append adds a turn to the end of the transcript.
func (t *Transcript) Append(turn Turn) {
	t.turns = append(t.turns, turn)
}

// InsertContext places the context turn directly after the initial system
// prefix. At most one context turn may ever be present.
func (t *Transcript) InsertContext(turn Turn) error {
	if !turn.Context {
		return fmt.Errorf("turn %s is not a context turn", turn.ID)
	}
	if t.HasContext() {
		return ErrContextPresent
	}
	rest := make([]Turn, len(t.turns[t.prefix:]))
	copy(rest, t.turns[t.prefix:])
	t.turns = append(t.turns[:t.prefix:t.prefix], turn)
	t.turns = append(t.turns, rest...)
	return nil
}

// Reset truncates the transcript back to its initial system prefix. The
// context turn, if any, is dropped with everything else.
func (t *Transcript) Reset() {
	t.turns = t.turns[:t.prefix]
}

// Turns returns a copy of the full turn sequence.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Visible returns the turns shown to the user: system and hidden turns are
// skipped.
func (t *Transcript) Visible() []Turn {
	var out []Turn
	for _, turn := range t.turns {
		if turn.Role == RoleSystem || turn.Hidden {
			continue
		}
		out = append(out, turn)
	}
	return out
}

// NonSystemCount reports how many non-system turns the transcript holds.
// The turn controller uses this, not just its started flag, to decide
// whether the starter instruction has already fired.
func (t *Transcript) NonSystemCount() int {
	n := 0
	for _, turn := range t.turns {
		if turn.Role != RoleSystem {
			n++
		}
	}
	return n
}

// HasContext reports whether a context turn is present.
func (t *Transcript) HasContext() bool {
	for _, turn := range t.turns {
		if turn.Context {
			return true
		}
	}
	return false
}

// Len returns the total number of turns, system prefix included.
func (t *Transcript) Len() int {
	return len(t.turns)
}

// PrefixLen returns the size of the initial system prefix.
func (t *Transcript) PrefixLen() int {
	return t.prefix
}
