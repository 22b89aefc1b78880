package server

import (
	"sync"
	"time"

	"github.com/Dharanikpdb-007/Interview-practice-partners/internal/metrics"
	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/interview"
)

// Registry tracks live interview sessions by session ID. Each browser
// session maps to exactly one entry; entries disappear on idle eviction or
// server shutdown, never on reset.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*interview.Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*interview.Session),
	}
}

// Add registers a session.
func (r *Registry) Add(s *interview.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.ID()] = s
	metrics.SetActiveSessions(len(r.sessions))
}

// Get retrieves a session by ID.
func (r *Registry) Get(id string) (*interview.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.sessions[id]
	return s, exists
}

// Remove drops a session from the registry.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	metrics.SetActiveSessions(len(r.sessions))
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// All returns every live session.
func (r *Registry) All() []*interview.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*interview.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// EvictIdle removes and returns sessions idle for longer than maxIdle.
func (r *Registry) EvictIdle(maxIdle time.Duration) []*interview.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	var evicted []*interview.Session
	for id, s := range r.sessions {
		if s.IdleFor() > maxIdle {
			evicted = append(evicted, s)
			delete(r.sessions, id)
		}
	}
	metrics.SetActiveSessions(len(r.sessions))
	return evicted
}
