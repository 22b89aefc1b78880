package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/interview"
)

type turnPayload struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

type sessionPayload struct {
	SessionID     string        `json:"session_id"`
	Started       bool          `json:"started"`
	ContextLoaded bool          `json:"context_loaded"`
	Turns         []turnPayload `json:"turns"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// resolveSession resolves the browser session from the cookie, creating one
// on first contact. A stale cookie (evicted session) gets a fresh session
// under a new ID. The returned cookie is non-nil when the client needs it set.
func (s *Server) resolveSession(r *http.Request) (*interview.Session, *http.Cookie) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if sess, ok := s.registry.Get(c.Value); ok {
			return sess, nil
		}
	}

	sess := interview.NewSession(s.provider, s.currentPersona(), s.logger)
	s.registry.Add(sess)

	return sess, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *interview.Session {
	sess, cookie := s.resolveSession(r)
	if cookie != nil {
		http.SetCookie(w, cookie)
	}
	return sess
}

// handleSession returns the visible transcript and session state.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess := s.sessionFor(w, r)
	writeJSON(w, http.StatusOK, sessionView(sess))
}

// handleReset clears the conversation but keeps the session alive.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess := s.sessionFor(w, r)
	s.archiveSession(sess)
	sess.Reset()

	s.logger.Info().Str("session_id", sess.ID()).Msg("session reset")
	writeJSON(w, http.StatusOK, sessionView(sess))
}

// handleContext accepts a one-shot image upload attached as interview
// context. The image must arrive before or after the interview starts, but
// only once per conversation.
func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess := s.sessionFor(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	switch err := sess.LoadContext(data); {
	case err == interview.ErrContextLoaded:
		writeError(w, http.StatusConflict, "context already loaded for this conversation")
		return
	case err != nil:
		writeError(w, http.StatusUnprocessableEntity, "unsupported image: upload a PNG or JPEG")
		return
	}

	s.logger.Info().Str("session_id", sess.ID()).Int("bytes", len(data)).Msg("context image loaded")
	writeJSON(w, http.StatusOK, sessionView(sess))
}

func sessionView(sess *interview.Session) sessionPayload {
	visible := sess.Visible()
	turns := make([]turnPayload, 0, len(visible))
	for _, t := range visible {
		turns = append(turns, turnPayload{
			ID:        t.ID,
			Role:      string(t.Role),
			Text:      t.Text(),
			Timestamp: t.Timestamp.Unix(),
		})
	}
	return sessionPayload{
		SessionID:     sess.ID(),
		Started:       sess.Started(),
		ContextLoaded: sess.ContextLoaded(),
		Turns:         turns,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorPayload{Error: msg})
}
