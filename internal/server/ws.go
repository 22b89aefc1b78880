package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/interview"
)

// wsEnvelope is the wire format in both directions. Client to server carries
// type "input"; server to client carries "fragment", "commit" and "error".
type wsEnvelope struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// wsRenderer streams assistant output to a connected socket. A mutex guards
// writes: fragments arrive from the streaming goroutine while pings may be
// written elsewhere, and gorilla allows one concurrent writer.
type wsRenderer struct {
	conn   *websocket.Conn
	mu     sync.Mutex
	logger zerolog.Logger
}

func (r *wsRenderer) send(env wsEnvelope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.conn.WriteJSON(env); err != nil {
		r.logger.Debug().Err(err).Msg("websocket write failed")
	}
}

// Fragment sends one streamed delta.
func (r *wsRenderer) Fragment(text string) {
	r.send(wsEnvelope{Type: "fragment", Text: text})
}

// Commit sends the full assistant turn, replacing the accumulated fragments.
func (r *wsRenderer) Commit(text string) {
	r.send(wsEnvelope{Type: "commit", Text: text})
}

// handleWebSocket attaches a socket to the browser session. The opening
// assistant turn streams immediately on first attach; afterwards each
// "input" message produces one streamed assistant reply.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.shuttingDown() {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}

	sess, cookie := s.resolveSession(r)

	// Cookies staged on the ResponseWriter are lost when the connection is
	// hijacked for the upgrade, so a fresh session cookie rides the
	// handshake response instead.
	var respHeader http.Header
	if cookie != nil {
		respHeader = http.Header{"Set-Cookie": {cookie.String()}}
	}

	conn, err := s.upgrader.Upgrade(w, r, respHeader)
	if err != nil {
		s.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	logger := s.logger.With().Str("session_id", sess.ID()).Logger()
	renderer := &wsRenderer{conn: conn, logger: logger}

	logger.Info().Msg("websocket attached")

	if !sess.Started() {
		if err := sess.Begin(r.Context(), renderer); err != nil {
			logger.Error().Err(err).Msg("failed to begin interview")
			renderer.send(wsEnvelope{Type: "error", Error: "failed to start the interview"})
		}
	}

	for {
		var env wsEnvelope
		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug().Err(err).Msg("websocket read error")
			}
			logger.Info().Msg("websocket detached")
			return
		}

		if env.Type != "input" {
			renderer.send(wsEnvelope{Type: "error", Error: "unknown message type: " + env.Type})
			continue
		}

		switch err := sess.Submit(r.Context(), env.Text, renderer); {
		case err == interview.ErrEmptyInput:
			renderer.send(wsEnvelope{Type: "error", Error: "say something first"})
		case err == interview.ErrNotStarted:
			renderer.send(wsEnvelope{Type: "error", Error: "the interview has not started yet"})
		case err != nil:
			logger.Error().Err(err).Msg("submit failed")
			renderer.send(wsEnvelope{Type: "error", Error: "something went wrong, try again"})
		}
	}
}
