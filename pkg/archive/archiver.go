// Package archive persists finished interview transcripts as JSONL files,
// one turn per line. Live session history never touches disk; archiving
// happens only on reset or idle eviction, when enabled.
package archive

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dharanikpdb-007/Interview-practice-partners/internal/metrics"
	"github.com/Dharanikpdb-007/Interview-practice-partners/pkg/chat"
)

// Record is the flat, JSON-serializable form of one archived turn. Image
// bytes are not archived; only their size is noted.
type Record struct {
	SessionID string    `json:"sessionId"`
	TurnID    string    `json:"turnId"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Hidden    bool      `json:"hidden,omitempty"`
	Context   bool      `json:"context,omitempty"`
	ImageSize int       `json:"imageSize,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Archiver writes transcripts under a single directory with per-session
// write locking.
type Archiver struct {
	dir        string
	logger     zerolog.Logger
	writeLocks map[string]*sync.Mutex
	locksMu    sync.Mutex
}

// New creates an Archiver rooted at dir, creating it if needed.
func New(dir string, logger zerolog.Logger) (*Archiver, error) {
	if dir == "" {
		return nil, fmt.Errorf("archive directory is required")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	a := &Archiver{
		dir:        dir,
		logger:     logger.With().Str("component", "archive").Logger(),
		writeLocks: make(map[string]*sync.Mutex),
	}

	a.logger.Info().Str("dir", dir).Msg("archive initialized")
	return a, nil
}

// validateSessionID rejects IDs that could escape the archive directory.
func (a *Archiver) validateSessionID(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session id cannot be empty")
	}
	if strings.Contains(sessionID, "..") {
		return fmt.Errorf("session id cannot contain '..'")
	}
	if strings.ContainsAny(sessionID, "/\\") {
		return fmt.Errorf("session id cannot contain path separators")
	}
	if strings.Contains(sessionID, "\x00") {
		return fmt.Errorf("session id cannot contain null bytes")
	}
	return nil
}

func (a *Archiver) path(sessionID string) string {
	return filepath.Join(a.dir, sessionID+".jsonl")
}

func (a *Archiver) getWriteLock(sessionID string) *sync.Mutex {
	a.locksMu.Lock()
	defer a.locksMu.Unlock()

	if lock, exists := a.writeLocks[sessionID]; exists {
		return lock
	}
	lock := &sync.Mutex{}
	a.writeLocks[sessionID] = lock
	return lock
}

// Archive appends the given turns to the session's archive file. Repeated
// archives of the same session (one per reset) accumulate in order.
func (a *Archiver) Archive(sessionID string, turns []chat.Turn) error {
	if err := a.validateSessionID(sessionID); err != nil {
		return err
	}

	lock := a.getWriteLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	file, err := os.OpenFile(a.path(sessionID), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open archive file: %w", err)
	}
	defer file.Close()

	for _, turn := range turns {
		rec := toRecord(sessionID, turn)
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal turn %s: %w", turn.ID, err)
		}
		if _, err := file.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write turn: %w", err)
		}
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync archive file: %w", err)
	}

	metrics.RecordArchive()
	a.logger.Debug().Str("session_id", sessionID).Int("turns", len(turns)).Msg("transcript archived")
	return nil
}

// Load reads every archived record for a session. Corrupt lines are skipped.
func (a *Archiver) Load(sessionID string) ([]Record, error) {
	if err := a.validateSessionID(sessionID); err != nil {
		return nil, err
	}

	file, err := os.Open(a.path(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("failed to open archive file: %w", err)
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			a.logger.Warn().Str("session_id", sessionID).Int("line", lineNum).Err(err).Msg("skipping corrupt archive line")
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read archive file: %w", err)
	}

	return records, nil
}

// List returns the session IDs with an archive file.
func (a *Archiver) List() ([]string, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read archive directory: %w", err)
	}

	var sessions []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		sessions = append(sessions, strings.TrimSuffix(entry.Name(), ".jsonl"))
	}
	return sessions, nil
}

func toRecord(sessionID string, turn chat.Turn) Record {
	rec := Record{
		SessionID: sessionID,
		TurnID:    turn.ID,
		Role:      string(turn.Role),
		Hidden:    turn.Hidden,
		Context:   turn.Context,
		Timestamp: turn.Timestamp,
	}
	switch c := turn.Content.(type) {
	case chat.TextContent:
		rec.Text = c.Text
	case chat.ImageContent:
		rec.Text = c.Text
		rec.ImageSize = len(c.Data)
	}
	return rec
}
