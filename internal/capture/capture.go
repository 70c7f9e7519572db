// Package capture tracks work sessions so that assistant hooks know when a
// periodic journal entry is due.
package capture

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const stateFileName = ".capture-state"

// DefaultInterval is the minimum time between two captures.
const DefaultInterval = 30 * time.Minute

const (
	sessionIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	sessionIDLength   = 8
)

// State is the persisted capture bookkeeping. A session opens on the first
// activity after a capture and closes when the next capture is recorded.
type State struct {
	SessionID    string    `json:"session_id,omitempty"`
	SessionStart time.Time `json:"session_start"`
	LastActivity time.Time `json:"last_activity"`
	LastCapture  time.Time `json:"last_capture"`
	Captures     int       `json:"captures"`
}

// StatePath returns the full path to the capture state file.
func StatePath(dataDir string) string {
	return filepath.Join(dataDir, stateFileName)
}

// Load reads the capture state. A missing or unreadable file yields a fresh
// state.
func Load(dataDir string) (*State, error) {
	data, err := os.ReadFile(StatePath(dataDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("reading capture state: %w", err)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return &State{}, nil
	}
	return &s, nil
}

// Save writes the capture state to disk.
func Save(dataDir string, s *State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return os.WriteFile(StatePath(dataDir), data, 0600)
}

// Touch records activity at now, opening a new session if none is active.
func (s *State) Touch(now time.Time) error {
	if s.SessionID == "" {
		id, err := gonanoid.Generate(sessionIDAlphabet, sessionIDLength)
		if err != nil {
			return fmt.Errorf("generating session ID: %w", err)
		}
		s.SessionID = id
		s.SessionStart = now
	}
	s.LastActivity = now
	return nil
}

// Due reports whether a capture should be recorded: there has been activity
// since the last capture and at least interval has passed since the later of
// the last capture and the session start.
func (s *State) Due(now time.Time, interval time.Duration) bool {
	if s.SessionID == "" || s.LastActivity.IsZero() {
		return false
	}
	if !s.LastCapture.IsZero() && !s.LastActivity.After(s.LastCapture) {
		return false
	}
	since := s.SessionStart
	if s.LastCapture.After(since) {
		since = s.LastCapture
	}
	return now.Sub(since) >= interval
}

// MarkCaptured records a capture at now and closes the current session.
func (s *State) MarkCaptured(now time.Time) {
	s.LastCapture = now
	s.SessionID = ""
	s.SessionStart = time.Time{}
	s.Captures++
}

// Touch loads the state in dataDir, records activity and saves it.
func Touch(dataDir string, now time.Time) (*State, error) {
	s, err := Load(dataDir)
	if err != nil {
		return nil, err
	}
	if err := s.Touch(now); err != nil {
		return nil, err
	}
	return s, Save(dataDir, s)
}

// MarkCaptured loads the state in dataDir, records a capture and saves it.
func MarkCaptured(dataDir string, now time.Time) (*State, error) {
	s, err := Load(dataDir)
	if err != nil {
		return nil, err
	}
	s.MarkCaptured(now)
	return s, Save(dataDir, s)
}
