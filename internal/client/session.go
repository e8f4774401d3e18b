package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"taskboard/internal/model"
)

const (
	sessionDirName  = "taskboard"
	sessionFileName = "session.json"
)

// Session is the locally persisted token plus a snapshot of the user it
// belongs to, read back on start so a run does not re-authenticate.
type Session struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// SessionStore persists one Session as a JSON file.
type SessionStore struct {
	path string
}

// NewSessionStore builds a store around the given file path.
func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// DefaultSessionStore stores the session under the user config directory.
func DefaultSessionStore() (*SessionStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return NewSessionStore(filepath.Join(dir, sessionDirName, sessionFileName)), nil
}

// Load reads the saved session. A missing or unreadable file yields
// (nil, nil): no session, start logged out.
func (s *SessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.Token == "" {
		// A corrupt session file is treated as logged out.
		return nil, nil
	}
	return &sess, nil
}

// Save writes the session with owner-only permissions.
func (s *SessionStore) Save(sess *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the saved session; clearing an absent session is not an error.
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
