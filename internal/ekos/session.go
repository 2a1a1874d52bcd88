package ekos

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/ekos-sistemi/ekos-api/internal/models"
)

// Session is the credential state persisted between CLI invocations.
type Session struct {
	Token string          `json:"token"`
	User  models.UserInfo `json:"user"`
}

// SessionStore abstracts credential persistence so tests can swap in a
// memory fake.
type SessionStore interface {
	Load() (*Session, error)
	Save(session *Session) error
	Clear() error
}

// FileSessionStore keeps the session as a JSON file with owner-only
// permissions.
type FileSessionStore struct {
	path string
}

// NewFileSessionStore creates a store at the given path.
func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

// Load reads the stored session. A missing file means no session.
func (s *FileSessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	if session.Token == "" {
		return nil, nil
	}
	return &session, nil
}

// Save writes the session to disk.
func (s *FileSessionStore) Save(session *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the stored session.
func (s *FileSessionStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemorySessionStore is an in-memory store for tests.
type MemorySessionStore struct {
	session *Session
}

func (s *MemorySessionStore) Load() (*Session, error) { return s.session, nil }

func (s *MemorySessionStore) Save(session *Session) error {
	s.session = session
	return nil
}

func (s *MemorySessionStore) Clear() error {
	s.session = nil
	return nil
}
