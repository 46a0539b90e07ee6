// ABOUTME: Persists the signed-in session between CLI invocations
// ABOUTME: Stores session JSON in the XDG config directory with owner-only permissions

package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/Bryanads/thecheck-frontend-app/internal/identity"
)

// Store saves and restores a session
type Store interface {
	Load() (*identity.Session, error)
	Save(s *identity.Session) error
	Clear() error
}

// FileStore keeps the session in <dir>/session.json
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at the given config directory
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the session file location
func (fs *FileStore) Path() string {
	return filepath.Join(fs.dir, "session.json")
}

// Load reads the persisted session. A missing or unreadable file means no session.
func (fs *FileStore) Load() (*identity.Session, error) {
	data, err := os.ReadFile(fs.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s identity.Session
	if err := json.Unmarshal(data, &s); err != nil || s.AccessToken() == "" {
		// Invalid JSON, start fresh
		return nil, nil
	}
	return &s, nil
}

// Save writes the session atomically with 0600 permissions
func (fs *FileStore) Save(s *identity.Session) error {
	if err := os.MkdirAll(fs.dir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(fs.dir, "session-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fs.Path())
}

// Clear removes the persisted session
func (fs *FileStore) Clear() error {
	err := os.Remove(fs.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
