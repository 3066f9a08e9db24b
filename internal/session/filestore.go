package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNoSession is returned by FileStore.Load when nothing has been saved.
var ErrNoSession = errors.New("no stored session")

// FileStore keeps the client session in a YAML file readable only by the owner.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns ~/.config/jobctl/session.yaml, or a relative file when no home is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".jobctl-session.yaml"
	}
	return filepath.Join(dir, "jobctl", "session.yaml")
}

// Path returns the backing file path.
func (f *FileStore) Path() string { return f.path }

// Save writes sess, replacing any previous session.
func (f *FileStore) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := yaml.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Load reads the stored session. A missing file yields ErrNoSession.
func (f *FileStore) Load() (*Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var sess Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if role, err := ParseRole(string(sess.Role)); err == nil {
		sess.Role = role
	}
	return &sess, nil
}

// Clear removes the stored session. Clearing an absent session is not an error.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
