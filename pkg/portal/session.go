package portal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/linskybing/scan2cad/internal/domain/user"
)

// SessionContext holds the signed-in identity. Only Login and Logout mutate
// it; everything else reads the token.
type SessionContext struct {
	mu    sync.RWMutex
	token string
	user  user.UserDTO
	path  string
}

type storedSession struct {
	Token string       `json:"token"`
	User  user.UserDTO `json:"user"`
}

// NewSessionContext returns an empty session persisted at path. An empty
// path keeps the session in memory only.
func NewSessionContext(path string) *SessionContext {
	return &SessionContext{path: path}
}

// Restore loads a previously saved session. A missing file is not an error.
func (s *SessionContext) Restore() error {
	if s.path == "" {
		return nil
	}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	var stored storedSession
	if err := json.Unmarshal(raw, &stored); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}
	s.mu.Lock()
	s.token, s.user = stored.Token, stored.User
	s.mu.Unlock()
	return nil
}

func (s *SessionContext) Login(token string, u user.UserDTO) error {
	s.mu.Lock()
	s.token, s.user = token, u
	s.mu.Unlock()
	if s.path == "" {
		return nil
	}
	raw, err := json.Marshal(storedSession{Token: token, User: u})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	return os.WriteFile(s.path, raw, 0o600)
}

func (s *SessionContext) Logout() error {
	s.mu.Lock()
	s.token, s.user = "", user.UserDTO{}
	s.mu.Unlock()
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *SessionContext) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *SessionContext) User() user.UserDTO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *SessionContext) SignedIn() bool {
	return s.Token() != ""
}
