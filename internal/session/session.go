// Package session persists the OAuth access token and UI theme between runs.
// The session lives in ~/.config/wpstores/session.toml.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultSessionPath = "~/.config/wpstores/session.toml"
	defaultTheme       = "Nightfox"
)

// Data is the on-disk session document.
type Data struct {
	Token string `toml:"token"`
	Theme string `toml:"theme"`
}

// DefaultPath returns the default session file path.
func DefaultPath() string {
	return defaultSessionPath
}

// Load reads session data from path. A missing or unreadable file yields an
// empty session with the default theme.
func Load(path string) Data {
	data := Data{Theme: defaultTheme}
	resolved, err := resolvePath(path)
	if err != nil {
		return data
	}
	bytes, err := os.ReadFile(resolved)
	if err != nil {
		return data
	}
	if err := toml.Unmarshal(bytes, &data); err != nil {
		return Data{Theme: defaultTheme}
	}
	data.Token = strings.TrimSpace(data.Token)
	if strings.TrimSpace(data.Theme) == "" {
		data.Theme = defaultTheme
	}
	return data
}

// Save writes data to path, creating directories as needed. The file is
// readable by the owner only since it holds a bearer token.
func Save(path string, data Data) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	bytes, err := toml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(resolved, bytes, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Session is a file backed, concurrency safe token holder. It satisfies
// wpcom.TokenSource and account.TokenStore.
type Session struct {
	path string

	mu   sync.RWMutex
	data Data
}

// Open loads the session stored at path.
func Open(path string) *Session {
	return &Session{path: path, data: Load(path)}
}

// AccessToken returns the stored token, or "" when signed out.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Token
}

// SetAccessToken stores token and writes the session to disk.
func (s *Session) SetAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.data
	next.Token = strings.TrimSpace(token)
	if err := Save(s.path, next); err != nil {
		return err
	}
	s.data = next
	return nil
}

// Theme returns the preferred UI theme.
func (s *Session) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Theme
}

// SetTheme stores the preferred UI theme and writes the session to disk.
func (s *Session) SetTheme(theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.data
	next.Theme = strings.TrimSpace(theme)
	if next.Theme == "" {
		next.Theme = defaultTheme
	}
	if err := Save(s.path, next); err != nil {
		return err
	}
	s.data = next
	return nil
}

// Clear removes the token from memory and disk.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	resolved, err := resolvePath(s.path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.Remove(resolved); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	s.data = Data{Theme: s.data.Theme}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultSessionPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
