// Package session holds the signed-in user's credential as an explicit value
// with an init-on-startup / clear-on-signout lifecycle. The token is threaded
// by callers into every ledger call rather than read from an ambient global.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
)

// ErrNotSignedIn indicates an operation that requires an active session.
var ErrNotSignedIn = errors.New("not signed in")

// Session is the credential state persisted across runs.
type Session struct {
	Token       string `json:"token"`
	DisplayName string `json:"displayName"`
}

// Active reports whether a credential is present.
func (s Session) Active() bool {
	return s.Token != ""
}

// Manager guards the current session and mirrors it to a local file so a
// restart does not force a fresh login.
type Manager struct {
	path    string
	logger  *zap.Logger
	mu      sync.RWMutex
	current Session
}

// NewManager creates a manager and loads any previously persisted session.
// A missing or unreadable file simply starts signed out.
func NewManager(path string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{path: path, logger: logger}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("failed reading session file, starting signed out", zap.Error(err))
		}
		return m
	}

	var stored Session
	if err := json.Unmarshal(data, &stored); err != nil {
		logger.Warn("corrupt session file, starting signed out", zap.Error(err))
		return m
	}

	m.current = stored
	if stored.Active() {
		logger.Info("restored session", zap.String("user", stored.DisplayName))
	}
	return m
}

// Current returns the session value as of now.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// SignIn stores the credential and persists it to disk.
func (m *Manager) SignIn(sess Session) error {
	if !sess.Active() {
		return errors.New("refusing to store empty credential")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o600); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	m.current = sess
	return nil
}

// SignOut clears the credential and removes the persisted file.
func (m *Manager) SignOut() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = Session{}
	if err := os.Remove(m.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
