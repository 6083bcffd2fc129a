// Package session implements the time-boxed admin login gate. It is a UI
// gate for a single local instance, not a security boundary.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// Session is the capability handed out on login. Expiry is checked by the
// consumer on every access, not by ambient global state.
type Session struct {
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Manager issues and validates admin sessions.
type Manager struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*Session
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Issue creates a new session with a random token.
func (m *Manager) Issue() (*Session, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}

	now := time.Now()
	s := &Session{
		Token:     hex.EncodeToString(buf),
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s
	return s, nil
}

// Validate reports whether the token belongs to a live session. Expired
// sessions are dropped on access.
func (m *Manager) Validate(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return false
	}
	if time.Now().After(s.ExpiresAt) {
		delete(m.sessions, token)
		return false
	}
	return true
}

// Revoke drops the session for a token, if any.
func (m *Manager) Revoke(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// CleanupExpired removes every expired session and returns how many were
// dropped. Meant to be called periodically by a janitor.
func (m *Manager) CleanupExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	dropped := 0
	for token, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, token)
			dropped++
		}
	}
	return dropped
}
