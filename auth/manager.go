package auth

import (
	"sync"

	"github.com/pkg/errors"
)

// Manager caches one token per athlete. Cached tokens are not modified in
// place; storing a token for an athlete replaces the previous one.
type Manager struct {
	mu     sync.RWMutex
	tokens map[int64]*Token
}

func NewManager() *Manager {
	return &Manager{
		tokens: map[int64]*Token{},
	}
}

func (m *Manager) lookup(userID int64) *Token {
	m.mu.RLock()
	defer m.mu.RUnlock()
	token := m.tokens[userID]
	if token == nil || token.Scopes == nil {
		return nil
	}
	return token
}

// Retrieve returns the cached token for the athlete, or nil.
func (m *Manager) Retrieve(userID int64) *Token {
	return m.lookup(userID)
}

// RetrieveWithScope returns the cached token if it was granted at least
// scopes, or nil.
func (m *Manager) RetrieveWithScope(userID int64, scopes ...Scope) *Token {
	token := m.lookup(userID)
	if token == nil || !token.HasScopes(scopes...) {
		return nil
	}
	return token
}

// RetrieveWithExactScope returns the cached token if it was granted exactly
// scopes, or nil.
func (m *Manager) RetrieveWithExactScope(userID int64, scopes ...Scope) *Token {
	token := m.lookup(userID)
	if token == nil || !token.HasExactScopes(scopes...) {
		return nil
	}
	return token
}

func (m *Manager) Store(token *Token) error {
	if token == nil {
		return errors.Wrap(ErrInvalidArgument, "cannot store a nil token")
	}
	if token.Athlete == nil {
		return errors.Wrap(ErrInvalidArgument, "cannot store a token without an athlete")
	}
	if token.Athlete.ID == 0 {
		return errors.Wrap(ErrInvalidArgument, "cannot store a token without an athlete id")
	}
	if token.Scopes == nil {
		return errors.Wrap(ErrInvalidArgument, "cannot store a token without scopes")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token.Athlete.ID] = token
	return nil
}

// Revoke drops the cached token of the athlete token belongs to.
func (m *Manager) Revoke(token *Token) {
	id := token.AthleteID()
	if id == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, id)
}

func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.tokens)
}
