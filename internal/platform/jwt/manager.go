package jwtmw

import "time"

// Manager issues and verifies session tokens with an injected signing key.
type Manager struct {
	key []byte
	now func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for issuing and verifying tokens.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager bound to secret.
func NewManager(secret string, opts ...Option) *Manager {
	m := &Manager{
		key: []byte(secret),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// GenerateToken issues a token for the user at the current time.
func (m *Manager) GenerateToken(userID uint, email string) (string, error) {
	return IssueToken(userID, email, m.now(), m.key)
}

// Verify validates token against the current time.
func (m *Manager) Verify(token string) (*Identity, error) {
	return VerifyToken(token, m.key, m.now())
}
