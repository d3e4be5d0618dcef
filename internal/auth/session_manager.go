package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

// ErrSessionNotFound indicates the provided token does not map to an active session.
var ErrSessionNotFound = errors.New("session not found")

// Session binds an opaque bearer token to a user. A user holds at most one
// session: issuing a new one replaces the previous token and invalidates it.
type Session struct {
	Token    string
	UserID   string
	IssuedAt time.Time
}

// SessionStore persists issued tokens so they survive process restarts.
// Save must overwrite any existing session for the same user.
type SessionStore interface {
	Save(ctx context.Context, session Session) error
	Find(ctx context.Context, token string) (Session, error)
}

// Manager issues and resolves opaque session tokens backed by a persistent
// store. Tokens carry no expiry; the only way a token dies is being
// overwritten by the user's next login.
type Manager struct {
	store SessionStore
	now   func() time.Time
}

// NewManager constructs a Manager on top of the provided store.
func NewManager(store SessionStore) *Manager {
	if store == nil {
		panic("auth: session store must not be nil")
	}
	return &Manager{store: store, now: time.Now}
}

// Issue creates a fresh token for the user and persists it, displacing any
// previously issued token for the same user.
func (m *Manager) Issue(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user id must be provided")
	}

	token, err := randomToken()
	if err != nil {
		return "", err
	}

	if err := m.store.Save(ctx, Session{
		Token:    token,
		UserID:   userID,
		IssuedAt: m.now().UTC(),
	}); err != nil {
		return "", err
	}

	return token, nil
}

// Resolve maps a token to the owning user id, or ErrSessionNotFound.
func (m *Manager) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrSessionNotFound
	}

	session, err := m.store.Find(ctx, token)
	if err != nil {
		return "", err
	}

	return session.UserID, nil
}

// WithNowFunc overrides the time source. Useful for tests.
func (m *Manager) WithNowFunc(now func() time.Time) {
	m.now = now
}

func randomToken() (string, error) {
	const size = 32
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
