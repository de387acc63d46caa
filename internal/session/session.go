// Package session stores server-side login sessions keyed by an opaque ID.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"

	"portal/internal/account"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Session is the server-held state behind a client cookie.
type Session struct {
	ID        string           `json:"id"`
	Identity  account.Identity `json:"identity"`
	CreatedAt time.Time        `json:"createdAt"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// New creates a session for identity that lives for ttl.
func New(identity account.Identity, ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        ulid.Make().String(),
		Identity:  identity,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpiredAt reports whether the session is past its expiry at t.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}

// Store persists sessions. Save overwrites an existing session with the
// same ID and keeps its original expiry.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
