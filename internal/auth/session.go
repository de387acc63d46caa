package auth

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"

	"portal/internal/account"
	"portal/internal/session"
)

// DefaultSessionTTL applies when no TTL is configured.
const DefaultSessionTTL = 24 * time.Hour

// SessionManager ties the signed cookie token to the stored session.
type SessionManager struct {
	store  session.Store
	signer *TokenSigner
	ttl    time.Duration
}

// NewSessionManager validates its dependencies.
func NewSessionManager(store session.Store, signer *TokenSigner, ttl time.Duration) (*SessionManager, error) {
	if store == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("session store is required")
	}
	if signer == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("token signer is required")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{store: store, signer: signer, ttl: ttl}, nil
}

// TTL is how long a new session lives.
func (m *SessionManager) TTL() time.Duration { return m.ttl }

// Start stores a session for identity and returns the cookie token.
func (m *SessionManager) Start(ctx context.Context, identity account.Identity) (string, *session.Session, error) {
	sess := session.New(identity, m.ttl)
	if err := m.store.Save(ctx, sess); err != nil {
		return "", nil, oops.Code("SESSION_CREATE_FAILED").With("identity", identity.ID).Wrap(err)
	}
	token, err := m.signer.Issue(sess)
	if err != nil {
		_ = m.store.Delete(ctx, sess.ID)
		return "", nil, err
	}
	return token, sess, nil
}

// Resolve returns the live session behind token. Any invalid, expired or
// ended token yields account.ErrUnauthenticated.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*session.Session, error) {
	if token == "" {
		return nil, account.ErrUnauthenticated
	}
	claims, err := m.signer.Parse(token)
	if err != nil {
		return nil, oops.Code("SESSION_INVALID").With("reason", err.Error()).Wrap(account.ErrUnauthenticated)
	}

	sess, err := m.store.Get(ctx, claims.ID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, oops.Code("SESSION_INVALID").With("session_id", claims.ID).Wrap(account.ErrUnauthenticated)
	}
	if err != nil {
		return nil, oops.Code("SESSION_LOAD_FAILED").With("session_id", claims.ID).Wrap(err)
	}
	if sess.Identity.ID != claims.Subject {
		return nil, oops.Code("SESSION_SUBJECT_MISMATCH").With("session_id", claims.ID).Wrap(account.ErrUnauthenticated)
	}
	return sess, nil
}

// Replace swaps the cached identity of sess, keeping its expiry.
func (m *SessionManager) Replace(ctx context.Context, sess *session.Session, identity account.Identity) error {
	updated := *sess
	updated.Identity = identity
	if err := m.store.Save(ctx, &updated); err != nil {
		return oops.Code("SESSION_UPDATE_FAILED").With("session_id", sess.ID).Wrap(err)
	}
	*sess = updated
	return nil
}

// End invalidates the session behind token. Unknown or malformed tokens
// are ignored: there is nothing to end.
func (m *SessionManager) End(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := m.signer.Parse(token)
	if err != nil {
		return nil
	}
	if err := m.store.Delete(ctx, claims.ID); err != nil {
		return oops.Code("SESSION_DELETE_FAILED").With("session_id", claims.ID).Wrap(err)
	}
	return nil
}
