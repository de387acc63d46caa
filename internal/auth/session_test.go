package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal/internal/account"
	"portal/internal/session"
)

func newTestManager(t *testing.T) (*SessionManager, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore(time.Hour)
	t.Cleanup(func() { _ = store.Close() })

	signer, err := NewTokenSigner("test-key", "portal")
	require.NoError(t, err)

	mgr, err := NewSessionManager(store, signer, time.Hour)
	require.NoError(t, err)
	return mgr, store
}

func TestSessionManager_StartResolveEnd(t *testing.T) {
	ctx := context.Background()
	mgr, store := newTestManager(t)

	token, sess, err := mgr.Start(ctx, adminIdentity)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	got, err := mgr.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, adminIdentity, got.Identity)

	require.NoError(t, mgr.End(ctx, token))
	_, err = mgr.Resolve(ctx, token)
	assert.ErrorIs(t, err, account.ErrUnauthenticated)
}

func TestSessionManager_ResolveRejectsGarbage(t *testing.T) {
	mgr, _ := newTestManager(t)

	_, err := mgr.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, account.ErrUnauthenticated)

	_, err = mgr.Resolve(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, account.ErrUnauthenticated)
}

func TestSessionManager_Replace(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager(t)

	token, sess, err := mgr.Start(ctx, adminIdentity)
	require.NoError(t, err)

	renamed := adminIdentity
	renamed.FullName = "REYES, ANNA"
	require.NoError(t, mgr.Replace(ctx, sess, renamed))
	assert.Equal(t, "REYES, ANNA", sess.Identity.FullName)

	got, err := mgr.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "REYES, ANNA", got.Identity.FullName)
	assert.Equal(t, sess.ExpiresAt, got.ExpiresAt)
}

func TestSessionManager_EndIgnoresUnknownTokens(t *testing.T) {
	mgr, _ := newTestManager(t)
	assert.NoError(t, mgr.End(context.Background(), ""))
	assert.NoError(t, mgr.End(context.Background(), "garbage"))
}

func TestNewSessionManager_DefaultTTL(t *testing.T) {
	signer, _ := NewTokenSigner("k", "")
	store := session.NewMemoryStore(time.Hour)
	defer store.Close()

	mgr, err := NewSessionManager(store, signer, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionTTL, mgr.TTL())

	_, err = NewSessionManager(nil, signer, time.Hour)
	assert.Error(t, err)
}
