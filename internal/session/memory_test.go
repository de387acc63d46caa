package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"portal/internal/account"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testIdentity = account.Identity{
	ID:       "A-0001",
	Role:     account.KindAdmin,
	FullName: "DELA CRUZ, JUAN SANTOS",
	Email:    "juan@example.com",
}

func TestMemoryStore_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	defer store.Close()

	sess := New(testIdentity, time.Hour)
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, testIdentity, got.Identity)

	require.NoError(t, store.Delete(ctx, sess.ID))
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	defer store.Close()

	sess := New(testIdentity, time.Hour)
	require.NoError(t, store.Save(ctx, sess))

	sess.Identity.FullName = "DELA CRUZ, PEDRO SANTOS"
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "DELA CRUZ, PEDRO SANTOS", got.Identity.FullName)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_ExpiredSessionIsNotReturned(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	defer store.Close()

	sess := New(testIdentity, time.Minute)
	require.NoError(t, store.Save(ctx, sess))

	store.mu.Lock()
	store.now = func() time.Time { return sess.ExpiresAt.Add(time.Second) }
	store.mu.Unlock()

	_, err := store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, store.Len())
}

func TestMemoryStore_JanitorSweeps(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(5 * time.Millisecond)
	defer store.Close()

	expired := New(testIdentity, -time.Second)
	live := New(testIdentity, time.Hour)
	require.NoError(t, store.Save(ctx, expired))
	require.NoError(t, store.Save(ctx, live))

	assert.Eventually(t, func() bool { return store.Len() == 1 }, time.Second, 5*time.Millisecond)
	_, err := store.Get(ctx, live.ID)
	assert.NoError(t, err)
}

func TestMemoryStore_CloseIsIdempotent(t *testing.T) {
	store := NewMemoryStore(time.Millisecond)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}

func TestSession_IsExpiredAt(t *testing.T) {
	sess := New(testIdentity, time.Hour)
	assert.False(t, sess.IsExpiredAt(sess.CreatedAt))
	assert.True(t, sess.IsExpiredAt(sess.ExpiresAt))
	assert.NotEmpty(t, sess.ID)
}
