package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal/internal/account"
	"portal/internal/session"
)

var adminIdentity = account.Identity{
	ID:       "A-0001",
	Role:     account.KindAdmin,
	FullName: "REYES, ANA",
	Email:    "ana.reyes@example.com",
}

func TestTokenSigner_RoundTrip(t *testing.T) {
	s, err := NewTokenSigner("secret", "portal")
	require.NoError(t, err)

	sess := session.New(adminIdentity, time.Hour)
	token, err := s.Issue(sess)
	require.NoError(t, err)

	claims, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, claims.ID)
	assert.Equal(t, "A-0001", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokenSigner_RejectsOtherKey(t *testing.T) {
	a, _ := NewTokenSigner("key-a", "portal")
	b, _ := NewTokenSigner("key-b", "portal")

	token, err := a.Issue(session.New(adminIdentity, time.Hour))
	require.NoError(t, err)

	_, err = b.Parse(token)
	assert.Error(t, err)
}

func TestTokenSigner_RejectsIssuerMismatch(t *testing.T) {
	a, _ := NewTokenSigner("key", "portal")
	b, _ := NewTokenSigner("key", "other")

	token, err := a.Issue(session.New(adminIdentity, time.Hour))
	require.NoError(t, err)

	_, err = b.Parse(token)
	assert.Error(t, err)
}

func TestTokenSigner_RejectsExpired(t *testing.T) {
	s, _ := NewTokenSigner("key", "portal")
	sess := session.New(adminIdentity, time.Hour)
	sess.ExpiresAt = time.Now().Add(-time.Minute)

	token, err := s.Issue(sess)
	require.NoError(t, err)

	_, err = s.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenSigner_RejectsNoneAlgorithm(t *testing.T) {
	s, _ := NewTokenSigner("key", "portal")
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        "x",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.Parse(token)
	assert.Error(t, err)
}

func TestNewTokenSigner_RequiresKey(t *testing.T) {
	_, err := NewTokenSigner("", "portal")
	assert.Error(t, err)
}
