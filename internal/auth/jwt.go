package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"

	"portal/internal/session"
)

// Claims is the payload of a session cookie. The token only points at a
// stored session (ID is the session ID); the store stays authoritative.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenSigner issues and verifies HS256 session tokens.
type TokenSigner struct {
	key    []byte
	issuer string
}

// NewTokenSigner requires a non-empty signing key.
func NewTokenSigner(key, issuer string) (*TokenSigner, error) {
	if key == "" {
		return nil, oops.Code("AUTH_SIGNING_KEY_MISSING").Errorf("session signing key is required")
	}
	return &TokenSigner{key: []byte(key), issuer: issuer}, nil
}

// Issue signs a token for sess that expires with it.
func (s *TokenSigner) Issue(sess *session.Session) (string, error) {
	claims := Claims{
		Role: string(sess.Identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Issuer:    s.issuer,
			Subject:   sess.Identity.ID,
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_SIGN_FAILED").With("session_id", sess.ID).Wrap(err)
	}
	return token, nil
}

// Parse validates a token and returns claims.
func (s *TokenSigner) Parse(tokenStr string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.key, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid token")
	}
	if s.issuer != "" && claims.Issuer != s.issuer {
		return Claims{}, errors.New("issuer mismatch")
	}
	if claims.ID == "" {
		return Claims{}, errors.New("token has no session id")
	}
	return *claims, nil
}
