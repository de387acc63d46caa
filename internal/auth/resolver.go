package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/oops"

	"portal/internal/account"
)

// Resolver maps a login identifier to its record and checks the password.
type Resolver struct {
	dir    *account.Directory
	hasher PasswordHasher

	// dummyHash is verified against when no record exists so a missing
	// account costs the same as a wrong password.
	dummyHash string
}

// NewResolver validates its dependencies and precomputes the dummy hash.
func NewResolver(dir *account.Directory, hasher PasswordHasher) (*Resolver, error) {
	if dir == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("account directory is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("password hasher is required")
	}
	dummy, err := hasher.Hash("portal-dummy-password")
	if err != nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").With("operation", "compute dummy hash").Wrap(err)
	}
	return &Resolver{dir: dir, hasher: hasher, dummyHash: dummy}, nil
}

// Login routes loginID by prefix (see account.LoginRoutes) and verifies
// password. Unknown prefixes fail before any store is touched. IDs are
// stored upper-case, so they are matched that way.
func (r *Resolver) Login(ctx context.Context, loginID, password string) (*account.Account, error) {
	loginID = strings.ToUpper(strings.TrimSpace(loginID))
	kind, ok := account.KindForLoginID(loginID)
	if !ok {
		return nil, oops.Code("AUTH_INVALID_ID_FORMAT").Wrap(account.ErrInvalidIDFormat)
	}
	return r.LoginAs(ctx, kind, loginID, password)
}

// LoginAs authenticates against a single kind's store, skipping the
// prefix rule.
func (r *Resolver) LoginAs(ctx context.Context, kind account.Kind, key, password string) (*account.Account, error) {
	repo, err := r.dir.Repo(kind)
	if err != nil {
		return nil, err
	}

	key = strings.ToUpper(strings.TrimSpace(key))
	if key == "" {
		return nil, oops.Code("AUTH_INVALID_ID_FORMAT").Wrap(account.ErrInvalidIDFormat)
	}

	rec, lookupErr := repo.FindByKey(ctx, key)
	if lookupErr != nil && !errors.Is(lookupErr, account.ErrNotFound) {
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "find account").
			With("kind", kind).
			Wrap(lookupErr)
	}

	target := r.dummyHash
	if rec != nil {
		target = rec.PasswordHash
	}

	valid, verifyErr := r.hasher.Verify(password, target)
	if verifyErr != nil && rec != nil {
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			With("kind", kind).
			Wrap(verifyErr)
	}

	if rec == nil || !valid {
		return nil, oops.Code("AUTH_INVALID_CREDENTIALS").With("kind", kind).Wrap(account.ErrInvalidCredentials)
	}

	// Status is checked after verification so it is never disclosed to a
	// caller without the password.
	if rec.AccountStatus != account.StatusActive {
		return nil, oops.Code("AUTH_ACCOUNT_DISABLED").
			With("kind", kind).
			With("status", rec.AccountStatus).
			Wrap(account.ErrAccountDisabled)
	}
	return rec, nil
}

// VerifyPassword checks password against rec's stored hash.
func (r *Resolver) VerifyPassword(rec *account.Account, password string) error {
	valid, err := r.hasher.Verify(password, rec.PasswordHash)
	if err != nil {
		return oops.Code("AUTH_VERIFY_FAILED").With("kind", rec.Kind).Wrap(err)
	}
	if !valid {
		return oops.Code("AUTH_WRONG_PASSWORD").With("kind", rec.Kind).Wrap(account.ErrWrongPassword)
	}
	return nil
}
