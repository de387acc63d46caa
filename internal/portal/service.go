// Package portal implements the account operations exposed over HTTP:
// registration per kind, cross-kind administration and self-service
// profile updates.
package portal

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"portal/internal/account"
	"portal/internal/auth"
)

// Service is the account business layer.
type Service struct {
	dir      *account.Directory
	hasher   auth.PasswordHasher
	resolver *auth.Resolver
	validate *validator.Validate
	log      logrus.FieldLogger
}

// NewService wires the directory and credential primitives.
func NewService(dir *account.Directory, hasher auth.PasswordHasher, log logrus.FieldLogger) (*Service, error) {
	if dir == nil {
		return nil, oops.Code("PORTAL_INVALID_DEPENDENCY").Errorf("account directory is required")
	}
	if hasher == nil {
		return nil, oops.Code("PORTAL_INVALID_DEPENDENCY").Errorf("password hasher is required")
	}
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	resolver, err := auth.NewResolver(dir, hasher)
	if err != nil {
		return nil, err
	}
	return &Service{
		dir:      dir,
		hasher:   hasher,
		resolver: resolver,
		validate: newValidator(),
		log:      log,
	}, nil
}

// Resolver exposes the login resolver sharing this service's stores.
func (s *Service) Resolver() *auth.Resolver { return s.resolver }

// Directory exposes the underlying stores.
func (s *Service) Directory() *account.Directory { return s.dir }

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", account.NewValidationError(formatMessages["max"])
	}
	if errors.Is(err, auth.ErrEmptyPassword) {
		return "", account.NewValidationError("All fields are required.", "password is required")
	}
	return hash, err
}

// ensureUnique reports a DuplicateKeyError when email or key is already
// taken within repo by a record other than selfID.
func ensureUnique(ctx context.Context, repo account.Repository, email, key, selfID string) error {
	if email != "" {
		existing, err := repo.FindByEmail(ctx, email)
		if err == nil && existing.ID != selfID {
			return &account.DuplicateKeyError{Kind: repo.Kind(), Field: "email"}
		}
		if err != nil && !errors.Is(err, account.ErrNotFound) {
			return oops.Code("ACCOUNT_LOOKUP_FAILED").With("kind", repo.Kind()).Wrap(err)
		}
	}
	if key != "" {
		existing, err := repo.FindByKey(ctx, key)
		if err == nil && existing.ID != selfID {
			return &account.DuplicateKeyError{Kind: repo.Kind(), Field: repo.Kind().KeyField()}
		}
		if err != nil && !errors.Is(err, account.ErrNotFound) {
			return oops.Code("ACCOUNT_LOOKUP_FAILED").With("kind", repo.Kind()).Wrap(err)
		}
	}
	return nil
}
