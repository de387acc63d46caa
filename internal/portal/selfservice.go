package portal

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/oops"
	"github.com/sirupsen/logrus"

	"portal/internal/account"
)

// restrict drops the fields kind may not change on its own record.
func restrict(kind account.Kind, req AccountUpdate) (AccountUpdate, bool) {
	switch kind {
	case account.KindAdmin:
		return req, true
	case account.KindProfessor:
		return AccountUpdate{
			ContactNumber:   req.ContactNumber,
			CurrentPassword: req.CurrentPassword,
			NewPassword:     req.NewPassword,
		}, true
	}
	return AccountUpdate{}, false
}

// UpdateAccount applies caller's self-service change and returns the
// refreshed identity for the session.
func (s *Service) UpdateAccount(ctx context.Context, caller account.Identity, req AccountUpdate) (account.Identity, error) {
	req, ok := restrict(caller.Role, req)
	if !ok {
		return account.Identity{}, account.NewValidationError("Invalid user type")
	}
	if err := s.check(req); err != nil {
		return account.Identity{}, err
	}

	repo, err := s.dir.Repo(caller.Role)
	if err != nil {
		return account.Identity{}, err
	}
	rec, err := repo.FindByKey(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return account.Identity{}, oops.With("key", caller.ID).Wrap(account.ErrNotFound)
		}
		return account.Identity{}, oops.Code("ACCOUNT_LOOKUP_FAILED").With("kind", caller.Role).Wrap(err)
	}

	passwordChanged := false
	if req.CurrentPassword != "" {
		if err := s.resolver.VerifyPassword(rec, req.CurrentPassword); err != nil {
			return account.Identity{}, err
		}
		if req.NewPassword != "" {
			if rec.PasswordHash, err = s.hashPassword(req.NewPassword); err != nil {
				return account.Identity{}, err
			}
			passwordChanged = true
		}
	}

	apply(&rec.LastName, req.LastName)
	apply(&rec.FirstName, req.FirstName)
	apply(&rec.MiddleName, req.MiddleName)
	apply(&rec.ContactNumber, req.ContactNumber)
	apply(&rec.Email, req.Email)
	apply(&rec.Department, req.Department)
	apply(&rec.Designation, req.Designation)
	apply(&rec.EmploymentStatus, req.EmploymentStatus)
	apply(&rec.Role, req.Role)
	rec.Normalize()

	if req.Email != "" {
		if err := ensureUnique(ctx, repo, rec.Email, "", rec.ID); err != nil {
			return account.Identity{}, err
		}
	}

	if err := repo.Update(ctx, rec); err != nil {
		var dup *account.DuplicateKeyError
		if errors.As(err, &dup) {
			return account.Identity{}, err
		}
		return account.Identity{}, oops.Code("ACCOUNT_UPDATE_FAILED").With("kind", rec.Kind).Wrap(err)
	}

	s.log.WithFields(logrus.Fields{
		"kind":             rec.Kind,
		"key":              rec.Key(),
		"password_changed": passwordChanged,
	}).Info("account updated")
	return rec.Identity(), nil
}

func apply(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
