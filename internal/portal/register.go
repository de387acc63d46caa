package portal

import (
	"context"
	"errors"

	"github.com/samber/oops"
	"github.com/sirupsen/logrus"

	"portal/internal/account"
)

// RegisterStudent creates a student record. New students are active.
func (s *Service) RegisterStudent(ctx context.Context, req StudentRegistration) (*account.Account, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	a := &account.Account{
		Kind:          account.KindStudent,
		StudentID:     req.StudentID,
		LastName:      req.LastName,
		FirstName:     req.FirstName,
		MiddleName:    req.MiddleName,
		Email:         req.Email,
		Course:        req.Course,
		Section:       req.Section,
		YearLevel:     req.YearLevel,
		AccountStatus: account.StatusActive,
	}
	return s.create(ctx, a, req.Password)
}

// RegisterProfessor creates a professor record. AccountStatus defaults to
// active.
func (s *Service) RegisterProfessor(ctx context.Context, req ProfessorRegistration) (*account.Account, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	status := account.StatusActive
	if req.AccountStatus != "" {
		status, _ = account.ParseStatus(req.AccountStatus)
	}
	a := &account.Account{
		Kind:             account.KindProfessor,
		ProfessorID:      req.ProfessorID,
		LastName:         req.LastName,
		FirstName:        req.FirstName,
		MiddleName:       req.MiddleName,
		Email:            req.Email,
		ContactNumber:    req.ContactNumber,
		Department:       req.Department,
		Designation:      req.Designation,
		EmploymentStatus: req.EmploymentStatus,
		AccountStatus:    status,
	}
	return s.create(ctx, a, req.Password)
}

// RegisterAdmin creates an admin record on behalf of caller. A nil caller
// is only accepted while no admin exists, which is how the first admin
// is bootstrapped.
func (s *Service) RegisterAdmin(ctx context.Context, caller *account.Identity, req AdminRegistration) (*account.Account, error) {
	createdBy, err := s.adminCreator(ctx, caller, req.CreatedBy)
	if err != nil {
		return nil, err
	}
	if err := s.check(req); err != nil {
		return nil, err
	}
	status, _ := account.ParseStatus(req.AccountStatus)
	a := &account.Account{
		Kind:             account.KindAdmin,
		EmployeeID:       req.EmployeeID,
		LastName:         req.LastName,
		FirstName:        req.FirstName,
		MiddleName:       req.MiddleName,
		Email:            req.Email,
		ContactNumber:    req.ContactNumber,
		Department:       req.Department,
		Designation:      req.Designation,
		EmploymentStatus: req.EmploymentStatus,
		Role:             req.Role,
		CreatedBy:        createdBy,
		AccountStatus:    status,
	}
	return s.create(ctx, a, req.Password)
}

func (s *Service) adminCreator(ctx context.Context, caller *account.Identity, requested string) (string, error) {
	if caller != nil {
		if caller.Role != account.KindAdmin {
			return "", oops.Code("PORTAL_FORBIDDEN").With("role", caller.Role).Wrap(account.ErrForbidden)
		}
		return caller.ID, nil
	}

	repo, err := s.dir.Repo(account.KindAdmin)
	if err != nil {
		return "", err
	}
	n, err := repo.Count(ctx)
	if err != nil {
		return "", oops.Code("ACCOUNT_COUNT_FAILED").With("kind", account.KindAdmin).Wrap(err)
	}
	if n > 0 {
		return "", oops.Code("PORTAL_UNAUTHENTICATED").Wrap(account.ErrUnauthenticated)
	}
	if requested == "" {
		requested = "bootstrap"
	}
	return requested, nil
}

func (s *Service) create(ctx context.Context, a *account.Account, password string) (*account.Account, error) {
	a.Normalize()

	repo, err := s.dir.Repo(a.Kind)
	if err != nil {
		return nil, err
	}
	if err := ensureUnique(ctx, repo, a.Email, a.Key(), ""); err != nil {
		return nil, err
	}

	a.PasswordHash, err = s.hashPassword(password)
	if err != nil {
		return nil, err
	}

	if err := repo.Create(ctx, a); err != nil {
		var dup *account.DuplicateKeyError
		if errors.As(err, &dup) {
			return nil, err
		}
		return nil, oops.Code("ACCOUNT_CREATE_FAILED").With("kind", a.Kind).Wrap(err)
	}

	s.log.WithFields(logrus.Fields{
		"kind": a.Kind,
		"key":  a.Key(),
	}).Info("account registered")
	return a, nil
}
