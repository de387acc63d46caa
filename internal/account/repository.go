package account

import (
	"context"
	"errors"

	"github.com/samber/oops"
)

// Repository is one kind's record store. Every backend exposes the same
// polymorphic surface so administration can treat kinds interchangeably.
//
// Lookups that find nothing return ErrNotFound. Writes that violate a
// unique constraint return a *DuplicateKeyError. A ref is either the
// internal ID or the kind-specific key.
type Repository interface {
	Kind() Kind

	Create(ctx context.Context, a *Account) error
	Update(ctx context.Context, a *Account) error

	FindAll(ctx context.Context) ([]*Account, error)
	FindByKey(ctx context.Context, key string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	Count(ctx context.Context) (int, error)

	UpdateStatus(ctx context.Context, ref string, status Status) (*Account, error)
	Delete(ctx context.Context, ref string) (*Account, error)
}

// AdministrationOrder is the order kinds are tried when a ref does not say
// which store it belongs to.
var AdministrationOrder = []Kind{KindAdmin, KindProfessor, KindStudent}

// Directory holds one Repository per kind in AdministrationOrder.
type Directory struct {
	repos []Repository
}

// NewDirectory arranges repos in AdministrationOrder. Exactly one
// repository per kind is required.
func NewDirectory(repos ...Repository) (*Directory, error) {
	byKind := make(map[Kind]Repository, len(repos))
	for _, r := range repos {
		if r == nil {
			return nil, oops.Code("ACCOUNT_DIRECTORY_INVALID").Errorf("nil repository")
		}
		if _, dup := byKind[r.Kind()]; dup {
			return nil, oops.Code("ACCOUNT_DIRECTORY_INVALID").
				With("kind", r.Kind()).
				Errorf("duplicate repository for kind %s", r.Kind())
		}
		byKind[r.Kind()] = r
	}

	d := &Directory{}
	for _, k := range AdministrationOrder {
		r, ok := byKind[k]
		if !ok {
			return nil, oops.Code("ACCOUNT_DIRECTORY_INVALID").
				With("kind", k).
				Errorf("missing repository for kind %s", k)
		}
		d.repos = append(d.repos, r)
	}
	return d, nil
}

// Repo returns the store for kind.
func (d *Directory) Repo(kind Kind) (Repository, error) {
	for _, r := range d.repos {
		if r.Kind() == kind {
			return r, nil
		}
	}
	return nil, oops.Code("ACCOUNT_UNKNOWN_KIND").With("kind", kind).Errorf("unknown account kind %q", kind)
}

// List returns every record of the given kinds, or of all kinds when none
// are given, in AdministrationOrder.
func (d *Directory) List(ctx context.Context, kinds ...Kind) ([]*Account, error) {
	var out []*Account
	for _, r := range d.repos {
		if len(kinds) > 0 && !containsKind(kinds, r.Kind()) {
			continue
		}
		accounts, err := r.FindAll(ctx)
		if err != nil {
			return nil, oops.Code("ACCOUNT_LIST_FAILED").With("kind", r.Kind()).Wrap(err)
		}
		out = append(out, accounts...)
	}
	return out, nil
}

// UpdateStatus sets the status of the first record matching ref.
func (d *Directory) UpdateStatus(ctx context.Context, ref string, status Status) (*Account, error) {
	for _, r := range d.repos {
		a, err := r.UpdateStatus(ctx, ref, status)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, oops.Code("ACCOUNT_STATUS_UPDATE_FAILED").
				With("kind", r.Kind()).
				With("ref", ref).
				Wrap(err)
		}
		return a, nil
	}
	return nil, oops.With("ref", ref).Wrap(ErrNotFound)
}

// Delete removes the first record matching ref.
func (d *Directory) Delete(ctx context.Context, ref string) (*Account, error) {
	for _, r := range d.repos {
		a, err := r.Delete(ctx, ref)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, oops.Code("ACCOUNT_DELETE_FAILED").
				With("kind", r.Kind()).
				With("ref", ref).
				Wrap(err)
		}
		return a, nil
	}
	return nil, oops.With("ref", ref).Wrap(ErrNotFound)
}

func containsKind(kinds []Kind, k Kind) bool {
	for _, kk := range kinds {
		if kk == k {
			return true
		}
	}
	return false
}
