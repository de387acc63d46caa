// Package memory is an in-process account store used for development
// (STORE_BACKEND=memory) and as the backing store in tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"portal/internal/account"
)

// Repository keeps one kind's records in a map guarded by a mutex. It
// enforces the same uniqueness rules as the SQL schema (key and email).
type Repository struct {
	kind account.Kind
	now  func() time.Time

	mu      sync.RWMutex
	records map[string]*account.Account
}

// NewRepository creates an empty store for kind.
func NewRepository(kind account.Kind) *Repository {
	return &Repository{
		kind:    kind,
		now:     func() time.Time { return time.Now().UTC() },
		records: make(map[string]*account.Account),
	}
}

// NewDirectory is a convenience for wiring all three kinds in memory.
func NewDirectory() *account.Directory {
	d, err := account.NewDirectory(
		NewRepository(account.KindAdmin),
		NewRepository(account.KindProfessor),
		NewRepository(account.KindStudent),
	)
	if err != nil {
		panic(err) // all kinds are present, cannot fail
	}
	return d
}

func (r *Repository) Kind() account.Kind { return r.kind }

func (r *Repository) Create(_ context.Context, a *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Kind = r.kind
	if err := r.checkUnique(a); err != nil {
		return err
	}
	now := r.now()
	a.CreatedAt, a.UpdatedAt = now, now
	r.records[a.ID] = a.Clone()
	return nil
}

func (r *Repository) Update(_ context.Context, a *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[a.ID]; !ok {
		return account.ErrNotFound
	}
	if err := r.checkUnique(a); err != nil {
		return err
	}
	a.UpdatedAt = r.now()
	r.records[a.ID] = a.Clone()
	return nil
}

func (r *Repository) FindAll(_ context.Context) ([]*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*account.Account, 0, len(r.records))
	for _, a := range r.records {
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out, nil
}

func (r *Repository) FindByKey(_ context.Context, key string) (*account.Account, error) {
	return r.find(func(a *account.Account) bool { return a.Key() == key })
}

func (r *Repository) FindByEmail(_ context.Context, email string) (*account.Account, error) {
	return r.find(func(a *account.Account) bool { return a.Email == email })
}

func (r *Repository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records), nil
}

func (r *Repository) UpdateStatus(_ context.Context, ref string, status account.Status) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := r.lookupRef(ref)
	if a == nil {
		return nil, account.ErrNotFound
	}
	a.AccountStatus = status
	a.UpdatedAt = r.now()
	return a.Clone(), nil
}

func (r *Repository) Delete(_ context.Context, ref string) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := r.lookupRef(ref)
	if a == nil {
		return nil, account.ErrNotFound
	}
	delete(r.records, a.ID)
	return a, nil
}

func (r *Repository) find(match func(*account.Account) bool) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.records {
		if match(a) {
			return a.Clone(), nil
		}
	}
	return nil, account.ErrNotFound
}

// lookupRef must be called with mu held.
func (r *Repository) lookupRef(ref string) *account.Account {
	if a, ok := r.records[ref]; ok {
		return a
	}
	for _, a := range r.records {
		if a.Key() == ref {
			return a
		}
	}
	return nil
}

// checkUnique must be called with mu held.
func (r *Repository) checkUnique(a *account.Account) error {
	for id, other := range r.records {
		if id == a.ID {
			continue
		}
		if other.Key() == a.Key() {
			return &account.DuplicateKeyError{Kind: r.kind, Field: r.kind.KeyField()}
		}
		if other.Email == a.Email {
			return &account.DuplicateKeyError{Kind: r.kind, Field: "email"}
		}
	}
	return nil
}
