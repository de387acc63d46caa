// Package postgres implements account.Repository on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"portal/internal/account"
)

// Pool is the subset of *pgxpool.Pool the repository needs. pgxmock's
// PgxPoolIface satisfies it in unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// table describes how one kind is laid out: its table, key column and the
// kind-specific columns between password_hash and account_status.
type table struct {
	name      string
	keyColumn string
	keyRef    func(a *account.Account) *string
	extra     []string
	extraRefs func(a *account.Account) []any
}

var tables = map[account.Kind]table{
	account.KindStudent: {
		name:      "students",
		keyColumn: "student_id",
		keyRef:    func(a *account.Account) *string { return &a.StudentID },
		extra:     []string{"course", "section", "year_level"},
		extraRefs: func(a *account.Account) []any {
			return []any{&a.Course, &a.Section, &a.YearLevel}
		},
	},
	account.KindProfessor: {
		name:      "professors",
		keyColumn: "professor_id",
		keyRef:    func(a *account.Account) *string { return &a.ProfessorID },
		extra:     []string{"contact_number", "department", "designation", "employment_status"},
		extraRefs: func(a *account.Account) []any {
			return []any{&a.ContactNumber, &a.Department, &a.Designation, &a.EmploymentStatus}
		},
	},
	account.KindAdmin: {
		name:      "admins",
		keyColumn: "employee_id",
		keyRef:    func(a *account.Account) *string { return &a.EmployeeID },
		extra:     []string{"contact_number", "department", "designation", "employment_status", "role", "created_by"},
		extraRefs: func(a *account.Account) []any {
			return []any{&a.ContactNumber, &a.Department, &a.Designation, &a.EmploymentStatus, &a.Role, &a.CreatedBy}
		},
	},
}

func (t table) columns() []string {
	cols := []string{"id", t.keyColumn, "last_name", "first_name", "middle_name", "email", "password_hash"}
	cols = append(cols, t.extra...)
	return append(cols, "account_status", "created_at", "updated_at")
}

// refs returns scan destinations in columns() order.
func (t table) refs(a *account.Account) []any {
	refs := []any{&a.ID, t.keyRef(a), &a.LastName, &a.FirstName, &a.MiddleName, &a.Email, &a.PasswordHash}
	refs = append(refs, t.extraRefs(a)...)
	return append(refs, &a.AccountStatus, &a.CreatedAt, &a.UpdatedAt)
}

// values returns the column values of a keyed by column name.
func (t table) values(a *account.Account) map[string]any {
	cols := t.columns()
	refs := t.refs(a)
	out := make(map[string]any, len(cols))
	for i, c := range cols {
		switch v := refs[i].(type) {
		case *string:
			out[c] = *v
		case *account.Status:
			out[c] = string(*v)
		case *time.Time:
			out[c] = *v
		}
	}
	return out
}

func (t table) fieldForConstraint(kind account.Kind, constraint string) string {
	if strings.HasSuffix(constraint, "_email_key") {
		return "email"
	}
	return kind.KeyField()
}

// Repository stores one account kind in its own table.
type Repository struct {
	pool Pool
	kind account.Kind
	t    table
	now  func() time.Time

	selectSQL string
}

// NewRepository creates a repository for kind.
func NewRepository(pool Pool, kind account.Kind) (*Repository, error) {
	t, ok := tables[kind]
	if !ok {
		return nil, oops.Code("ACCOUNT_UNKNOWN_KIND").With("kind", kind).Errorf("no table for kind %q", kind)
	}
	return &Repository{
		pool:      pool,
		kind:      kind,
		t:         t,
		now:       func() time.Time { return time.Now().UTC() },
		selectSQL: strings.Join(t.columns(), ", "),
	}, nil
}

// NewDirectory wires all three kinds against one pool.
func NewDirectory(pool Pool) (*account.Directory, error) {
	var repos []account.Repository
	for _, k := range account.AdministrationOrder {
		r, err := NewRepository(pool, k)
		if err != nil {
			return nil, err
		}
		repos = append(repos, r)
	}
	return account.NewDirectory(repos...)
}

func (r *Repository) Kind() account.Kind { return r.kind }

func (r *Repository) Create(ctx context.Context, a *account.Account) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Kind = r.kind
	now := r.now()
	a.CreatedAt, a.UpdatedAt = now, now

	cols := r.t.columns()
	vals := r.t.values(a)
	args := make([]any, len(cols))
	placeholders := make([]string, len(cols))
	for i, c := range cols {
		args[i] = vals[c]
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		r.t.name, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return r.translate(err, "insert account")
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, a *account.Account) error {
	a.UpdatedAt = r.now()

	vals := r.t.values(a)
	args := []any{a.ID}
	var sets []string
	for _, c := range r.t.columns() {
		if c == "id" || c == "created_at" {
			continue
		}
		args = append(args, vals[c])
		sets = append(sets, fmt.Sprintf("%s = $%d", c, len(args)))
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1", r.t.name, strings.Join(sets, ", "))
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return r.translate(err, "update account")
	}
	if tag.RowsAffected() == 0 {
		return account.ErrNotFound
	}
	return nil
}

func (r *Repository) FindAll(ctx context.Context) ([]*account.Account, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", r.selectSQL, r.t.name, r.t.keyColumn)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, r.translate(err, "list accounts")
	}
	defer rows.Close()

	var out []*account.Account
	for rows.Next() {
		a := &account.Account{Kind: r.kind}
		if err := rows.Scan(r.t.refs(a)...); err != nil {
			return nil, r.translate(err, "scan account")
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, r.translate(err, "iterate accounts")
	}
	return out, nil
}

func (r *Repository) FindByKey(ctx context.Context, key string) (*account.Account, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", r.selectSQL, r.t.name, r.t.keyColumn)
	return r.queryOne(ctx, "find account by key", query, key)
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE email = $1", r.selectSQL, r.t.name)
	return r.queryOne(ctx, "find account by email", query, email)
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", r.t.name)
	if err := r.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, r.translate(err, "count accounts")
	}
	return n, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, ref string, status account.Status) (*account.Account, error) {
	query := fmt.Sprintf("UPDATE %s SET account_status = $2, updated_at = $3 WHERE id = $1 OR %s = $1 RETURNING %s",
		r.t.name, r.t.keyColumn, r.selectSQL)
	return r.queryOne(ctx, "update account status", query, ref, string(status), r.now())
}

func (r *Repository) Delete(ctx context.Context, ref string) (*account.Account, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1 OR %s = $1 RETURNING %s",
		r.t.name, r.t.keyColumn, r.selectSQL)
	return r.queryOne(ctx, "delete account", query, ref)
}

func (r *Repository) queryOne(ctx context.Context, op, query string, args ...any) (*account.Account, error) {
	a := &account.Account{Kind: r.kind}
	if err := r.pool.QueryRow(ctx, query, args...).Scan(r.t.refs(a)...); err != nil {
		return nil, r.translate(err, op)
	}
	return a, nil
}

func (r *Repository) translate(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return account.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return &account.DuplicateKeyError{
			Kind:  r.kind,
			Field: r.t.fieldForConstraint(r.kind, pgErr.ConstraintName),
		}
	}
	return oops.Code("STORE_QUERY_FAILED").
		With("operation", op).
		With("table", r.t.name).
		Wrap(err)
}
