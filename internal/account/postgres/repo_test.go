package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal/internal/account"
)

var fixedNow = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func newMockRepo(t *testing.T, kind account.Kind) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	repo, err := NewRepository(mock, kind)
	require.NoError(t, err)
	repo.now = func() time.Time { return fixedNow }
	return repo, mock
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

var professorColumns = []string{
	"id", "professor_id", "last_name", "first_name", "middle_name", "email", "password_hash",
	"contact_number", "department", "designation", "employment_status",
	"account_status", "created_at", "updated_at",
}

func professorRow(mock pgxmock.PgxPoolIface) *pgxmock.Rows {
	return mock.NewRows(professorColumns).AddRow(
		"c0ffee", "P-1001", "SANTOS", "MARIA", "LOPEZ", "maria@example.com", "$2a$hash",
		"09998887777", "CITE", "Instructor", "Full-time",
		account.StatusActive, fixedNow, fixedNow,
	)
}

func TestNewRepository_UnknownKind(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = NewRepository(mock, account.Kind("janitor"))
	assert.Error(t, err)
}

func TestCreate_InsertsEveryColumn(t *testing.T) {
	repo, mock := newMockRepo(t, account.KindStudent)

	a := &account.Account{
		StudentID:     "12-3456-789012",
		LastName:      "DELA CRUZ",
		FirstName:     "JUAN",
		MiddleName:    "SANTOS",
		Email:         "juan.delacruz.au@phinmaed.com",
		PasswordHash:  "$2a$hash",
		Course:        "BSCS",
		Section:       "A",
		YearLevel:     "1",
		AccountStatus: account.StatusActive,
	}

	args := append([]any{pgxmock.AnyArg()},
		"12-3456-789012", "DELA CRUZ", "JUAN", "SANTOS", "juan.delacruz.au@phinmaed.com", "$2a$hash",
		"BSCS", "A", "1", "active", fixedNow, fixedNow)
	mock.ExpectExec(`INSERT INTO students \(id, student_id, last_name, first_name, middle_name, email, password_hash, course, section, year_level, account_status, created_at, updated_at\) VALUES \(\$1, .*\$13\)`).
		WithArgs(args...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), a))
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, account.KindStudent, a.Kind)
	assert.Equal(t, fixedNow, a.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolation(t *testing.T) {
	tests := []struct {
		constraint string
		field      string
	}{
		{"admins_email_key", "email"},
		{"admins_employee_id_key", "employeeID"},
	}
	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			repo, mock := newMockRepo(t, account.KindAdmin)
			mock.ExpectExec(`INSERT INTO admins`).
				WithArgs(anyArgs(16)...).
				WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: tt.constraint})

			err := repo.Create(context.Background(), &account.Account{EmployeeID: "A-1"})
			var dup *account.DuplicateKeyError
			require.ErrorAs(t, err, &dup)
			assert.Equal(t, tt.field, dup.Field)
			assert.Equal(t, account.KindAdmin, dup.Kind)
		})
	}
}

func TestFindByKey(t *testing.T) {
	repo, mock := newMockRepo(t, account.KindProfessor)
	mock.ExpectQuery(`SELECT id, professor_id, .* FROM professors WHERE professor_id = \$1`).
		WithArgs("P-1001").
		WillReturnRows(professorRow(mock))

	a, err := repo.FindByKey(context.Background(), "P-1001")
	require.NoError(t, err)
	assert.Equal(t, account.KindProfessor, a.Kind)
	assert.Equal(t, "P-1001", a.ProfessorID)
	assert.Equal(t, "CITE", a.Department)
	assert.Equal(t, account.StatusActive, a.AccountStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t, account.KindProfessor)
	mock.ExpectQuery(`FROM professors WHERE email = \$1`).
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, account.ErrNotFound)
}

func TestFindAll(t *testing.T) {
	repo, mock := newMockRepo(t, account.KindProfessor)
	mock.ExpectQuery(`FROM professors ORDER BY professor_id`).
		WillReturnRows(professorRow(mock))

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "MARIA", all[0].FirstName)
}

func TestUpdate_MissingRow(t *testing.T) {
	repo, mock := newMockRepo(t, account.KindProfessor)
	mock.ExpectExec(`UPDATE professors SET professor_id = \$2, .* WHERE id = \$1`).
		WithArgs(anyArgs(13)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &account.Account{ID: "gone"})
	assert.ErrorIs(t, err, account.ErrNotFound)
}

func TestUpdateStatus_ByIDOrKey(t *testing.T) {
	repo, mock := newMockRepo(t, account.KindProfessor)
	mock.ExpectQuery(`UPDATE professors SET account_status = \$2, updated_at = \$3 WHERE id = \$1 OR professor_id = \$1 RETURNING`).
		WithArgs("P-1001", "suspended", fixedNow).
		WillReturnRows(professorRow(mock))

	a, err := repo.UpdateStatus(context.Background(), "P-1001", account.StatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, "P-1001", a.ProfessorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t, account.KindAdmin)
	mock.ExpectQuery(`DELETE FROM admins WHERE id = \$1 OR employee_id = \$1 RETURNING`).
		WithArgs("A-404").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Delete(context.Background(), "A-404")
	assert.ErrorIs(t, err, account.ErrNotFound)
}

func TestCount_WrapsDriverErrors(t *testing.T) {
	repo, mock := newMockRepo(t, account.KindAdmin)
	boom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM admins`).WillReturnError(boom)

	_, err := repo.Count(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, account.ErrNotFound)
}

func TestCount(t *testing.T) {
	repo, mock := newMockRepo(t, account.KindStudent)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM students`).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
