package portal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal/internal/account"
)

type seeded struct {
	admin     *account.Account
	professor *account.Account
	student   *account.Account
}

func seedAll(t *testing.T, svc *Service) seeded {
	t.Helper()
	ctx := context.Background()
	var s seeded
	var err error
	s.admin, err = svc.RegisterAdmin(ctx, nil, validAdmin())
	require.NoError(t, err)
	s.professor, err = svc.RegisterProfessor(ctx, validProfessor())
	require.NoError(t, err)
	s.student, err = svc.RegisterStudent(ctx, validStudent())
	require.NoError(t, err)
	return s
}

func TestListAccounts_TaggedAcrossKinds(t *testing.T) {
	svc := newTestService(t)
	seedAll(t, svc)

	views, err := svc.ListAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, account.KindAdmin, views[0].Kind)
	assert.Equal(t, account.KindProfessor, views[1].Kind)
	assert.Equal(t, account.KindStudent, views[2].Kind)
	assert.Equal(t, "REYES, ANA CRUZ", views[0].FullName)

	admins, err := svc.ListAdmins(context.Background())
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "A-0001", admins[0].EmployeeID)
}

func TestUpdateStatus_FallsThroughToProfessor(t *testing.T) {
	svc := newTestService(t)
	s := seedAll(t, svc)
	actor := s.admin.Identity()

	byKey, err := svc.UpdateStatus(context.Background(), actor, "P-1001", "Suspended")
	require.NoError(t, err)
	assert.Equal(t, account.KindProfessor, byKey.Kind)
	assert.Equal(t, account.StatusSuspended, byKey.AccountStatus)

	byID, err := svc.UpdateStatus(context.Background(), actor, s.professor.ID, "inactive")
	require.NoError(t, err)
	assert.Equal(t, account.StatusInactive, byID.AccountStatus)

	_, err = svc.UpdateStatus(context.Background(), actor, s.student.StudentID, "inactive")
	require.NoError(t, err)
}

func TestUpdateStatus_Errors(t *testing.T) {
	svc := newTestService(t)
	s := seedAll(t, svc)
	actor := s.admin.Identity()

	_, err := svc.UpdateStatus(context.Background(), actor, "P-1001", "frozen")
	var verr *account.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.UpdateStatus(context.Background(), actor, "P-9999", "active")
	assert.ErrorIs(t, err, account.ErrNotFound)
}

func TestDelete_FallsThroughAndRemoves(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	s := seedAll(t, svc)
	actor := s.admin.Identity()

	deleted, err := svc.Delete(ctx, actor, s.professor.ID)
	require.NoError(t, err)
	assert.Equal(t, "P-1001", deleted.ProfessorID)
	assert.Zero(t, count(t, svc, account.KindProfessor))
	assert.Equal(t, 1, count(t, svc, account.KindAdmin))

	_, err = svc.Delete(ctx, actor, s.professor.ID)
	assert.ErrorIs(t, err, account.ErrNotFound)
}
