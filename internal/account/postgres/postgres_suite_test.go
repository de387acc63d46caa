//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"portal/internal/account"
	"portal/internal/account/postgres"
	"portal/internal/store"
)

func TestPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Account Store Integration Suite")
}

var (
	ctx       context.Context
	container testcontainers.Container
	db        *store.DB
	dir       *account.Directory
)

var _ = BeforeSuite(func() {
	ctx = context.Background()

	pg, err := tcpostgres.Run(ctx,
		"postgres:17-alpine",
		tcpostgres.WithDatabase("portal_test"),
		tcpostgres.WithUsername("portal"),
		tcpostgres.WithPassword("portal"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	Expect(err).NotTo(HaveOccurred())
	container = pg

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	Expect(err).NotTo(HaveOccurred())

	m, err := store.NewMigrator(connStr)
	Expect(err).NotTo(HaveOccurred())
	Expect(m.Up()).To(Succeed())
	Expect(m.Close()).To(Succeed())

	db, err = store.NewDB(ctx, connStr)
	Expect(err).NotTo(HaveOccurred())

	dir, err = postgres.NewDirectory(db.Pool)
	Expect(err).NotTo(HaveOccurred())
})

var _ = AfterSuite(func() {
	if db != nil {
		db.Close()
	}
	if container != nil {
		_ = container.Terminate(context.Background())
	}
})

func truncate() {
	_, err := db.Pool.Exec(ctx, "TRUNCATE students, professors, admins")
	Expect(err).NotTo(HaveOccurred())
}

func professor(key, email string) *account.Account {
	return &account.Account{
		Kind:             account.KindProfessor,
		ProfessorID:      key,
		LastName:         "SANTOS",
		FirstName:        "MARIA",
		MiddleName:       "LOPEZ",
		Email:            email,
		PasswordHash:     "$2a$10$hash",
		ContactNumber:    "09998887777",
		Department:       "CITE",
		Designation:      "Instructor",
		EmploymentStatus: "Full-time",
		AccountStatus:    account.StatusActive,
	}
}

var _ = Describe("Repository", func() {
	BeforeEach(truncate)

	It("round-trips a record", func() {
		repo, err := dir.Repo(account.KindProfessor)
		Expect(err).NotTo(HaveOccurred())

		a := professor("P-1001", "maria@example.com")
		Expect(repo.Create(ctx, a)).To(Succeed())

		got, err := repo.FindByKey(ctx, "P-1001")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.ID).To(Equal(a.ID))
		Expect(got.Department).To(Equal("CITE"))

		byEmail, err := repo.FindByEmail(ctx, "maria@example.com")
		Expect(err).NotTo(HaveOccurred())
		Expect(byEmail.ProfessorID).To(Equal("P-1001"))
	})

	It("reports unique violations by field", func() {
		repo, _ := dir.Repo(account.KindProfessor)
		Expect(repo.Create(ctx, professor("P-1001", "maria@example.com"))).To(Succeed())

		var dup *account.DuplicateKeyError
		err := repo.Create(ctx, professor("P-1001", "other@example.com"))
		Expect(err).To(BeAssignableToTypeOf(dup))
		Expect(err.(*account.DuplicateKeyError).Field).To(Equal("professorID"))

		err = repo.Create(ctx, professor("P-1002", "maria@example.com"))
		Expect(err.(*account.DuplicateKeyError).Field).To(Equal("email"))

		n, err := repo.Count(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(1))
	})

	It("updates and deletes through the directory by id or key", func() {
		repo, _ := dir.Repo(account.KindProfessor)
		a := professor("P-1001", "maria@example.com")
		Expect(repo.Create(ctx, a)).To(Succeed())

		updated, err := dir.UpdateStatus(ctx, "P-1001", account.StatusSuspended)
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.AccountStatus).To(Equal(account.StatusSuspended))

		deleted, err := dir.Delete(ctx, a.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(deleted.ProfessorID).To(Equal("P-1001"))

		_, err = dir.Delete(ctx, a.ID)
		Expect(err).To(MatchError(account.ErrNotFound))
	})

	It("saves edits with Update", func() {
		repo, _ := dir.Repo(account.KindProfessor)
		a := professor("P-1001", "maria@example.com")
		Expect(repo.Create(ctx, a)).To(Succeed())

		a.ContactNumber = "09170000000"
		Expect(repo.Update(ctx, a)).To(Succeed())

		got, err := repo.FindByKey(ctx, "P-1001")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.ContactNumber).To(Equal("09170000000"))
	})
})
