package main

import (
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"portal/internal/account"
	"portal/internal/portal"
)

// cliIdentity is recorded as createdBy for admins created from the shell.
var cliIdentity = account.Identity{ID: "cli", Role: account.KindAdmin, FullName: "CLI"}

// NewCreateAdminCmd creates an admin directly against the configured store.
func NewCreateAdminCmd() *cobra.Command {
	var req portal.AdminRegistration

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Long: `Create an admin account without going through the HTTP API. The
password is read from PORTAL_ADMIN_PASSWORD when --password is not given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				req.Password = os.Getenv("PORTAL_ADMIN_PASSWORD")
			}
			if req.Password == "" {
				return oops.Code("CONFIG_INVALID").Errorf("--password or PORTAL_ADMIN_PASSWORD is required")
			}

			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := buildApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			created, err := a.svc.RegisterAdmin(cmd.Context(), &cliIdentity, req)
			if err != nil {
				return err
			}
			cmd.Printf("created admin %s (%s)\n", created.EmployeeID, created.FullName())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.EmployeeID, "employee-id", "", "employee ID (A-...)")
	f.StringVar(&req.LastName, "last-name", "", "last name")
	f.StringVar(&req.FirstName, "first-name", "", "first name")
	f.StringVar(&req.MiddleName, "middle-name", "", "middle name")
	f.StringVar(&req.Email, "email", "", "email address")
	f.StringVar(&req.Password, "password", "", "initial password")
	f.StringVar(&req.ContactNumber, "contact", "", "contact number")
	f.StringVar(&req.Department, "department", "", "department")
	f.StringVar(&req.Designation, "designation", "", "designation")
	f.StringVar(&req.EmploymentStatus, "employment-status", "Full-time", "employment status")
	f.StringVar(&req.Role, "role", "superadmin", "admin role")
	f.StringVar(&req.AccountStatus, "status", string(account.StatusActive), "account status")
	return cmd
}
