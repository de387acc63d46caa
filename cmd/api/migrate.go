package main

import (
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"portal/internal/store"
)

// NewMigrateCmd creates the migrate command group.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: withMigrator(func(cmd *cobra.Command, m *store.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				cmd.Println("Migrations completed successfully")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration (drops all account tables)",
			RunE: withMigrator(func(cmd *cobra.Command, m *store.Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				cmd.Println("Migrations rolled back")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			RunE: withMigrator(func(cmd *cobra.Command, m *store.Migrator) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				cmd.Printf("version %d (dirty: %t)\n", v, dirty)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List the embedded migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				names, err := store.MigrationNames()
				if err != nil {
					return err
				}
				for _, n := range names {
					cmd.Println(n)
				}
				return nil
			},
		},
	)
	return cmd
}

func withMigrator(run func(*cobra.Command, *store.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		m, err := store.NewMigrator(cfg.DatabaseURL)
		if err != nil {
			return oops.Code("MIGRATION_FAILED").With("operation", "open migrator").Wrap(err)
		}
		defer func() { _ = m.Close() }()
		return run(cmd, m)
	}
}

// migrateUp is used by serve when AUTO_MIGRATE is set.
func migrateUp(databaseURL string, log logrus.FieldLogger) error {
	m, err := store.NewMigrator(databaseURL)
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "open migrator").Wrap(err)
	}
	defer func() { _ = m.Close() }()

	if err := m.Up(); err != nil {
		return err
	}
	v, _, err := m.Version()
	if err != nil {
		return err
	}
	log.WithField("version", v).Info("schema up to date")
	return nil
}
