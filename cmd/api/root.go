package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"portal/internal/config"
	"portal/internal/logging"
)

var configFile string

// NewRootCmd creates the portal CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portal",
		Short: "Portal accounts service",
		Long: `Account management for the student portal: registration, login
sessions and administration of student, professor and admin records.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file path (environment only when empty)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewCreateAdminCmd())
	return cmd
}

func loadConfig() (config.App, *logrus.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return config.App{}, nil, err
	}
	return cfg, logging.New(cfg.LogLevel, cfg.LogFormat, nil), nil
}
