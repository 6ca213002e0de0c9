// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/canonical/assessment-service/internal/db"
	"github.com/canonical/assessment-service/internal/logging"
	"github.com/canonical/assessment-service/internal/monitoring"
	"github.com/canonical/assessment-service/internal/storage"
	"github.com/canonical/assessment-service/internal/tracing"
)

var anonymityCheckCmd = &cobra.Command{
	Use:   "anonymity-check",
	Short: "Fail if any stored response can be joined to a user profile",
	Long: `Runs the non-linkage check against a live database: every response whose
anonymous id equals a profile user id is counted. Any non zero count exits with an error.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, _ := cmd.Flags().GetString("dsn")

		logger := logging.NewLogger("error")
		defer logger.Sync()

		tracer := tracing.NewNoopTracer()
		monitor := monitoring.NewNoopMonitor("assessment-service", logger)

		dbClient, err := db.NewDBClient(db.Config{DSN: dsn, MaxConns: 2, MinConns: 1}, tracer, monitor, logger)
		if err != nil {
			return fmt.Errorf("failed to create database client: %v", err)
		}
		defer dbClient.Close()

		linked, err := storage.NewStorage(dbClient, tracer, monitor, logger).CountLinkedResponses(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to run non-linkage check: %w", err)
		}
		if linked > 0 {
			return fmt.Errorf("%d responses can be linked to a profile", linked)
		}

		cmd.Println("No response can be linked to a profile")
		return nil
	},
}

func init() {
	anonymityCheckCmd.Flags().String("dsn", "", "PostgreSQL DSN connection string")
	_ = anonymityCheckCmd.MarkFlagRequired("dsn")

	rootCmd.AddCommand(anonymityCheckCmd)
}
