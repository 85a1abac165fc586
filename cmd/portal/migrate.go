package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateStatus bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations and exit",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "list applied and pending migrations without applying anything")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()

	if !migrateStatus {
		return rt.migrateUp(cmd.Context())
	}

	runner, err := rt.migrator()
	if err != nil {
		return err
	}
	applied, err := runner.Applied(cmd.Context())
	if err != nil {
		return err
	}
	pending, err := runner.Pending(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, name := range applied {
		fmt.Fprintf(out, "applied  %s\n", name)
	}
	for _, name := range pending {
		fmt.Fprintf(out, "pending  %s\n", name)
	}
	return nil
}
