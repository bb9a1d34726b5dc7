package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/disnaker-asahan/letter-manager/backend/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply, roll back or inspect schema migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		applied, err := database.Migrate(cmd.Context(), dbpool, dialect)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		}
		for _, v := range applied {
			fmt.Fprintf(cmd.OutOrStdout(), "applied %05d\n", v)
		}
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := database.Rollback(cmd.Context(), dbpool, dialect)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "rolled back %05d\n", version)
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		statuses, err := database.Status(cmd.Context(), dbpool, dialect)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VERSION\tAPPLIED\tAPPLIED AT\tFILE")
		for _, s := range statuses {
			appliedAt := "-"
			if s.Applied {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(tw, "%05d\t%t\t%s\t%s\n", s.Version, s.Applied, appliedAt, s.Path)
		}
		return tw.Flush()
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
}
