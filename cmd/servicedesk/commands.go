package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Export all requests to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap()
			if err != nil {
				return err
			}
			defer app.logger.Sync() //nolint:errcheck

			path, err := app.exporter.WriteAllRequestsCSV()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to: %s\n", path)
			return nil
		},
	}
}

func newBackupCommand() *cobra.Command {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage catalog backups",
	}

	backupCmd.AddCommand(
		&cobra.Command{
			Use:   "create",
			Short: "Create a timestamped backup of the catalog files",
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := bootstrap()
				if err != nil {
					return err
				}
				defer app.logger.Sync() //nolint:errcheck

				dir, err := app.backups.CreateBackup()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Backup at: %s\n", dir)
				return nil
			},
		},
		&cobra.Command{
			Use:   "restore",
			Short: "Restore the catalog from the latest backup",
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := bootstrap()
				if err != nil {
					return err
				}
				defer app.logger.Sync() //nolint:errcheck

				if err := app.backups.RestoreLatestBackup(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Restored latest backup.")
				return nil
			},
		},
	)

	return backupCmd
}

func newReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print summary statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap()
			if err != nil {
				return err
			}
			defer app.logger.Sync() //nolint:errcheck

			out := cmd.OutOrStdout()
			s := app.reports.Summarize()
			fmt.Fprintf(out, "Total: %d, Open: %d, In Progress: %d, Resolved: %d, Closed: %d\n",
				s.Total, s.Open, s.InProgress, s.Resolved, s.Closed)

			fmt.Fprintln(out, "\nBy Category:")
			for _, cc := range app.reports.ByCategory() {
				fmt.Fprintf(out, "%-30s : %d\n", cc.Category, cc.Count)
			}
			fmt.Fprintln(out, "\nBy Priority:")
			for _, pc := range app.reports.ByPriority() {
				fmt.Fprintf(out, "%-8s : %d\n", pc.Priority, pc.Count)
			}
			if avg, ok := app.reports.AverageResolutionTime(); ok {
				fmt.Fprintf(out, "\nAverage resolution time: %.1f minutes\n", avg.Minutes())
			} else {
				fmt.Fprintln(out, "\nNo resolved requests.")
			}
			return nil
		},
	}
}
