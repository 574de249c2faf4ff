package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show coordinator status",
		Example: `  ebw status
  ebw status --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			report, err := c.Status(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(report)
			}
			if report.Degraded > 0 {
				fmt.Printf("%d coordinator(s) degraded\n\n", report.Degraded)
			}
			return printStatusTable(report.Coordinators)
		},
	}
}

func quotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "quota",
		Short:   "Show eBay API quota usage",
		Example: `  ebw quota`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			quota, err := c.Quota(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(quota)
			}
			return printQuota(quota)
		},
	}
}

func snapshotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "snapshots",
		Short:   "List snapshot summaries for an account",
		Example: `  ebw snapshots --account alice`,
		RunE: func(_ *cobra.Command, _ []string) error {
			account, err := accountName()
			if err != nil {
				return err
			}
			c := newClient()
			snaps, err := c.ListSnapshots(context.Background(), account)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(snaps)
			}
			if len(snaps) == 0 {
				fmt.Println("No snapshots yet.")
				return nil
			}
			return printSnapshotTable(snaps)
		},
	}
}
