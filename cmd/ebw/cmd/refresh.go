package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func refreshCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Trigger an immediate poll",
		Long: "Trigger an immediate poll. With no flags every coordinator on every\n" +
			"account is triggered; --account narrows it to one account and\n" +
			"--source to one data source. The command returns before the polls\n" +
			"complete.",
		Example: `  # Everything
  ebw refresh

  # One account
  ebw refresh --account alice

  # One data source
  ebw refresh --account alice --source bids
  ebw refresh --account alice --source search:abc123`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			ctx := context.Background()

			account, _ := accountName()
			switch {
			case source != "":
				if account == "" {
					return fmt.Errorf("--source requires --account")
				}
				if err := c.RefreshSource(ctx, account, source); err != nil {
					return err
				}
			case account != "":
				if err := c.RefreshAccount(ctx, account); err != nil {
					return err
				}
			default:
				if err := c.RefreshAll(ctx); err != nil {
					return err
				}
			}

			fmt.Println("Refresh triggered.")
			return nil
		},
	}
	cmd.Flags().
		StringVar(&source, "source", "", "data source (bids, watchlist, purchases, search:<id>)")

	return cmd
}
