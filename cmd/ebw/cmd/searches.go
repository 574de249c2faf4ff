package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

func searchesCmd() *cobra.Command {
	searchRoot := &cobra.Command{
		Use:   "searches",
		Short: "Manage saved searches",
		Long: "Manage saved searches that define eBay queries, price filters, and\n" +
			"poll intervals. New results matching a saved search are published\n" +
			"as change events.",
	}

	searchRoot.AddCommand(
		searchListCmd(),
		searchGetCmd(),
		searchCreateCmd(),
		searchUpdateCmd(),
		searchDeleteCmd(),
	)

	return searchRoot
}

func searchListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved searches",
		Example: `  ebw searches list --account alice
  ebw searches list --account alice --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			account, err := accountName()
			if err != nil {
				return err
			}
			c := newClient()
			searches, err := c.ListSearches(context.Background(), account)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(searches)
			}
			if len(searches) == 0 {
				fmt.Println("No saved searches.")
				return nil
			}
			return printSearchTable(searches)
		},
	}
}

func searchGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Short:   "Show saved search details",
		Example: `  ebw searches get abc123 --account alice`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			account, err := accountName()
			if err != nil {
				return err
			}
			c := newClient()
			def, err := c.GetSearch(context.Background(), account, args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(def)
			}
			return printSearchDetail(def)
		},
	}
}

func searchFlags(cmd *cobra.Command, def *domain.SearchDefinition, minPrice, maxPrice *float64) {
	cmd.Flags().StringVar(&def.SearchQuery, "query", "", "eBay search query")
	cmd.Flags().StringVar(&def.Site, "site", "", "eBay site code (uk, us, de, ...)")
	cmd.Flags().StringVar(&def.CategoryID, "category", "", "eBay category ID")
	cmd.Flags().Float64Var(minPrice, "min-price", 0, "minimum price filter")
	cmd.Flags().Float64Var(maxPrice, "max-price", 0, "maximum price filter")
	cmd.Flags().
		StringVar((*string)(&def.ListingType), "listing-type", "", "listing format (auction, buy_it_now, both)")
	cmd.Flags().IntVar(&def.UpdateInterval, "interval", 0, "poll interval in minutes (default 15)")
}

func applyPriceFlags(cmd *cobra.Command, def *domain.SearchDefinition, minPrice, maxPrice *float64) {
	if cmd.Flags().Changed("min-price") {
		def.MinPrice = minPrice
	}
	if cmd.Flags().Changed("max-price") {
		def.MaxPrice = maxPrice
	}
}

func searchCreateCmd() *cobra.Command {
	var (
		def      domain.SearchDefinition
		minPrice float64
		maxPrice float64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a saved search",
		Long: "Create a saved search. The watcher starts polling it immediately\n" +
			"and publishes a new-result event for each listing that appears\n" +
			"after the first poll.",
		Example: `  # Watch for vintage cameras on the UK site
  ebw searches create --account alice --query "vintage camera" --site uk

  # Auctions only, with a price band and a faster poll interval
  ebw searches create --account alice --query "thinkpad x220" \
    --listing-type auction --min-price 50 --max-price 200 --interval 10`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if def.SearchQuery == "" {
				return fmt.Errorf("--query is required")
			}
			account, err := accountName()
			if err != nil {
				return err
			}
			applyPriceFlags(cmd, &def, &minPrice, &maxPrice)

			c := newClient()
			created, err := c.CreateSearch(context.Background(), account, def)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(created)
			}
			fmt.Printf("Search created: %q (%s)\n", created.SearchQuery, created.SearchID)
			return nil
		},
	}
	searchFlags(cmd, &def, &minPrice, &maxPrice)

	return cmd
}

func searchUpdateCmd() *cobra.Command {
	var (
		def      domain.SearchDefinition
		minPrice float64
		maxPrice float64
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a saved search",
		Long: "Update a saved search. Changing the query resets its change\n" +
			"detection baseline; other changes keep it.",
		Example: `  ebw searches update abc123 --account alice --query "thinkpad x230" --interval 5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if def.SearchQuery == "" {
				return fmt.Errorf("--query is required")
			}
			account, err := accountName()
			if err != nil {
				return err
			}
			applyPriceFlags(cmd, &def, &minPrice, &maxPrice)

			c := newClient()
			updated, err := c.UpdateSearch(context.Background(), account, args[0], def)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(updated)
			}
			fmt.Printf("Search updated: %q (%s)\n", updated.SearchQuery, updated.SearchID)
			return nil
		},
	}
	searchFlags(cmd, &def, &minPrice, &maxPrice)

	return cmd
}

func searchDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a saved search",
		Example: `  ebw searches delete abc123 --account alice`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			account, err := accountName()
			if err != nil {
				return err
			}
			c := newClient()
			if err := c.DeleteSearch(context.Background(), account, args[0]); err != nil {
				return err
			}
			fmt.Printf("Search %s deleted.\n", args[0])
			return nil
		},
	}
}
