// Package cmd implements the CLI commands for the ebay-watcher server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ebay-watcher",
	Short: "Watch eBay buying activity and saved searches for changes",
	Long: "ebay-watcher polls the eBay API for bids, watchlist, purchases, and\n" +
		"saved searches across one or more accounts, detects changes between\n" +
		"polls, and publishes change events (outbid, auction won, new search\n" +
		"results, ending soon) over NATS.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
