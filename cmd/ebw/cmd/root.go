// Package cmd implements the ebw CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/ebay-watcher/internal/api/client"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "ebw",
		Short: "CLI client for ebay-watcher",
		Long: "ebw is a command-line client for the ebay-watcher API.\n" +
			"It lets you manage saved searches, trigger refreshes, and inspect\n" +
			"coordinator status and API quota from the terminal.",
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.ebw.yaml)")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		String("account", "", "account name")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("account", rootCmd.PersistentFlags().Lookup("account")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.AddCommand(searchesCmd())
	rootCmd.AddCommand(refreshCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(quotaCmd())
	rootCmd.AddCommand(snapshotsCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ebw")
	}

	viper.SetEnvPrefix("EBW")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"))
}

func accountName() (string, error) {
	account := viper.GetString("account")
	if account == "" {
		return "", fmt.Errorf("--account is required (or set EBW_ACCOUNT)")
	}
	return account, nil
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
