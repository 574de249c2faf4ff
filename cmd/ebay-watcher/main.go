// Package main is the entry point for the ebay-watcher server.
package main

import (
	"os"

	"github.com/donaldgifford/ebay-watcher/cmd/ebay-watcher/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
