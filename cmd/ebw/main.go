// Package main is the entry point for the ebw CLI client.
package main

import (
	"github.com/donaldgifford/ebay-watcher/cmd/ebw/cmd"
)

func main() {
	cmd.Execute()
}
