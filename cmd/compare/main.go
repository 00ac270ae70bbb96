package main

import (
	"os"

	"MarketCompare/cmd/compare/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
