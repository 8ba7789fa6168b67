// Package main provides the rex command-line tool.
package main

import (
	"os"

	"github.com/anandkaranubc/rex-data-wrangling/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
