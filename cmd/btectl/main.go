package main

import (
	"os"

	"github.com/tuiharness/bte/cmd/btectl/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
