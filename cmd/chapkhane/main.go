package main

import (
	"os"

	"chapkhane/cmd/chapkhane/cmd"
)

// ENTRY POINT

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
