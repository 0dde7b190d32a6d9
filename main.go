package main

import (
	"os"

	"github.com/carnetlify/carnetlify/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
