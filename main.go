package main

import (
	"os"

	"github.com/portpulse/portpulse/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
