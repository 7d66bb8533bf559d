package main

import (
	"os"

	"github.com/photomig/photomigration/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
