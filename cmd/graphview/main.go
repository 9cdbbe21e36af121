package main

import (
	"os"

	"github.com/goliatone/go-graphview/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
