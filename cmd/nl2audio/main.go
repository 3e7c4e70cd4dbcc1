package main

import (
	"os"

	"github.com/fsmatos/nl2audio-cli/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
