package main

import (
	"os"

	"github.com/bianoble/stencil/cmd/stencil/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
