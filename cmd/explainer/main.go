package main

import (
	"os"

	"github.com/cheerioskun/explainer/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
