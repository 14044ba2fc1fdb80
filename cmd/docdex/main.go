// Package main provides the entry point for the docdex CLI.
package main

import (
	"os"

	"github.com/docdex/docdex/cmd/docdex/cmd"
	"github.com/docdex/docdex/internal/output"
)

func main() {
	if err := cmd.Execute(); err != nil {
		output.New(os.Stderr).Errorf("%v", err)
		os.Exit(1)
	}
}
