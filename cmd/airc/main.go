// Package main is the entry point for the airc CLI.
package main

import (
	"fmt"
	"os"

	"github.com/airc-dev/airc/cmd/airc/commands"
	"github.com/airc-dev/airc/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	code := errors.ExitSystem
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
	}

	// An ExitError with no underlying error carries its whole message
	// in the suggestion.
	if exitErr == nil || exitErr.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	if exitErr != nil && exitErr.Suggestion != "" {
		fmt.Fprintln(os.Stderr, exitErr.Suggestion)
	} else if hints := errors.FlattenHints(err); hints != "" {
		fmt.Fprintln(os.Stderr, hints)
	}
	os.Exit(code)
}
