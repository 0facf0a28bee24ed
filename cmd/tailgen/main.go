// Package main provides the tailgen CLI: build a utility stylesheet from content files and lint class usage.
package main

import (
	"errors"
	"fmt"
	"os"
)

// exitError carries a process exit code without an error message, e.g. for lint failures.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
