// Package main is the entry point for the sheetdiff CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/TFMV/sheetdiff/pkg/core"
	"github.com/fatih/color"
)

var osExit = os.Exit // Allow overriding for tests

// Exit statuses.
const (
	exitFailure    = 1
	exitMissingKey = 2
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, errorMessage(err))
		osExit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	var keyErr *core.KeyColumnNotFoundError
	if errors.As(err, &keyErr) {
		return exitMissingKey
	}
	return exitFailure
}

// errorMessage formats a fatal error for stderr.
func errorMessage(err error) string {
	var keyErr *core.KeyColumnNotFoundError
	if errors.As(err, &keyErr) {
		return fmt.Sprintf("[error] Key column not found in %s: %s", keyErr.Source, strings.Join(keyErr.Columns, ", "))
	}
	return "[error] " + err.Error()
}
