// Package main provides the chartshift CLI for migrating stored chart
// configurations between visualization types.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/chartshift/pkg/types"
)

// Exit codes: user errors (bad arguments, unknown names) and system errors
// (storage failures) are distinguished for scripting.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, types.ErrNotFound) || errors.Is(err, errUsage) {
			os.Exit(exitUserError)
		}
		os.Exit(exitSysError)
	}
	os.Exit(exitSuccess)
}
