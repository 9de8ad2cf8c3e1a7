// Package main is the entry point for the fnhost CLI.
//
// Usage:
//
//	fnhost serve --target hello          # host the built-in "hello" function
//	fnhost serve --target log-event      # host an event function
//	fnhost functions                     # list the built-in functions
//	fnhost version                       # show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fnhost",
		Short: "Host a single function over HTTP",
		Long: `fnhost serves one function on one port.

HTTP functions receive every request and return a value that is turned into
a response. Event functions receive CloudEvents, either in the structured or
binary HTTP binding or in the legacy background-function envelope.

Configuration comes from flags, then the environment (PORT,
FUNCTION_MAX_THREADS, ...), then defaults that depend on whether the process
runs in development or production.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		functionsCmd(),
		versionCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
