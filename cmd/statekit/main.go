package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	skerrors "github.com/statekit-dev/statekit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌─┐┌┬┐┌─┐┌┬┐┌─┐┬┌─┬┌┬┐
  └─┐ │ ├─┤ │ ├┤ ├┴┐│ │
  └─┘ ┴ ┴ ┴ ┴ └─┘┴ ┴┴ ┴
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "statekit",
		Short: "Client state stores for admin consoles",
		Long: `Statekit manages persisted client state for admin consoles.

It keeps a credential header store (basic or bearer) and UI chrome
state in a pluggable key-value backend, with a live inspector for
development. Configure the backend in statekit.json.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to statekit.json (default: ./statekit.json)")

	rootCmd.AddCommand(
		authCmd(),
		sidebarCmd(),
		inspectCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		var serr *skerrors.Error
		if errors.As(err, &serr) {
			fmt.Fprintln(os.Stderr, serr.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// printBanner prints the statekit ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
