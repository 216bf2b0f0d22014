package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/memokit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┌┬┐┌─┐┌┬┐┌─┐┬┌─┬┌┬┐
  │││├┤ ││││ │├┴┐│ │
  ┴ ┴└─┘┴ ┴└─┘┴ ┴┴ ┴
`

func main() {
	if err := rootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "memokit",
		Short: "Memoization hooks and a toast service for Go renderers",
		Long: `memokit gives stateless render functions per-instance memory.

The CLI runs a toast notification service built on the hooks and
measures the structural comparators they depend on:

  • serve     toast HTTP/WebSocket API with Prometheus metrics
  • bench     comparator and memo benchmarks
  • init      write a default memokit.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var noColor bool
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		errors.SetColors(!noColor)
	}

	root.AddCommand(
		serveCmd(),
		benchCmd(),
		initCmd(),
		versionCmd(),
	)
	return root
}

// printBanner prints the memokit ASCII art banner.
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
