package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lwcgraph/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "lwcgraph",
	Short: "Bundle-aware graph analysis for Lightning Web Components",
	Long: `lwcgraph lints Lightning Web Components one bundle at a time: every .js or
.html file is analyzed together with the other files of its component.`,
}

// main registers subcommands and persistent flags, then executes the root
// command. If command execution returns an error, the process exits with
// status code 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(bundleCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("config", "", "path to "+configFileHint+" (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error), overrides the config file")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime trace to file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
