package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"externals/internal/logging"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	rootDir  string
	fileName string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "externals",
	Short: "Validate and inspect externals description files",
	Long: `externals loads a project's externals description — the declarative file
naming its external source-code dependencies, or a native .gitmodules
manifest — and runs the full schema gate, build, and validation pipeline.
It performs no checkouts and no network operations; it only tells you
whether a description is well formed and what it resolves to.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, nil)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("externals %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "root directory of the source tree")
	rootCmd.PersistentFlags().StringVarP(&fileName, "externals", "e", "Externals.cfg", "name of the externals description file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "detailed output")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command. Fatal behavior lives here and nowhere
// else: library callers always receive structured errors.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}
