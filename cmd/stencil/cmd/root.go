package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/bianoble/stencil/internal/logging"
	"github.com/bianoble/stencil/internal/ui"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath string
	verbosity  int
	quiet      bool
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "stencil",
	Short: "Generate projects from templates",
	Long: `stencil prepares a new project from a template repository or local
directory. It copies the template into a fresh destination, replaces
placeholder tokens such as {{ APP_NAME }} in text files, and runs the
package manager install step.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetupLogger(logging.Options{
			Verbosity: verbosity,
			Quiet:     quiet,
			NoColor:   noColor,
		})
		out = ui.New(ui.Options{
			Out:     cmd.OutOrStdout(),
			Err:     cmd.ErrOrStderr(),
			Quiet:   quiet,
			Verbose: verbosity > 0,
			NoColor: noColor,
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "stencil %s\n", version)
		fmt.Fprintf(w, "  commit:  %s\n", commit)
		fmt.Fprintf(w, "  built:   %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to project config file (default stencil.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase output detail (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimal output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command. An interrupt cancels the running operation.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printer().Error("%s", err)
		return err
	}
	return nil
}
