package cmd

import (
	"github.com/spf13/cobra"
)

var applySet []string

var applyCmd = &cobra.Command{
	Use:   "apply <folder> <replacements-file>",
	Short: "Apply replacements to an existing folder",
	Long: `Rewrites placeholder tokens in the text files of an existing folder, in place.
Unlike generate, leftover {{ VALUE }} wrappers are not collapsed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := loadReplacements(args[1], applySet)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, err := newClient(cfg)
		if err != nil {
			return err
		}

		result, err := client.Apply(cmd.Context(), args[0], set)
		if err != nil {
			if ExitCode(err) == exitUsage {
				return err
			}
			return withCode(exitFailed, err)
		}

		p := printer()
		reportFiles(result.Rewritten, result.Warnings)
		p.Info("Replaced placeholders in %d of %d files.", len(result.Rewritten), result.Visited)
		p.Success("Applied replacements to %s", result.Folder)
		return nil
	},
}

func init() {
	applyCmd.Flags().StringArrayVar(&applySet, "set", nil, "replacement KEY=VALUE (repeatable, overrides the file)")
	rootCmd.AddCommand(applyCmd)
}
