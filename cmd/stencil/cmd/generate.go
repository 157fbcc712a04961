package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bianoble/stencil/pkg/stencil"
)

var (
	generateNoInstall bool
	generateStrategy  string
	generateSet       []string
)

var generateCmd = &cobra.Command{
	Use:   "generate <source> <destination> [replacements-file]",
	Short: "Create a new project from a template",
	Long: `Acquires the template into a destination that must not exist yet, replaces
placeholder tokens in text files (.json .md .ts .tsx .js .jsx .env .txt) and
runs the install step when the destination has a package manifest.

The source may be a git URL or a local directory. A plain local directory is
copied; anything else is shallow-cloned. Use --strategy to force one.

The replacements file maps placeholder keys to values, in JSON, YAML, TOML or
dotenv form. --set KEY=VALUE adds or overrides single entries.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		var replacementsPath string
		if len(args) == 3 {
			replacementsPath = args[2]
		}
		set, err := loadReplacements(replacementsPath, generateSet)
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

		result, err := client.Generate(cmd.Context(), stencil.GenerateOptions{
			Source:       args[0],
			Destination:  args[1],
			Replacements: set,
			SkipInstall:  generateNoInstall,
			Strategy:     generateStrategy,
		})
		if err != nil {
			return err
		}

		p := printer()
		reportFiles(result.Rewritten, result.Warnings)
		p.Info("Replaced placeholders in %d of %d files (%s).", len(result.Rewritten), result.Visited, result.Strategy)
		switch {
		case result.Installed:
			p.Info("Installed dependencies.")
		case generateNoInstall:
			p.Info("Install skipped (--no-install).")
		}
		if len(result.Warnings) > 0 && !p.Verbose {
			p.Info("%d file(s) could not be processed; rerun with -v for details.", len(result.Warnings))
		}
		p.Success("Generated %s", result.Destination)
		return nil
	},
}

func init() {
	generateCmd.Flags().BoolVar(&generateNoInstall, "no-install", false, "skip the install step")
	generateCmd.Flags().StringVar(&generateStrategy, "strategy", "auto", "acquisition strategy: auto, clone or copy")
	generateCmd.Flags().StringArrayVar(&generateSet, "set", nil, "replacement KEY=VALUE (repeatable, overrides the file)")
	rootCmd.AddCommand(generateCmd)
}
