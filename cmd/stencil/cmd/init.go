package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initForce bool

// defaultReplacementsFile is written when init is given no path.
const defaultReplacementsFile = "replacements.yaml"

// initTemplate is the starter replacements file. Every key is replaced both
// as {{ KEY }} and as a bare substring, so keys should be distinctive.
const initTemplate = `# stencil replacements
#
# Each key is a placeholder in the template. Occurrences of {{ KEY }}
# (whitespace inside the braces is optional) and of the bare KEY text are
# replaced with the value in .json .md .ts .tsx .js .jsx .env and .txt files.
#
# Keys match anywhere, including inside longer identifiers: a key "APP"
# would also rewrite "MY_APP_NAME". Prefer long, unambiguous keys.
#
# Values are inserted literally. Numbers and booleans become text.

APP_NAME: My App
APP_SLUG: my-app
APP_DESCRIPTION: A project generated with stencil
BUNDLE_ID: com.example.myapp
AUTHOR_NAME: Your Name
# AUTHOR_EMAIL: you@example.com
# APP_VERSION: "1.0.0"
`

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a starter replacements file",
	Long: `Creates a well-commented replacements file (default replacements.yaml in the
current directory) listing example placeholder keys.

Use --force to overwrite an existing file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath := defaultReplacementsFile
		if len(args) == 1 {
			outPath = args[0]
		}
		abs, err := filepath.Abs(outPath)
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}
		outPath = abs

		if !initForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
			}
		}

		if err := os.WriteFile(outPath, []byte(initTemplate), 0644); err != nil {
			return withCode(exitFailed, fmt.Errorf("writing replacements: %w", err))
		}

		p := printer()
		p.Success("Created %s", outPath)
		p.Info("")
		p.Info("Next steps:")
		p.Info("  1. Edit the keys to match the placeholders in your template")
		p.Info("  2. Run 'stencil generate <source> <destination> %s'", filepath.Base(outPath))
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
	rootCmd.AddCommand(initCmd)
}
