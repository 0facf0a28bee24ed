package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .tailgen.yaml config file",
	Long:  `Create the configuration record (content, theme, plugins, safelist) with the defaults tailgen ships with.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")
		path := configPath()

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		return nil
	},
}

// defaultConfig mirrors tailgen.DefaultConfig.
const defaultConfig = `# tailgen configuration

# Files scanned for class names (doublestar globs)
content:
  - "./{assets,views}/**/*.{html,js}"

# Token categories: colors, spacing, fontSize, fontWeight, borderRadius, screens, ...
# Categories listed under extend are merged over the defaults; categories
# directly under theme replace them.
theme:
  extend: {}

plugins:
  - tailwind-fontawesome

# Classes generated even when no content file uses them.
# Patterns are regular expressions matched against every known utility.
safelist:
  - pattern: "icon-(person-running)"
  - pattern: "text-(green|rose)-500"
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
