package main

import (
	"github.com/spf13/cobra"
	"github.com/yacobolo/tailgen"
	"github.com/yacobolo/tailgen/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "tailgen",
	Short: "Utility-first stylesheet generator and class linter",
	Long: `Scan content files for class names and generate only the utilities they use.
The configuration record names the content globs, theme extensions, plugins
and safelist patterns for classes that must always be generated.`,
	// Flags and environment are loaded once cobra has parsed the command line.
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		configureLogging()
		return nil
	},
	// Default behavior: build to stdout when no subcommand is given.
	RunE:          runBuild,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress all output (exit code only)")
	rootCmd.PersistentFlags().Bool("color", false, "Force color output")
	rootCmd.PersistentFlags().StringP("config", "c", tailgen.DefaultConfigFile, "Config file path")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(safelistCmd)
	rootCmd.AddCommand(pluginsCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// configureLogging switches the library loggers to console output; --verbose enables debug events.
func configureLogging() {
	cfg := log.Config{Console: true}
	if k.Bool("verbose") {
		cfg.Level = "debug"
	}
	log.Configure(cfg)
}
