package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yacobolo/tailgen"
)

var safelistCmd = &cobra.Command{
	Use:   "safelist",
	Short: "List the classes the safelist always generates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadRecord()
		if err != nil {
			return err
		}

		engine, err := tailgen.NewEngine(cfg)
		if err != nil {
			return err
		}

		for _, class := range engine.SafelistClasses() {
			fmt.Fprintln(cmd.OutOrStdout(), class)
		}
		return nil
	},
}

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List the plugins that can be named in the config file",
	Run: func(cmd *cobra.Command, _ []string) {
		for _, name := range tailgen.RegisteredPlugins() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}
