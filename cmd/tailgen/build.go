package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yacobolo/tailgen"
)

var buildCmd = &cobra.Command{
	Use:     "build",
	Aliases: []string{"gen", "generate"},
	Short:   "Generate a stylesheet from the classes used in content files",
	Long: `Scan the content globs for class names, add safelisted classes, and write the
input stylesheet with every @tailwind directive replaced by the generated rules.`,
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.StringP("input", "i", "", "Input stylesheet with @tailwind directives (default: built-in)")
	f.StringP("output", "o", "", "Output stylesheet (default: stdout)")
	f.Bool("minify", false, "Emit compact CSS")
	f.BoolP("watch", "w", false, "Rebuild when content files or the input change")
	f.StringSlice("content", nil, "Content globs, replacing the config file's content")
	f.Int("concurrency", 0, "Content files read in parallel (0=GOMAXPROCS)")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := loadRecord()
	if err != nil {
		return err
	}

	opts := buildOptions(cfg)
	opts.Stdout = cmd.OutOrStdout()

	quiet := k.Bool("quiet")
	stderr := cmd.ErrOrStderr()
	colors := useColors(stderr)

	if k.Bool("watch") {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return tailgen.Watch(ctx, opts, func(result *tailgen.BuildResult, err error) {
			if err != nil {
				fmt.Fprintln(stderr, tailgen.RenderStyle(tailgen.StyleRed, "Build failed: ", colors)+err.Error())
				return
			}
			if !quiet {
				printBuildResult(stderr, opts, result, colors)
			}
		})
	}

	result, err := tailgen.Build(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if !quiet {
		printBuildResult(stderr, opts, result, colors)
	}
	return nil
}

// printBuildResult reports a finished build on stderr, keeping stdout for the stylesheet.
func printBuildResult(w io.Writer, opts tailgen.BuildOptions, result *tailgen.BuildResult, colors bool) {
	target := opts.Output
	if target == "" {
		target = "stdout"
	}

	fmt.Fprintf(w, "%s %s\n", tailgen.RenderStyle(tailgen.StyleGreen, "Built", colors), target)
	fmt.Fprintf(w, "  Files scanned: %d\n", result.FilesScanned)
	fmt.Fprintf(w, "  Classes generated: %d (%d safelisted)\n", result.ClassesGenerated, result.Safelisted)
	fmt.Fprintf(w, "  Bytes written: %d\n", result.BytesWritten)

	if len(result.Categories) > 0 {
		parts := make([]string, 0, len(result.Categories))
		for _, c := range result.Categories {
			parts = append(parts, fmt.Sprintf("%s %d", c.Category, c.Classes))
		}
		fmt.Fprintf(w, "  Categories: %s\n", strings.Join(parts, ", "))
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  %s %s\n", tailgen.RenderStyle(tailgen.StyleYellow, "Warning:", colors), warning)
	}
}
