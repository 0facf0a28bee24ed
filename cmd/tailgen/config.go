package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/yacobolo/tailgen"
)

// k holds command line settings. The configuration record itself is read by tailgen.LoadConfig.
var k = koanf.New(".")

// recordEnvKeys are read by tailgen.LoadConfig and are not command settings.
var recordEnvKeys = map[string]bool{
	"content":   true,
	"plugins":   true,
	"log-level": true,
}

// loadConfig loads command settings with precedence: flags > env > flag defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	k = koanf.New(".")

	if err := loadEnv(); err != nil {
		return err
	}

	// Unchanged flags only fill keys the environment left unset.
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadEnv loads TAILGEN_* variables, e.g. TAILGEN_OUTPUT_FORMAT -> output-format.
func loadEnv() error {
	if err := k.Load(env.ProviderWithValue("TAILGEN_", ".", envSetting), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}
	return nil
}

func envSetting(key, value string) (string, any) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, "TAILGEN_")), "_", "-")
	if recordEnvKeys[name] || strings.TrimSpace(value) == "" {
		return "", nil
	}
	return name, value
}

// configPath returns the --config path, defaulting to .tailgen.yaml.
func configPath() string {
	if path := k.String("config"); path != "" {
		return path
	}
	return tailgen.DefaultConfigFile
}

// loadRecord reads the configuration record and applies --content.
func loadRecord() (tailgen.Config, error) {
	path := configPath()

	cfg, err := tailgen.LoadConfig(path)
	if err != nil {
		return tailgen.Config{}, err
	}

	if content := k.Strings("content"); len(content) > 0 {
		cfg.Content = content
	}

	if err := cfg.Validate(); err != nil {
		return tailgen.Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// buildOptions constructs the library's BuildOptions from koanf state.
func buildOptions(cfg tailgen.Config) tailgen.BuildOptions {
	return tailgen.BuildOptions{
		Config:      cfg,
		Input:       k.String("input"),
		Output:      k.String("output"),
		Minify:      k.Bool("minify"),
		Concurrency: k.Int("concurrency"),
		ConfigFile:  configPath(),
		Reload:      loadRecord,
	}
}

// buildLintConfig constructs the library's LintConfig from koanf state.
func buildLintConfig(cfg tailgen.Config) tailgen.LintConfig {
	return tailgen.LintConfig{
		Config:             cfg,
		Input:              k.String("input"),
		Strict:             k.Bool("strict"),
		MaxIssuesPerLinter: k.Int("max-issues-per-linter"),
		MaxSameIssues:      k.Int("max-same-issues"),
		PrintIssuedLines:   getBoolWithDefault("print-lines", true),
		PrintLinterName:    getBoolWithDefault("print-linter-name", true),
		UseColors:          k.Bool("color"),
	}
}

// getBoolWithDefault returns the key's value, or the default when neither a flag nor env set it.
func getBoolWithDefault(key string, defaultVal bool) bool {
	if k.Exists(key) {
		return k.Bool(key)
	}
	return defaultVal
}

// useColors reports whether build output written to w should be colored.
func useColors(w io.Writer) bool {
	return tailgen.NewReporter(w, tailgen.LintConfig{UseColors: k.Bool("color")}).UseColors()
}
