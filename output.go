package tailgen

import (
	"fmt"
	"io"
	"strings"
)

// OutputFormat selects how lint results are written.
type OutputFormat string

const (
	// OutputIssues prints file:line:col issues and a count summary (default)
	OutputIssues OutputFormat = "issues"
	// OutputSummary prints statistics, coverage and the most used classes only
	OutputSummary OutputFormat = "summary"
	// OutputFull prints issues followed by the summary sections
	OutputFull OutputFormat = "full"
	// OutputJSON writes the machine-readable report
	OutputJSON OutputFormat = "json"
	// OutputMarkdown writes a report for pull requests and issues
	OutputMarkdown OutputFormat = "markdown"
)

var outputFormatAliases = map[string]OutputFormat{
	"issues":   OutputIssues,
	"summary":  OutputSummary,
	"full":     OutputFull,
	"json":     OutputJSON,
	"markdown": OutputMarkdown,
	"md":       OutputMarkdown,
}

// ParseOutputFormat resolves a --output-format value. Empty selects the default.
func ParseOutputFormat(value string) (OutputFormat, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return DetermineDefaultOutputFormat(), nil
	}
	if format, ok := outputFormatAliases[value]; ok {
		return format, nil
	}
	return "", fmt.Errorf("unknown output format %q (want issues, summary, full, json or markdown)", value)
}

// DetermineDefaultOutputFormat returns the default output format
// Following golangci-lint's UX: issues only by default
func DetermineDefaultOutputFormat() OutputFormat {
	return OutputIssues
}

// WriteOutput writes the lint result in the given format.
func WriteOutput(w io.Writer, result *LintResult, format OutputFormat, config LintConfig) error {
	switch format {
	case OutputJSON:
		return WriteJSON(w, result)
	case OutputMarkdown:
		return WriteMarkdown(w, result)
	}

	reporter := NewReporter(w, config)
	if format != OutputSummary {
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(*result)
	}
	if format == OutputIssues {
		return nil
	}

	verbose := NewVerboseReporter(w, reporter.UseColors())
	verbose.PrintStatistics(*result)
	verbose.PrintCoverage(*result)
	verbose.PrintTopClasses(*result)
	verbose.PrintWarnings(*result)
	return nil
}
