package tailgen

import (
	"fmt"
	"io"
	"strings"
)

// WriteMarkdown writes the lint result as a Markdown report suitable for issues and PR comments.
func WriteMarkdown(w io.Writer, result *LintResult) error {
	var b strings.Builder
	errors, warnings := countSeverities(result.Issues)

	b.WriteString("# tailgen lint report\n\n")

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Files scanned | %d |\n", result.FilesScanned)
	fmt.Fprintf(&b, "| Class references | %d |\n", result.ClassesFound)
	fmt.Fprintf(&b, "| Utilities | %d |\n", result.UtilityRefs)
	fmt.Fprintf(&b, "| Custom classes | %d |\n", result.CustomRefs)
	fmt.Fprintf(&b, "| Safelisted | %d |\n", result.SafelistedRefs)
	fmt.Fprintf(&b, "| Unknown | %d |\n", result.UnknownRefs)
	fmt.Fprintf(&b, "| Coverage | %.1f%% |\n", result.CoverPercentage)
	fmt.Fprintf(&b, "| Issues | %d (%d errors, %d warnings) |\n", len(result.Issues), errors, warnings)

	if len(result.Issues) > 0 {
		b.WriteString("\n## Issues\n\n")
		b.WriteString("| Location | Severity | Message |\n|---|---|---|\n")
		for _, issue := range result.Issues {
			fmt.Fprintf(&b, "| `%s:%d:%d` | %s | %s |\n",
				issue.Pos.Filename, issue.Pos.Line, issue.Pos.Column,
				issue.Severity, escapeMarkdownCell(issue.Text))
		}
		if result.TruncatedCount > 0 {
			fmt.Fprintf(&b, "\n_%s truncated._\n", pluralizeCount(result.TruncatedCount, "issue", "issues"))
		}
	}

	if len(result.TopClasses) > 0 {
		b.WriteString("\n## Most used classes\n\n")
		b.WriteString("| Class | Occurrences | Kind |\n|---|---|---|\n")
		for i, u := range result.TopClasses {
			if i >= maxTopClasses {
				break
			}
			fmt.Fprintf(&b, "| `%s` | %d | %s |\n", u.ClassName, u.Occurrences, u.Kind)
		}
	}

	if len(result.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, warning := range result.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeMarkdownCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
