package tailgen

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"
)

// Reporter prints issues as file:line:col lines followed by the offending source line.
type Reporter struct {
	w               io.Writer
	useColors       bool
	printLines      bool
	printLinterName bool
}

// NewReporter creates a new reporter with the given configuration
func NewReporter(w io.Writer, config LintConfig) *Reporter {
	return &Reporter{
		w:               w,
		useColors:       shouldUseColors(w, config.UseColors),
		printLines:      config.PrintIssuedLines,
		printLinterName: config.PrintLinterName,
	}
}

// shouldUseColors reports whether output written to w should be colored.
func shouldUseColors(w io.Writer, force bool) bool {
	if force || os.Getenv("FORCE_COLOR") != "" || os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	// https://no-color.org
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// PrintIssues prints issues ordered by file, line and column.
func (r *Reporter) PrintIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i].Pos, issues[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})

	for _, issue := range issues {
		r.printIssue(issue)
	}
}

func (r *Reporter) printIssue(issue Issue) {
	location := fmt.Sprintf("%s:%d:%d:", issue.Pos.Filename, issue.Pos.Line, issue.Pos.Column)

	severity := StyleYellow
	if issue.Severity == SeverityError {
		severity = StyleRed
	}

	label := ""
	if issue.Severity != SeverityInfo {
		label = RenderStyle(severity, issue.Severity, r.useColors) + ": "
	}

	suffix := ""
	if r.printLinterName && issue.FromLinter != "" {
		suffix = RenderStyle(StyleGray, " ("+issue.FromLinter+")", r.useColors)
	}

	fmt.Fprintf(r.w, "%s %s%s%s\n", RenderStyle(StyleCyan, location, r.useColors), label, issue.Text, suffix)

	if !r.printLines || len(issue.SourceLines) == 0 {
		return
	}

	for _, line := range issue.SourceLines {
		fmt.Fprintf(r.w, "\t%s\n", line)
	}
	marker := r.buildCaretIndicator(issue.SourceLines[0], issue.Pos.Column)
	fmt.Fprintf(r.w, "\t%s\n", RenderStyle(StyleYellow, marker, r.useColors))

	if issue.Replacement != nil {
		fmt.Fprintf(r.w, "\t%s %s\n", RenderStyle(StyleGray, "fix:", r.useColors), issue.Replacement.NewText)
	}
}

// buildCaretIndicator marks the class starting at column (1-based) with ^ followed by ~
// for its remaining characters. Tabs before the class are kept so the marker lines up.
func (r *Reporter) buildCaretIndicator(sourceLine string, column int) string {
	if column <= 0 {
		return "^"
	}

	start := min(column-1, len(sourceLine))

	var b strings.Builder
	for _, ch := range sourceLine[:start] {
		if ch == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteByte('^')

	end := start
	for end < len(sourceLine) && !isClassBoundary(sourceLine[end]) {
		end++
	}
	if end > start+1 {
		b.WriteString(strings.Repeat("~", end-start-1))
	}
	return b.String()
}

// isClassBoundary reports whether c ends a class name inside an attribute value.
func isClassBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '"', '\'', '`', '}', ')', ',':
		return true
	}
	return false
}

// PrintSummary prints the issue counts, per-file breakdown and a hint.
func (r *Reporter) PrintSummary(result LintResult) {
	total := len(result.Issues)
	errors, warnings := countSeverities(result.Issues)

	var details []string
	if errors > 0 && warnings > 0 {
		details = append(details,
			pluralizeCount(errors, "error", "errors")+", "+pluralizeCount(warnings, "warning", "warnings"))
	}
	if result.TruncatedCount > 0 {
		details = append(details, pluralizeCount(result.TruncatedCount, "issue", "issues")+" truncated")
	}

	fmt.Fprintln(r.w)
	if len(details) > 0 {
		fmt.Fprintf(r.w, "%s (%s):\n", pluralizeCount(total, "issue", "issues"), strings.Join(details, "; "))
	} else {
		fmt.Fprintf(r.w, "%s:\n", pluralizeCount(total, "issue", "issues"))
	}

	perFile := make(map[string]int)
	for _, issue := range result.Issues {
		perFile[issue.Pos.Filename]++
	}
	files := make([]string, 0, len(perFile))
	for file := range perFile {
		files = append(files, file)
	}
	sort.Strings(files)
	for _, file := range files {
		fmt.Fprintf(r.w, "* %s: %d\n", file, perFile[file])
	}

	if total > 0 {
		fmt.Fprintln(r.w)
		fmt.Fprintln(r.w, RenderStyle(StyleGray, "Hint: Run with --output-format full to see statistics and the most used classes", r.useColors))
	}
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// UseColors returns whether colors are enabled
func (r *Reporter) UseColors() bool {
	return r.useColors
}
