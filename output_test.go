package tailgen

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected OutputFormat
	}{
		{name: "issues", value: "issues", expected: OutputIssues},
		{name: "summary", value: "summary", expected: OutputSummary},
		{name: "full", value: "full", expected: OutputFull},
		{name: "json with spaces and case", value: " JSON ", expected: OutputJSON},
		{name: "markdown", value: "markdown", expected: OutputMarkdown},
		{name: "markdown shorthand (md)", value: "md", expected: OutputMarkdown},
		{name: "default format is issues", value: "", expected: OutputIssues},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := ParseOutputFormat(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}

	_, err := ParseOutputFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
}

func sampleLintResult() *LintResult {
	return &LintResult{
		FilesScanned:    10,
		ClassesFound:    150,
		UtilityRefs:     120,
		CustomRefs:      20,
		CustomByLayer:   map[string]int{"components": 12, "": 8},
		SafelistedRefs:  8,
		UnknownRefs:     2,
		CoverPercentage: 98.7,
		Issues: []Issue{
			{
				FromLinter:  "tailgen",
				Text:        `unknown utility class "text-gren-500" (did you mean "text-green-500"?)`,
				Severity:    SeverityError,
				SourceLines: []string{`<div class="text-gren-500">`},
				Pos:         IssuePos{Filename: "index.html", Line: 10, Column: 13},
				Replacement: &Replacement{NewText: "text-green-500", InlineLength: 13},
			},
			{
				FromLinter:  "tailgen",
				Text:        `class "card" is neither a utility nor defined in the input stylesheet`,
				Severity:    SeverityWarning,
				SourceLines: []string{`<div class="card">`},
				Pos:         IssuePos{Filename: "index.html", Line: 20, Column: 13},
			},
		},
		TopClasses: []ClassUsage{
			{ClassName: "flex", Occurrences: 45, Kind: "utility"},
			{ClassName: "btn", Occurrences: 12, Kind: "custom"},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleLintResult()))

	var output JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	assert.Equal(t, "1.0", output.Version)
	assert.NotEmpty(t, output.Timestamp)

	assert.Equal(t, 2, output.Summary.TotalIssues)
	assert.Equal(t, 1, output.Summary.Errors)
	assert.Equal(t, 1, output.Summary.Warnings)
	assert.Equal(t, 10, output.Summary.FilesScanned)

	assert.Equal(t, 150, output.Stats.ClassReferences)
	assert.Equal(t, 120, output.Stats.Utilities)
	assert.Equal(t, 20, output.Stats.Custom)
	assert.Equal(t, 8, output.Stats.Safelisted)
	assert.Equal(t, 2, output.Stats.Unknown)
	assert.InDelta(t, 98.7, output.Stats.CoverPercentage, 0.01)

	require.Len(t, output.Issues, 2)
	assert.Equal(t, "index.html", output.Issues[0].File)
	assert.Equal(t, 10, output.Issues[0].Line)
	assert.Equal(t, 13, output.Issues[0].Column)
	assert.Equal(t, "error", output.Issues[0].Severity)
	assert.Equal(t, "tailgen", output.Issues[0].Linter)
	assert.Equal(t, "text-green-500", output.Issues[0].Suggestion)
	assert.Contains(t, output.Issues[0].Source, "text-gren-500")
	assert.Empty(t, output.Issues[1].Suggestion)

	require.Len(t, output.TopClasses, 2)
	assert.Equal(t, "flex", output.TopClasses[0].Class)
	assert.Equal(t, 45, output.TopClasses[0].Occurrences)
	assert.Equal(t, "utility", output.TopClasses[0].Kind)
}

func TestWriteOutput_AllFormats(t *testing.T) {
	config := LintConfig{
		PrintIssuedLines: true,
		PrintLinterName:  true,
		UseColors:        false,
	}
	t.Setenv("FORCE_COLOR", "")
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name           string
		format         OutputFormat
		expectedInside []string
	}{
		{
			name:   "issues format",
			format: OutputIssues,
			expectedInside: []string{
				"index.html:10:13:",
				"text-gren-500",
				"2 issues (1 error, 1 warning):",
				"* index.html: 2",
				"(tailgen)",
				`index.html:10:13: error: unknown utility class`,
				`index.html:20:13: warning: class "card"`,
				"\tfix: text-green-500",
			},
		},
		{
			name:   "summary format",
			format: OutputSummary,
			expectedInside: []string{
				"Class Usage Statistics",
				"  @layer components: 12",
				"  unlayered:",
				"Coverage",
				"Most Used Classes",
				`1. "flex" - 45 occurrences (utility)`,
			},
		},
		{
			name:   "full format",
			format: OutputFull,
			expectedInside: []string{
				"index.html:10:13:",
				"2 issues",
				"Class Usage Statistics",
				"Most Used Classes",
			},
		},
		{
			name:   "json format",
			format: OutputJSON,
			expectedInside: []string{
				`"version"`,
				`"summary"`,
				`"stats"`,
				`"issues"`,
			},
		},
		{
			name:   "markdown format",
			format: OutputMarkdown,
			expectedInside: []string{
				"# tailgen lint report",
				"## Summary",
				"## Issues",
				"## Most used classes",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteOutput(&buf, sampleLintResult(), tt.format, config))

			output := buf.String()
			for _, expected := range tt.expectedInside {
				assert.Contains(t, output, expected,
					"Format %s should contain %q", tt.format, expected)
			}
		})
	}
}

func TestPrintSummaryNoIssues(t *testing.T) {
	var buf bytes.Buffer
	reporter := &Reporter{w: &buf}
	reporter.PrintSummary(LintResult{})

	assert.Equal(t, "\n0 issues:\n", buf.String())
}

func TestPrintSummaryTruncated(t *testing.T) {
	var buf bytes.Buffer
	reporter := &Reporter{w: &buf}
	reporter.PrintSummary(LintResult{
		Issues:         []Issue{{FromLinter: "tailgen", Severity: SeverityError, Text: "x"}},
		TruncatedCount: 3,
	})

	assert.Contains(t, buf.String(), "1 issue (3 issues truncated):")
}

func TestMarkdownEscaping(t *testing.T) {
	result := &LintResult{
		Issues: []Issue{
			{
				FromLinter: "tailgen",
				Severity:   SeverityWarning,
				Text:       `class "a|b" is neither a utility nor defined in the input stylesheet`,
				Pos:        IssuePos{Filename: "index.html", Line: 1, Column: 1},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, result))

	assert.Contains(t, buf.String(), `a\|b`, "Pipes should be escaped in markdown tables")
}

func TestPluralizeCount(t *testing.T) {
	assert.Equal(t, "1 issue", pluralizeCount(1, "issue", "issues"))
	assert.Equal(t, "0 issues", pluralizeCount(0, "issue", "issues"))
	assert.Equal(t, "2 errors", pluralizeCount(2, "error", "errors"))
}
