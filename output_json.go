package tailgen

import (
	"encoding/json"
	"io"
	"time"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version    string          `json:"version"`
	Timestamp  string          `json:"timestamp"`
	Summary    JSONSummary     `json:"summary"`
	Stats      JSONStats       `json:"stats"`
	Issues     []JSONIssue     `json:"issues"`
	TopClasses []JSONClassUsed `json:"top_classes"`
}

// JSONSummary contains high-level issue counts
type JSONSummary struct {
	TotalIssues  int `json:"total_issues"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	Truncated    int `json:"truncated"`
	FilesScanned int `json:"files_scanned"`
}

// JSONStats contains class reference statistics
type JSONStats struct {
	ClassReferences int     `json:"class_references"`
	Utilities       int     `json:"utilities"`
	Custom          int     `json:"custom"`
	Safelisted      int     `json:"safelisted"`
	Unknown         int     `json:"unknown"`
	CoverPercentage float64 `json:"cover_percentage"`
}

// JSONIssue represents a single linting issue
type JSONIssue struct {
	File       string `json:"file"`
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Linter     string `json:"linter"`
	Source     string `json:"source,omitempty"`     // Optional source line
	Suggestion string `json:"suggestion,omitempty"` // Closest known class
}

// JSONClassUsed is one entry of the most used classes.
type JSONClassUsed struct {
	Class       string `json:"class"`
	Occurrences int    `json:"occurrences"`
	Kind        string `json:"kind"`
}

// maxTopClasses bounds the most-used list in reports.
const maxTopClasses = 10

// WriteJSON writes the lint result as JSON
func WriteJSON(w io.Writer, result *LintResult) error {
	output := buildJSONOutput(result)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// countSeverities returns the number of errors and warnings.
func countSeverities(issues []Issue) (errors, warnings int) {
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}

// buildJSONOutput converts LintResult to JSONOutput
func buildJSONOutput(result *LintResult) JSONOutput {
	errors, warnings := countSeverities(result.Issues)

	jsonIssues := make([]JSONIssue, len(result.Issues))
	for i, issue := range result.Issues {
		source := ""
		if len(issue.SourceLines) > 0 {
			source = issue.SourceLines[0]
		}
		suggestion := ""
		if issue.Replacement != nil {
			suggestion = issue.Replacement.NewText
		}
		jsonIssues[i] = JSONIssue{
			File:       issue.Pos.Filename,
			Line:       issue.Pos.Line,
			Column:     issue.Pos.Column,
			Severity:   issue.Severity,
			Message:    issue.Text,
			Linter:     issue.FromLinter,
			Source:     source,
			Suggestion: suggestion,
		}
	}

	top := result.TopClasses
	if len(top) > maxTopClasses {
		top = top[:maxTopClasses]
	}
	topClasses := make([]JSONClassUsed, len(top))
	for i, u := range top {
		topClasses[i] = JSONClassUsed{
			Class:       u.ClassName,
			Occurrences: u.Occurrences,
			Kind:        u.Kind,
		}
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		Summary: JSONSummary{
			TotalIssues:  len(result.Issues),
			Errors:       errors,
			Warnings:     warnings,
			Truncated:    result.TruncatedCount,
			FilesScanned: result.FilesScanned,
		},
		Stats: JSONStats{
			ClassReferences: result.ClassesFound,
			Utilities:       result.UtilityRefs,
			Custom:          result.CustomRefs,
			Safelisted:      result.SafelistedRefs,
			Unknown:         result.UnknownRefs,
			CoverPercentage: result.CoverPercentage,
		},
		Issues:     jsonIssues,
		TopClasses: topClasses,
	}
}
