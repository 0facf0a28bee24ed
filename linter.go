package tailgen

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/yacobolo/tailgen/internal/log"
	"github.com/yacobolo/tailgen/internal/stylesheet"
)

// linterName is reported in Issue.FromLinter.
const linterName = "tailgen"

// LintConfig holds linter configuration
type LintConfig struct {
	Config Config // Content globs, theme, plugins and safelist
	Input  string // Input stylesheet; classes it defines are not reported

	Strict bool // Exit with code 1 if issues found

	// golangci-lint style output control
	MaxIssuesPerLinter int  // 0 = unlimited (default)
	MaxSameIssues      int  // 0 = unlimited (default)
	PrintIssuedLines   bool // Show source lines with issues (default: true)
	PrintLinterName    bool // Show (tailgen) suffix (default: true)
	UseColors          bool // Enable color output (default: auto-detect)
}

// LintResult holds linting statistics and issues
type LintResult struct {
	FilesScanned    int
	ClassesFound    int            // Class references in class attributes
	UtilityRefs     int            // References that resolve to utilities
	CustomRefs      int            // References defined by the input stylesheet
	CustomByLayer   map[string]int // CustomRefs by the @layer defining the class; "" is unlayered
	SafelistedRefs  int            // References kept only because the safelist matches them
	UnknownRefs     int            // References nothing explains
	CoverPercentage float64        // Share of references that are explained

	Issues         []Issue // Issues after limits
	TruncatedCount int     // Issues removed due to limits
	TopClasses     []ClassUsage
	Warnings       []string
}

// ClassUsage counts how often a class is written in content files.
type ClassUsage struct {
	ClassName   string
	Occurrences int
	Kind        string // "utility", "custom", "safelist" or "unknown"
}

// Lint checks class attributes in content files against the utility registry,
// the classes defined by the input stylesheet, and the safelist.
func Lint(ctx context.Context, config LintConfig) (*LintResult, error) {
	logger := log.WithComponent("linter")

	engine, err := NewEngine(config.Config)
	if err != nil {
		return nil, err
	}

	// class name -> enclosing @layer of its definition
	custom := make(map[string]string)
	if config.Input != "" {
		// #nosec G304 - input path is chosen by the user
		data, err := os.ReadFile(config.Input)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		for _, def := range stylesheet.DefinedClasses(string(data)) {
			custom[def.Name] = def.Layer
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	refs, stats, err := ScanClassAttributes(config.Config.Content)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	logger.Debug().Int("references", len(refs)).Int("files", stats.FilesScanned).Msg("class attributes scanned")

	result := analyzeReferences(refs, engine, custom)
	result.FilesScanned = stats.FilesScanned
	if stats.FilesScanned == 0 {
		result.Warnings = append(result.Warnings, "No content files matched: "+strings.Join(config.Config.Content, ", "))
	}

	result.Issues, result.TruncatedCount = limitIssues(result.Issues, config)
	return result, nil
}

// classifyReference names what explains a class reference.
func classifyReference(class string, engine *Engine, custom map[string]string) string {
	switch {
	case engine.Registry().Known(class):
		return "utility"
	case isCustom(class, custom):
		return "custom"
	case engine.Safelist().Match(class):
		return "safelist"
	default:
		return "unknown"
	}
}

func isCustom(class string, custom map[string]string) bool {
	_, ok := custom[strings.TrimPrefix(class, "!")]
	return ok
}

// analyzeReferences classifies references and builds issues for unknown classes.
func analyzeReferences(refs []ClassReference, engine *Engine, custom map[string]string) *LintResult {
	result := &LintResult{ClassesFound: len(refs), CustomByLayer: make(map[string]int)}
	usage := make(map[string]*ClassUsage)
	var universe []string

	for _, ref := range refs {
		kind := classifyReference(ref.ClassName, engine, custom)

		u, ok := usage[ref.ClassName]
		if !ok {
			u = &ClassUsage{ClassName: ref.ClassName, Kind: kind}
			usage[ref.ClassName] = u
		}
		u.Occurrences++

		switch kind {
		case "utility":
			result.UtilityRefs++
			continue
		case "custom":
			result.CustomRefs++
			result.CustomByLayer[custom[strings.TrimPrefix(ref.ClassName, "!")]]++
			continue
		case "safelist":
			result.SafelistedRefs++
			continue
		}
		result.UnknownRefs++

		issue := Issue{
			FromLinter:  linterName,
			Text:        fmt.Sprintf(IssueUnknownClass, ref.ClassName),
			Severity:    SeverityWarning,
			SourceLines: []string{ref.LineContent},
			Pos: IssuePos{
				Filename: GetRelativePath(ref.Location.File),
				Line:     ref.Location.Line,
				Column:   ref.Location.Column,
			},
		}

		if engine.Registry().LooksLikeUtility(ref.ClassName) {
			issue.Severity = SeverityError
			issue.Text = fmt.Sprintf(IssueUnknownUtility, ref.ClassName)
			if universe == nil {
				universe = engine.Registry().Universe()
			}
			if s := suggestClass(ref.ClassName, universe); s != "" {
				issue.Text += fmt.Sprintf(" (did you mean %q?)", s)
				issue.Replacement = &Replacement{NewText: s, InlineLength: len(ref.ClassName)}
			}
		}

		result.Issues = append(result.Issues, issue)
	}

	if result.ClassesFound > 0 {
		explained := result.ClassesFound - result.UnknownRefs
		result.CoverPercentage = float64(explained) / float64(result.ClassesFound) * 100
	}

	result.TopClasses = sortByFrequency(usage)
	return result
}

// suggestClass returns the closest known class within edit distance 2, if any.
// Variants are kept and only the base class is compared.
func suggestClass(class string, universe []string) string {
	variants, base := splitVariants(class)
	best, bestDist := "", 3
	for _, candidate := range universe {
		if firstSegment(candidate) != firstSegment(base) {
			continue
		}
		if d := editDistance(base, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	if best == "" {
		return ""
	}
	if len(variants) > 0 {
		return strings.Join(variants, ":") + ":" + best
	}
	return best
}

// editDistance is the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// sortByFrequency orders class usage by occurrences, most frequent first.
func sortByFrequency(usage map[string]*ClassUsage) []ClassUsage {
	out := make([]ClassUsage, 0, len(usage))
	for _, u := range usage {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Occurrences != out[j].Occurrences {
			return out[i].Occurrences > out[j].Occurrences
		}
		return out[i].ClassName < out[j].ClassName
	})
	return out
}

// limitIssues applies max-issues-per-linter and max-same-issues constraints
func limitIssues(issues []Issue, config LintConfig) ([]Issue, int) {
	originalCount := len(issues)

	// Apply max-issues-per-linter
	if config.MaxIssuesPerLinter > 0 && len(issues) > config.MaxIssuesPerLinter {
		issues = issues[:config.MaxIssuesPerLinter]
	}

	// Apply max-same-issues (deduplication by message text)
	if config.MaxSameIssues > 0 {
		issues = deduplicateSameIssues(issues, config.MaxSameIssues)
	}

	truncatedCount := originalCount - len(issues)
	return issues, truncatedCount
}

// deduplicateSameIssues limits how many times the same message appears
func deduplicateSameIssues(issues []Issue, maxSame int) []Issue {
	messageCounts := make(map[string]int)
	var filtered []Issue

	for _, issue := range issues {
		count := messageCounts[issue.Text]
		if count < maxSame {
			filtered = append(filtered, issue)
			messageCounts[issue.Text]++
		}
	}

	return filtered
}
