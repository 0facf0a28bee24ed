package tailgen

// Issue represents a single linting violation in golangci-lint format
type Issue struct {
	FromLinter  string       `json:"FromLinter"`  // "tailgen"
	Text        string       `json:"Text"`        // "unknown utility class \"text-gren-500\""
	Severity    string       `json:"Severity"`    // "", "warning", "error"
	SourceLines []string     `json:"SourceLines"` // Lines of code with issue
	Pos         IssuePos     `json:"Pos"`         // File location
	Replacement *Replacement `json:"Replacement"` // Optional fix suggestion
}

// IssuePos specifies the exact location of an issue
type IssuePos struct {
	Filename string `json:"Filename"` // "templates/index.html"
	Line     int    `json:"Line"`     // 35
	Column   int    `json:"Column"`   // 15 (1-based, exact start of the class)
}

// Replacement is the closest known class for a misspelt utility.
type Replacement struct {
	NewText      string // "text-green-500"
	InlineLength int    // Length of text to replace
}

// IssueSeverity constants
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = ""
)

// Issue messages
const (
	IssueUnknownUtility = "unknown utility class %q"
	IssueUnknownClass   = "class %q is neither a utility nor defined in the input stylesheet"
)
