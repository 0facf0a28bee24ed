package tailgen

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"

	"github.com/yacobolo/tailgen/internal/log"
)

// ClassReference is a class found in a class attribute of a content file.
type ClassReference struct {
	ClassName   string       // Individual class: "text-green-500"
	Location    FileLocation // Where it was found
	LineContent string       // The full line for context
}

// FileLocation tracks where a class reference was found
type FileLocation struct {
	File   string
	Line   int
	Column int // 1-based column (exact start of class name)
}

// ScanStats tracks file scanning statistics
type ScanStats struct {
	FilesDiscovered int // Total files found by glob patterns
	FilesScanned    int // Files actually scanned (after filtering)
	FilesSkipped    int // Files skipped due to filtering
}

// scanPattern finds class attribute values in markup and scripts.
type scanPattern struct {
	name  string
	regex *regexp.Regexp
}

var (
	// The attribute name must start the line or follow whitespace or '<', so data-class= and :class= do not match.
	attributePatterns = []scanPattern{
		{name: "class attribute", regex: regexp.MustCompile(`(?:^|[\s<])class(?:Name)?="([^"]*)"`)},
		{name: "class attribute single quoted", regex: regexp.MustCompile(`(?:^|[\s<])class(?:Name)?='([^']*)'`)},
		{name: "classList call", regex: regexp.MustCompile(`classList\.(?:add|remove|toggle)\(([^)]*)\)`)},
	}

	// quotedArg extracts string literals from a classList argument list.
	quotedArg = regexp.MustCompile(`"([^"]*)"|'([^']*)'`)

	// templateAction matches Go template actions and JS template substitutions inside attribute values.
	templateAction = regexp.MustCompile(`\{\{.*?\}\}|\$\{[^}]*\}`)
)

// skippedDirs are never scanned, regardless of .gitignore.
var skippedDirs = []string{"node_modules", ".git"}

// contentFilter decides which matched files are scanned.
type contentFilter struct {
	gitignore *ignore.GitIgnore
}

// newContentFilter loads .gitignore from the working directory. A missing file is fine.
func newContentFilter() *contentFilter {
	gi, err := ignore.CompileIgnoreFile(".gitignore")
	if err != nil {
		return &contentFilter{}
	}
	return &contentFilter{gitignore: gi}
}

// skip determines if a file should be excluded from scanning
//
// Two-layer filtering:
// 1. Directory check: node_modules and .git anywhere in the path
// 2. Gitignore check: only for relative paths (paths within the project)
func (f *contentFilter) skip(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		for _, dir := range skippedDirs {
			if part == dir {
				return true
			}
		}
	}

	if !filepath.IsAbs(path) && f.gitignore != nil && f.gitignore.MatchesPath(path) {
		return true
	}

	return false
}

// ExpandContent expands content globs to the files that will be scanned.
func ExpandContent(patterns []string) ([]string, ScanStats, error) {
	var allFiles []string
	seen := make(map[string]bool)
	stats := ScanStats{}
	filter := newContentFilter()

	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, stats, err
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true

			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			stats.FilesDiscovered++

			if filter.skip(match) {
				stats.FilesSkipped++
				continue
			}
			allFiles = append(allFiles, match)
			stats.FilesScanned++
		}
	}

	sort.Strings(allFiles)
	return allFiles, stats, nil
}

// ContentScan is the result of scanning content files for candidate classes.
type ContentScan struct {
	Files      []string
	Candidates []string // sorted, deduplicated
	Stats      ScanStats
	Warnings   []string
}

// ScanContent reads every content file and extracts candidate class names.
// Files are read concurrently, at most concurrency at a time (GOMAXPROCS when <= 0).
func ScanContent(ctx context.Context, patterns []string, concurrency int) (*ContentScan, error) {
	logger := log.WithComponent("scanner")

	files, stats, err := ExpandContent(patterns)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Int("discovered", stats.FilesDiscovered).
		Int("skipped", stats.FilesSkipped).
		Msg("content files expanded")

	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	var (
		mu       sync.Mutex
		found    = make(map[string]bool)
		warnings []string
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			// #nosec G304 - path comes from configured content globs
			data, err := os.ReadFile(file)
			if err != nil {
				mu.Lock()
				warnings = append(warnings, "Failed to read "+file+": "+err.Error())
				mu.Unlock()
				return nil
			}

			candidates := ExtractCandidates(data)

			mu.Lock()
			for _, c := range candidates {
				found[c] = true
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := make([]string, 0, len(found))
	for c := range found {
		candidates = append(candidates, c)
	}
	sort.Strings(candidates)
	sort.Strings(warnings)

	logger.Debug().Int("files", len(files)).Int("candidates", len(candidates)).Msg("content scanned")

	return &ContentScan{
		Files:      files,
		Candidates: candidates,
		Stats:      stats,
		Warnings:   warnings,
	}, nil
}

// isSeparator reports characters that can never be part of a class name.
func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '"', '\'', '`', '<', '>', '=', '{', '}', '(', ')', ';', ',':
		return true
	}
	return false
}

// ExtractCandidates splits text into tokens that might be class names.
// Unknown tokens are harmless: only tokens that resolve are emitted.
func ExtractCandidates(data []byte) []string {
	seen := make(map[string]bool)
	var out []string

	for _, field := range bytes.FieldsFunc(data, isSeparator) {
		token := strings.TrimRight(string(field), ".:")
		token = strings.TrimLeft(token, ".")
		if token == "" || seen[token] || !strings.ContainsAny(token, "abcdefghijklmnopqrstuvwxyz") {
			continue
		}
		seen[token] = true
		out = append(out, token)
	}

	sort.Strings(out)
	return out
}

// ScanClassAttributes scans content files for classes written in class attributes and classList calls.
func ScanClassAttributes(patterns []string) ([]ClassReference, ScanStats, error) {
	files, stats, err := ExpandContent(patterns)
	if err != nil {
		return nil, stats, err
	}

	var allRefs []ClassReference
	for _, file := range files {
		refs, err := scanFile(file)
		if err != nil {
			// Log warning but continue
			logger := log.WithComponent("scanner")
			logger.Warn().Err(err).Str("file", file).Msg("skipping unreadable file")
			continue
		}
		allRefs = append(allRefs, refs...)
	}

	return allRefs, stats, nil
}

// scanFile scans a single file for class references
func scanFile(filePath string) ([]ClassReference, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var refs []ClassReference
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		refs = append(refs, extractClassesFromLine(scanner.Text(), lineNum, filePath)...)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return refs, nil
}

// extractClassesFromLine extracts every class in class attributes on a line.
func extractClassesFromLine(line string, lineNum int, file string) []ClassReference {
	var refs []ClassReference
	trimmed := strings.TrimSpace(line)

	// Skip comment lines
	if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "<!--") {
		return refs
	}

	for _, pattern := range attributePatterns {
		for _, match := range pattern.regex.FindAllStringSubmatchIndex(line, -1) {
			if len(match) < 4 {
				continue
			}
			valueStart, valueEnd := match[2], match[3]

			if pattern.name == "classList call" {
				args := line[valueStart:valueEnd]
				for _, arg := range quotedArg.FindAllStringSubmatchIndex(args, -1) {
					start, end := arg[2], arg[3]
					if start < 0 {
						start, end = arg[4], arg[5]
					}
					refs = append(refs, classesInValue(line, valueStart+start, valueStart+end, lineNum, file, trimmed)...)
				}
				continue
			}

			refs = append(refs, classesInValue(line, valueStart, valueEnd, lineNum, file, trimmed)...)
		}
	}

	return refs
}

// classesInValue splits line[start:end] into classes, masking template actions, and records their columns.
func classesInValue(line string, start, end, lineNum int, file, trimmed string) []ClassReference {
	value := line[start:end]
	masked := templateAction.ReplaceAllStringFunc(value, func(s string) string {
		return strings.Repeat(" ", len(s))
	})

	var refs []ClassReference
	offset := 0
	for _, field := range strings.Fields(masked) {
		idx := strings.Index(masked[offset:], field)
		col := start + offset + idx + 1
		offset += idx + len(field)

		refs = append(refs, ClassReference{
			ClassName: field,
			Location: FileLocation{
				File:   file,
				Line:   lineNum,
				Column: col,
			},
			LineContent: trimmed,
		})
	}
	return refs
}

// GetRelativePath shortens an absolute path below the working directory to a relative one.
// Relative paths and paths outside the working directory are returned unchanged.
func GetRelativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}

	cwd, err := os.Getwd()
	if err != nil {
		return path
	}

	rel, err := filepath.Rel(cwd, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}

	return rel
}
