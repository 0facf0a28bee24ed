// Package stylesheet processes the input stylesheet: it splices generated layers
// in place of @tailwind directives, expands @apply, and lists the classes the
// stylesheet defines itself.
package stylesheet

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// DefaultInput is used when no input stylesheet is configured.
const DefaultInput = "@tailwind base;\n@tailwind components;\n@tailwind utilities;\n"

// Directive names accepted after @tailwind.
const (
	DirectiveBase       = "base"
	DirectiveComponents = "components"
	DirectiveUtilities  = "utilities"
)

// ErrUnknownDirective is returned for @tailwind directives other than base, components and utilities.
var ErrUnknownDirective = errors.New("unknown @tailwind directive")

// Layers holds the rendered CSS for each directive.
type Layers struct {
	Base       string
	Components string
	Utilities  string
}

// ApplyFunc renders the declarations for an @apply list. important is set when
// the list ends with !important.
type ApplyFunc func(classes []string, important bool) (string, error)

// Result is the processed stylesheet.
type Result struct {
	CSS        string
	Directives []string // @tailwind directives found, in order
	Applied    int      // number of @apply rules expanded
}

// Process replaces @tailwind directives with layers and expands @apply through apply.
func Process(src string, layers Layers, apply ApplyFunc) (*Result, error) {
	result := &Result{}
	var out strings.Builder
	out.Grow(len(src) + len(layers.Base) + len(layers.Components) + len(layers.Utilities))

	lexer := css.NewLexer(parse.NewInputString(src))

	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("lexing stylesheet: %w", err)
			}
			break
		}

		if tt == css.AtKeywordToken {
			switch string(text) {
			case "@tailwind":
				name, _ := readUntilEnd(lexer)
				name = strings.TrimSpace(name)
				switch name {
				case DirectiveBase:
					out.WriteString(layers.Base)
				case DirectiveComponents:
					out.WriteString(layers.Components)
				case DirectiveUtilities:
					out.WriteString(layers.Utilities)
				default:
					return nil, fmt.Errorf("%w: %q", ErrUnknownDirective, name)
				}
				result.Directives = append(result.Directives, name)
				continue

			case "@apply":
				raw, closed := readUntilEnd(lexer)
				classes := strings.Fields(raw)
				important := false
				if n := len(classes); n > 0 && classes[n-1] == "!important" {
					important = true
					classes = classes[:n-1]
				}
				if len(classes) == 0 {
					return nil, fmt.Errorf("empty @apply")
				}

				body, err := apply(classes, important)
				if err != nil {
					return nil, fmt.Errorf("@apply %s: %w", strings.Join(classes, " "), err)
				}
				out.WriteString(body)
				if closed {
					out.WriteString("}")
				}
				result.Applied++
				continue
			}
		}

		out.Write(text)
	}

	result.CSS = out.String()
	return result, nil
}

// readUntilEnd consumes tokens up to a semicolon or closing brace and returns
// their raw text. closed reports whether a closing brace ended the statement.
func readUntilEnd(lexer *css.Lexer) (raw string, closed bool) {
	var b strings.Builder
	for {
		tt, text := lexer.Next()
		switch tt {
		case css.ErrorToken, css.SemicolonToken:
			return b.String(), false
		case css.RightBraceToken:
			return b.String(), true
		case css.CommentToken:
			continue
		}
		b.Write(text)
	}
}

// DefinedClass is a class selector found in the stylesheet.
type DefinedClass struct {
	Name  string
	Layer string // enclosing @layer, empty at top level
}

// DefinedClasses lists every class selector in the stylesheet, deduplicated and sorted by name.
func DefinedClasses(src string) []DefinedClass {
	lexer := css.NewLexer(parse.NewInputString(src))

	found := make(map[string]DefinedClass)
	depth := 0
	layerDepth := map[int]string{}
	currentLayer := func() string {
		for d := depth; d >= 0; d-- {
			if name, ok := layerDepth[d]; ok {
				return name
			}
		}
		return ""
	}

	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			break
		}

		switch {
		case tt == css.AtKeywordToken && string(text) == "@layer":
			if name := readLayerName(lexer); name != "" {
				depth++
				layerDepth[depth] = name
			}

		case tt == css.LeftBraceToken:
			depth++

		case tt == css.RightBraceToken:
			delete(layerDepth, depth)
			if depth > 0 {
				depth--
			}

		case tt == css.DelimToken && len(text) > 0 && text[0] == '.':
			tt2, ident := lexer.Next()
			if tt2 != css.IdentToken {
				continue
			}
			name := unescape(string(ident))
			if _, exists := found[name]; !exists {
				found[name] = DefinedClass{Name: name, Layer: currentLayer()}
			}
		}
	}

	out := make([]DefinedClass, 0, len(found))
	for _, c := range found {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// readLayerName reads an @layer prelude. It returns the name for block form
// (@layer name { ... }) and "" for the statement form (@layer a, b;).
func readLayerName(lexer *css.Lexer) string {
	var name string
	for {
		tt, text := lexer.Next()
		switch tt {
		case css.ErrorToken, css.SemicolonToken:
			return ""
		case css.IdentToken:
			name = string(text)
		case css.LeftBraceToken:
			return name
		}
	}
}

func unescape(ident string) string {
	if !strings.Contains(ident, `\`) {
		return ident
	}
	var b strings.Builder
	escaped := false
	for _, r := range ident {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}
