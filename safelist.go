package tailgen

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Safelist is a compiled set of retention rules.
type Safelist struct {
	rules []compiledRule
}

type compiledRule struct {
	source   string
	regex    *regexp.Regexp
	class    string
	variants []string
}

// CompileSafelist compiles every rule. Patterns may be written as plain
// expressions or as slash-delimited literals ("/text-(green|rose)-500/i").
func CompileSafelist(rules []SafelistRule) (*Safelist, error) {
	s := &Safelist{rules: make([]compiledRule, 0, len(rules))}

	for i, rule := range rules {
		switch {
		case rule.Pattern != "" && rule.Class != "":
			return nil, fmt.Errorf("%w: safelist[%d] sets both pattern and class", ErrInvalidPattern, i)
		case rule.Class != "":
			s.rules = append(s.rules, compiledRule{source: rule.Class, class: rule.Class, variants: rule.Variants})
		case rule.Pattern != "":
			re, err := compilePattern(rule.Pattern)
			if err != nil {
				return nil, fmt.Errorf("%w: safelist[%d] %q: %v", ErrInvalidPattern, i, rule.Pattern, err)
			}
			s.rules = append(s.rules, compiledRule{source: rule.Pattern, regex: re, variants: rule.Variants})
		default:
			return nil, fmt.Errorf("%w: safelist[%d] is empty", ErrInvalidPattern, i)
		}
	}

	return s, nil
}

// compilePattern compiles a regular expression, unwrapping /body/flags literals.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	body := pattern
	if strings.HasPrefix(pattern, "/") {
		end := strings.LastIndex(pattern, "/")
		if end > 0 {
			body = pattern[1:end]
			flags := pattern[end+1:]
			for _, f := range flags {
				switch f {
				case 'i':
					body = "(?i)" + body
				case 'g':
					// global matching has no meaning for a single test
				default:
					return nil, fmt.Errorf("unsupported flag %q", f)
				}
			}
		}
	}
	return regexp.Compile(body)
}

// Match reports whether any rule retains the class. Patterns are unanchored.
func (s *Safelist) Match(class string) bool {
	for _, rule := range s.rules {
		if rule.regex != nil {
			if rule.regex.MatchString(class) {
				return true
			}
			continue
		}
		if rule.class == class {
			return true
		}
	}
	return false
}

// Len returns the number of rules.
func (s *Safelist) Len() int {
	return len(s.rules)
}

// Patterns returns the source text of every rule, in order.
func (s *Safelist) Patterns() []string {
	out := make([]string, len(s.rules))
	for i, rule := range s.rules {
		out[i] = rule.source
	}
	return out
}

// Expand returns every class the safelist retains: universe members matching
// a pattern, each rule's variants applied to its matches, and literal classes.
// The result is sorted and free of duplicates.
func (s *Safelist) Expand(universe []string) []string {
	seen := make(map[string]bool)
	add := func(class string) {
		seen[class] = true
	}

	for _, rule := range s.rules {
		var matches []string
		if rule.regex == nil {
			matches = []string{rule.class}
		} else {
			for _, candidate := range universe {
				if rule.regex.MatchString(candidate) {
					matches = append(matches, candidate)
				}
			}
		}

		for _, m := range matches {
			add(m)
			for _, v := range rule.variants {
				add(v + ":" + m)
			}
		}
	}

	out := make([]string, 0, len(seen))
	for class := range seen {
		out = append(out, class)
	}
	sort.Strings(out)
	return out
}
