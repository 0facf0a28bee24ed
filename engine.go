package tailgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yacobolo/tailgen/internal/stylesheet"
)

// Engine holds everything derived from a Config: resolved theme, loaded plugins,
// utility registry and compiled safelist. It is immutable once built.
type Engine struct {
	registry *Registry
	safelist *Safelist
}

// NewEngine validates the config and prepares an engine for it.
func NewEngine(cfg Config) (*Engine, error) {
	theme, err := cfg.Theme.Resolve()
	if err != nil {
		return nil, fmt.Errorf("resolving theme: %w", err)
	}

	loaded := make([]Plugin, 0, len(cfg.Plugins))
	for _, name := range cfg.Plugins {
		p, err := LookupPlugin(name)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, p)
	}

	safelist, err := CompileSafelist(cfg.Safelist)
	if err != nil {
		return nil, err
	}

	return &Engine{
		registry: NewRegistry(theme, loaded),
		safelist: safelist,
	}, nil
}

// Registry returns the utility registry.
func (e *Engine) Registry() *Registry { return e.registry }

// Safelist returns the compiled safelist.
func (e *Engine) Safelist() *Safelist { return e.safelist }

// SafelistClasses returns the safelist expanded over the registry universe,
// keeping only classes that resolve.
func (e *Engine) SafelistClasses() []string {
	expanded := e.safelist.Expand(e.registry.Universe())
	out := expanded[:0]
	for _, class := range expanded {
		if e.registry.Known(class) {
			out = append(out, class)
		}
	}
	return out
}

// Selection is the set of classes chosen for output.
type Selection struct {
	Classes    []string // sorted, deduplicated
	Detected   int      // classes found in content
	Safelisted int      // classes retained only by the safelist
}

// Select keeps the candidates that resolve and adds the safelist.
func (e *Engine) Select(candidates []string) Selection {
	chosen := make(map[string]bool)
	var sel Selection

	for _, c := range candidates {
		if chosen[c] || !e.registry.Known(c) {
			continue
		}
		chosen[c] = true
		sel.Detected++
	}

	for _, c := range e.SafelistClasses() {
		if chosen[c] {
			continue
		}
		chosen[c] = true
		sel.Safelisted++
	}

	sel.Classes = make([]string, 0, len(chosen))
	for c := range chosen {
		sel.Classes = append(sel.Classes, c)
	}
	sort.Strings(sel.Classes)
	return sel
}

// Rules resolves and orders the rules for a set of classes.
func (e *Engine) Rules(classes []string) []Rule {
	var rules []Rule
	for _, class := range classes {
		resolved, ok := e.registry.Resolve(class)
		if !ok {
			continue
		}
		rules = append(rules, resolved...)
	}
	SortRules(rules)
	return rules
}

// Layers renders base, components and utilities for the given classes.
func (e *Engine) Layers(classes []string, minify bool) stylesheet.Layers {
	var components, utilities []Rule
	for _, rule := range e.Rules(classes) {
		if rule.Layer == LayerComponents {
			components = append(components, rule)
		} else {
			utilities = append(utilities, rule)
		}
	}

	return stylesheet.Layers{
		Base:       RenderRules(preflight, minify),
		Components: RenderRules(components, minify),
		Utilities:  RenderRules(utilities, minify),
	}
}

// Apply renders the declarations of plain utilities for @apply.
func (e *Engine) Apply(classes []string, important bool) (string, error) {
	var parts []string
	for _, class := range classes {
		ds, err := e.registry.Declarations(class)
		if err != nil {
			return "", err
		}
		for _, d := range ds {
			value := d.Value
			if important && !strings.HasSuffix(value, "!important") {
				value += " !important"
			}
			parts = append(parts, d.Property+": "+value+";")
		}
	}
	return strings.Join(parts, " "), nil
}
