package tailgen

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Errors returned by configuration loading and validation. Wrapped errors match with errors.Is.
var (
	ErrInvalidPattern = errors.New("invalid safelist pattern")
	ErrUnknownPlugin  = errors.New("unknown plugin")
	ErrUnknownField   = errors.New("unknown configuration field")
	ErrInvalidField   = errors.New("invalid configuration field")
)

// Config is the configuration record: what to scan, how to theme, what to load and what to keep.
type Config struct {
	Content  []string       // Glob patterns of files scanned for class names
	Theme    ThemeConfig    // Theme overrides and extensions
	Plugins  []string       // Plugin identifiers, loaded in order
	Safelist []SafelistRule // Classes retained even when no content file uses them
}

// ThemeConfig holds the theme section of the record.
type ThemeConfig struct {
	// Extend maps a token category ("colors", "spacing", ...) to values merged over the base set.
	Extend map[string]any
	// Overrides maps a token category to values that replace the base category entirely.
	Overrides map[string]any
}

// SafelistRule forces retention of classes. Exactly one of Pattern or Class is set.
type SafelistRule struct {
	Pattern  string   // Regular expression tested against every known utility class
	Class    string   // Literal class name (bare string entries)
	Variants []string // Variants also generated for each match ("hover", "md")
}

// configKeyDelim separates koanf key paths. Theme token keys contain dots ("0.5") and slashes ("1/2").
const configKeyDelim = "::"

// DefaultConfigFile is the config path used when none is given.
const DefaultConfigFile = ".tailgen.yaml"

var topLevelFields = map[string]bool{
	"content":  true,
	"theme":    true,
	"plugins":  true,
	"safelist": true,
}

// DefaultConfig returns the record the generator ships with.
func DefaultConfig() Config {
	return Config{
		Content: []string{"./{assets,views}/**/*.{html,js}"},
		Theme: ThemeConfig{
			Extend: map[string]any{},
		},
		Plugins: []string{"tailwind-fontawesome"},
		Safelist: []SafelistRule{
			{Pattern: "icon-(person-running)"},
			{Pattern: "text-(green|rose)-500"},
		},
	}
}

// LoadConfig reads the record from a YAML (or JSON) file and TAILGEN_CONTENT /
// TAILGEN_PLUGINS environment variables. A missing file yields DefaultConfig
// with the environment applied.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(configKeyDelim)

	fileFound := false
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
			}
			fileFound = true
		}
	}

	if err := k.Load(env.ProviderWithValue("TAILGEN_", configKeyDelim, envValue), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment variables: %w", err)
	}

	base := Config{}
	if !fileFound {
		base = DefaultConfig()
	}
	return decodeConfig(k, base)
}

// envValue maps TAILGEN_CONTENT and TAILGEN_PLUGINS to list values; other variables belong to the CLI.
func envValue(key, value string) (string, any) {
	name := strings.ToLower(strings.TrimPrefix(key, "TAILGEN_"))
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	switch name {
	case "content", "plugins":
		return name, splitList(value)
	}
	return "", nil
}

// splitList splits a comma separated environment value, dropping empty items.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// decodeConfig builds a Config from loaded koanf state, keeping base values for absent fields.
func decodeConfig(k *koanf.Koanf, base Config) (Config, error) {
	keys := make([]string, 0)
	for key := range k.Raw() {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !topLevelFields[key] {
			return Config{}, fmt.Errorf("%w: %q", ErrUnknownField, key)
		}
	}

	cfg := base

	if k.Exists("content") {
		content, err := stringList(k.Get("content"))
		if err != nil {
			return Config{}, fmt.Errorf("%w: content: %v", ErrInvalidField, err)
		}
		cfg.Content = content
	}

	if k.Exists("plugins") {
		plugins, err := stringList(k.Get("plugins"))
		if err != nil {
			return Config{}, fmt.Errorf("%w: plugins: %v", ErrInvalidField, err)
		}
		cfg.Plugins = plugins
	}

	if k.Exists("theme") {
		theme, err := decodeTheme(k.Get("theme"))
		if err != nil {
			return Config{}, err
		}
		cfg.Theme = theme
	}

	if k.Exists("safelist") {
		safelist, err := decodeSafelist(k.Get("safelist"))
		if err != nil {
			return Config{}, err
		}
		cfg.Safelist = safelist
	}

	return cfg, nil
}

func decodeTheme(raw any) (ThemeConfig, error) {
	theme := ThemeConfig{Extend: map[string]any{}}
	if raw == nil {
		return theme, nil
	}

	section, ok := asMap(raw)
	if !ok {
		return ThemeConfig{}, fmt.Errorf("%w: theme must be a mapping", ErrInvalidField)
	}

	for category, value := range section {
		if category == "extend" {
			if value == nil {
				continue
			}
			extend, ok := asMap(value)
			if !ok {
				return ThemeConfig{}, fmt.Errorf("%w: theme.extend must be a mapping", ErrInvalidField)
			}
			theme.Extend = extend
			continue
		}
		if theme.Overrides == nil {
			theme.Overrides = map[string]any{}
		}
		theme.Overrides[category] = value
	}

	return theme, nil
}

func decodeSafelist(raw any) ([]SafelistRule, error) {
	items, ok := raw.([]any)
	if !ok {
		if raw == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: safelist must be a list", ErrInvalidField)
	}

	rules := make([]SafelistRule, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case string:
			rules = append(rules, SafelistRule{Class: v})
		default:
			entry, ok := asMap(item)
			if !ok {
				return nil, fmt.Errorf("%w: safelist[%d] must be a string or a mapping", ErrInvalidField, i)
			}
			pattern, ok := entry["pattern"].(string)
			if !ok || pattern == "" {
				return nil, fmt.Errorf("%w: safelist[%d] is missing a pattern", ErrInvalidField, i)
			}
			rule := SafelistRule{Pattern: pattern}
			if variants, exists := entry["variants"]; exists {
				list, err := stringList(variants)
				if err != nil {
					return nil, fmt.Errorf("%w: safelist[%d].variants: %v", ErrInvalidField, i, err)
				}
				rule.Variants = list
			}
			rules = append(rules, rule)
		}
	}

	return rules, nil
}

// stringList accepts a single string or a list of strings.
func stringList(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{v}, nil
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a list of strings, got %T", raw)
}

// asMap normalises the two map shapes YAML decoding produces.
func asMap(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return v, true
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[fmt.Sprint(key)] = val
		}
		return out, true
	}
	return nil, false
}

// Validate compiles the safelist and resolves every plugin.
func (c Config) Validate() error {
	var errs []error

	if _, err := CompileSafelist(c.Safelist); err != nil {
		errs = append(errs, err)
	}

	for _, name := range c.Plugins {
		if _, err := LookupPlugin(name); err != nil {
			errs = append(errs, err)
		}
	}

	if _, err := c.Theme.Resolve(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
