package tailgen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Theme token categories.
const (
	CategoryColors              = "colors"
	CategorySpacing             = "spacing"
	CategoryFontSize            = "fontSize"
	CategoryFontWeight          = "fontWeight"
	CategoryBorderRadius        = "borderRadius"
	CategoryBorderWidth         = "borderWidth"
	CategoryOpacity             = "opacity"
	CategoryScreens             = "screens"
	CategoryZIndex              = "zIndex"
	CategoryGridTemplateColumns = "gridTemplateColumns"

	// categoryLineHeight holds the line height paired with each fontSize key.
	categoryLineHeight = "fontSizeLineHeight"
)

// Theme is a resolved design-token set: category -> token -> CSS value.
type Theme struct {
	categories map[string]map[string]string
}

// Lookup returns a single token value.
func (t *Theme) Lookup(category, key string) (string, bool) {
	v, ok := t.categories[category][key]
	return v, ok
}

// Keys returns the sorted token keys of a category.
func (t *Theme) Keys(category string) []string {
	values := t.categories[category]
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Screens returns breakpoint names ordered by ascending min-width.
func (t *Theme) Screens() []string {
	keys := t.Keys(CategoryScreens)
	sort.SliceStable(keys, func(i, j int) bool {
		return leadingNumber(t.categories[CategoryScreens][keys[i]]) <
			leadingNumber(t.categories[CategoryScreens][keys[j]])
	})
	return keys
}

func leadingNumber(s string) float64 {
	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	n, _ := strconv.ParseFloat(s[:end], 64)
	return n
}

// Resolve merges the configured theme into the base token set. A category in
// Overrides replaces the base category; a category in Extend is merged over it.
func (c ThemeConfig) Resolve() (*Theme, error) {
	theme := BaseTheme()

	for _, category := range sortedKeys(c.Overrides) {
		values, lineHeights, err := flattenCategory(category, c.Overrides[category])
		if err != nil {
			return nil, err
		}
		theme.categories[category] = values
		if category == CategoryFontSize {
			theme.categories[categoryLineHeight] = lineHeights
		}
	}

	for _, category := range sortedKeys(c.Extend) {
		values, lineHeights, err := flattenCategory(category, c.Extend[category])
		if err != nil {
			return nil, err
		}
		if theme.categories[category] == nil {
			theme.categories[category] = map[string]string{}
		}
		for k, v := range values {
			theme.categories[category][k] = v
		}
		if category == CategoryFontSize {
			for k, v := range lineHeights {
				theme.categories[categoryLineHeight][k] = v
			}
		}
	}

	return theme, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// flattenCategory turns nested token maps into dash-joined keys ("green-500").
// A DEFAULT key names its parent. fontSize values may be [size, lineHeight] pairs.
func flattenCategory(category string, raw any) (map[string]string, map[string]string, error) {
	values := map[string]string{}
	lineHeights := map[string]string{}

	m, ok := asMap(raw)
	if !ok {
		if raw == nil {
			return values, lineHeights, nil
		}
		return nil, nil, fmt.Errorf("%w: theme %s must be a mapping", ErrInvalidField, category)
	}

	var walk func(prefix string, node map[string]any) error
	walk = func(prefix string, node map[string]any) error {
		for key, val := range node {
			name := joinTokenKey(prefix, key)

			if child, ok := asMap(val); ok {
				if err := walk(name, child); err != nil {
					return err
				}
				continue
			}

			if list, ok := val.([]any); ok {
				if category != CategoryFontSize || len(list) == 0 {
					return fmt.Errorf("%w: theme %s.%s: lists are only valid for fontSize", ErrInvalidField, category, name)
				}
				values[name] = fmt.Sprint(list[0])
				if len(list) > 1 {
					if opts, ok := asMap(list[1]); ok {
						if lh, ok := opts["lineHeight"]; ok {
							lineHeights[name] = fmt.Sprint(lh)
						}
					} else {
						lineHeights[name] = fmt.Sprint(list[1])
					}
				}
				continue
			}

			if val == nil {
				return fmt.Errorf("%w: theme %s.%s has no value", ErrInvalidField, category, name)
			}
			values[name] = fmt.Sprint(val)
		}
		return nil
	}

	if err := walk("", m); err != nil {
		return nil, nil, err
	}
	return values, lineHeights, nil
}

func joinTokenKey(prefix, key string) string {
	switch {
	case key == "DEFAULT":
		if prefix == "" {
			return "DEFAULT"
		}
		return prefix
	case prefix == "":
		return key
	default:
		return prefix + "-" + key
	}
}

// palette lists the 50..950 shades of each color family.
var palette = map[string][11]string{
	"slate":  {"#f8fafc", "#f1f5f9", "#e2e8f0", "#cbd5e1", "#94a3b8", "#64748b", "#475569", "#334155", "#1e293b", "#0f172a", "#020617"},
	"gray":   {"#f9fafb", "#f3f4f6", "#e5e7eb", "#d1d5db", "#9ca3af", "#6b7280", "#4b5563", "#374151", "#1f2937", "#111827", "#030712"},
	"red":    {"#fef2f2", "#fee2e2", "#fecaca", "#fca5a5", "#f87171", "#ef4444", "#dc2626", "#b91c1c", "#991b1b", "#7f1d1d", "#450a0a"},
	"orange": {"#fff7ed", "#ffedd5", "#fed7aa", "#fdba74", "#fb923c", "#f97316", "#ea580c", "#c2410c", "#9a3412", "#7c2d12", "#431407"},
	"yellow": {"#fefce8", "#fef9c3", "#fef08a", "#fde047", "#facc15", "#eab308", "#ca8a04", "#a16207", "#854d0e", "#713f12", "#422006"},
	"green":  {"#f0fdf4", "#dcfce7", "#bbf7d0", "#86efac", "#4ade80", "#22c55e", "#16a34a", "#15803d", "#166534", "#14532d", "#052e16"},
	"blue":   {"#eff6ff", "#dbeafe", "#bfdbfe", "#93c5fd", "#60a5fa", "#3b82f6", "#2563eb", "#1d4ed8", "#1e40af", "#1e3a8a", "#172554"},
	"indigo": {"#eef2ff", "#e0e7ff", "#c7d2fe", "#a5b4fc", "#818cf8", "#6366f1", "#4f46e5", "#4338ca", "#3730a3", "#312e81", "#1e1b4b"},
	"purple": {"#faf5ff", "#f3e8ff", "#e9d5ff", "#d8b4fe", "#c084fc", "#a855f7", "#9333ea", "#7e22ce", "#6b21a8", "#581c87", "#3b0764"},
	"pink":   {"#fdf2f8", "#fce7f3", "#fbcfe8", "#f9a8d4", "#f472b6", "#ec4899", "#db2777", "#be185d", "#9d174d", "#831843", "#500724"},
	"rose":   {"#fff1f2", "#ffe4e6", "#fecdd3", "#fda4af", "#fb7185", "#f43f5e", "#e11d48", "#be123c", "#9f1239", "#881337", "#4c0519"},
}

var shades = [11]string{"50", "100", "200", "300", "400", "500", "600", "700", "800", "900", "950"}

// spacingSteps are the numeric spacing keys; each step is a quarter rem.
var spacingSteps = []float64{
	0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 5, 6, 7, 8, 9, 10, 11, 12, 14, 16, 20, 24, 28, 32, 36, 40, 44, 48, 52, 56, 60, 64, 72, 80, 96,
}

// BaseTheme returns the default design-token set.
func BaseTheme() *Theme {
	colors := map[string]string{
		"inherit":     "inherit",
		"current":     "currentColor",
		"transparent": "transparent",
		"black":       "#000",
		"white":       "#fff",
	}
	for family, values := range palette {
		for i, shade := range shades {
			colors[family+"-"+shade] = values[i]
		}
	}

	spacing := map[string]string{"0": "0px", "px": "1px"}
	for _, step := range spacingSteps {
		key := strconv.FormatFloat(step, 'f', -1, 64)
		spacing[key] = strconv.FormatFloat(step/4, 'f', -1, 64) + "rem"
	}

	opacity := map[string]string{}
	for i := 0; i <= 100; i += 5 {
		opacity[strconv.Itoa(i)] = formatRatio(float64(i) / 100)
	}

	gridCols := map[string]string{"none": "none"}
	for i := 1; i <= 12; i++ {
		gridCols[strconv.Itoa(i)] = fmt.Sprintf("repeat(%d, minmax(0, 1fr))", i)
	}

	return &Theme{categories: map[string]map[string]string{
		CategoryColors:  colors,
		CategorySpacing: spacing,
		CategoryFontSize: {
			"xs": "0.75rem", "sm": "0.875rem", "base": "1rem", "lg": "1.125rem", "xl": "1.25rem",
			"2xl": "1.5rem", "3xl": "1.875rem", "4xl": "2.25rem", "5xl": "3rem", "6xl": "3.75rem",
		},
		categoryLineHeight: {
			"xs": "1rem", "sm": "1.25rem", "base": "1.5rem", "lg": "1.75rem", "xl": "1.75rem",
			"2xl": "2rem", "3xl": "2.25rem", "4xl": "2.5rem", "5xl": "1", "6xl": "1",
		},
		CategoryFontWeight: {
			"thin": "100", "extralight": "200", "light": "300", "normal": "400", "medium": "500",
			"semibold": "600", "bold": "700", "extrabold": "800", "black": "900",
		},
		CategoryBorderRadius: {
			"none": "0px", "sm": "0.125rem", "DEFAULT": "0.25rem", "md": "0.375rem", "lg": "0.5rem",
			"xl": "0.75rem", "2xl": "1rem", "3xl": "1.5rem", "full": "9999px",
		},
		CategoryBorderWidth: {
			"DEFAULT": "1px", "0": "0px", "2": "2px", "4": "4px", "8": "8px",
		},
		CategoryOpacity: opacity,
		CategoryScreens: {
			"sm": "640px", "md": "768px", "lg": "1024px", "xl": "1280px", "2xl": "1536px",
		},
		CategoryZIndex: {
			"0": "0", "10": "10", "20": "20", "30": "30", "40": "40", "50": "50", "auto": "auto",
		},
		CategoryGridTemplateColumns: gridCols,
	}}
}

// formatRatio prints a fraction with at most six decimals and no trailing zeros.
func formatRatio(f float64) string {
	s := strconv.FormatFloat(f, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
