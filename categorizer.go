package tailgen

import (
	"sort"
	"strings"
)

// PropertyCategory groups generated rules by what they style.
type PropertyCategory string

// Property categories used in build statistics.
const (
	CategoryVisual     PropertyCategory = "Visual"
	CategoryLayout     PropertyCategory = "Layout"
	CategoryTypography PropertyCategory = "Typography"
	CategoryEffects    PropertyCategory = "Effects"
	CategoryInteract   PropertyCategory = "Interaction"
	CategoryVendor     PropertyCategory = "Vendor"
)

// propertyCategories maps CSS property names to categories
var propertyCategories = map[string]PropertyCategory{
	// Visual
	"background-color": CategoryVisual,
	"color":            CategoryVisual,
	"border-color":     CategoryVisual,
	"border-radius":    CategoryVisual,
	"border-style":     CategoryVisual,
	"opacity":          CategoryVisual,
	"content":          CategoryVisual,

	// Layout
	"display":               CategoryLayout,
	"position":              CategoryLayout,
	"width":                 CategoryLayout,
	"height":                CategoryLayout,
	"overflow":              CategoryLayout,
	"overflow-x":            CategoryLayout,
	"overflow-y":            CategoryLayout,
	"z-index":               CategoryLayout,
	"gap":                   CategoryLayout,
	"row-gap":               CategoryLayout,
	"column-gap":            CategoryLayout,
	"inset":                 CategoryLayout,
	"top":                   CategoryLayout,
	"right":                 CategoryLayout,
	"bottom":                CategoryLayout,
	"left":                  CategoryLayout,
	"justify-content":       CategoryLayout,
	"align-items":           CategoryLayout,
	"align-self":            CategoryLayout,
	"grid-template-columns": CategoryLayout,
	"grid-column":           CategoryLayout,

	// Typography
	"font-family":          CategoryTypography,
	"font-size":            CategoryTypography,
	"font-weight":          CategoryTypography,
	"font-style":           CategoryTypography,
	"line-height":          CategoryTypography,
	"text-align":           CategoryTypography,
	"text-decoration-line": CategoryTypography,
	"text-transform":       CategoryTypography,
	"text-overflow":        CategoryTypography,
	"white-space":          CategoryTypography,
	"overflow-wrap":        CategoryTypography,

	// Effects
	"box-shadow":          CategoryEffects,
	"transition-property": CategoryEffects,

	// Interaction
	"cursor":         CategoryInteract,
	"user-select":    CategoryInteract,
	"pointer-events": CategoryInteract,
}

// categorizeProperty determines the category of a CSS property
func categorizeProperty(name string) PropertyCategory {
	if cat, exists := propertyCategories[name]; exists {
		return cat
	}

	if strings.HasPrefix(name, "-webkit-") ||
		strings.HasPrefix(name, "-moz-") ||
		strings.HasPrefix(name, "-ms-") {
		return CategoryVendor
	}

	if strings.HasPrefix(name, "border-") {
		return CategoryVisual
	}

	// flex-*, grid-*, padding-*, margin-*, min-/max- sizes
	return CategoryLayout
}

// categorizeRule classifies a rule by its first declaration.
func categorizeRule(rule Rule) PropertyCategory {
	if len(rule.Declarations) == 0 {
		return CategoryLayout
	}
	return categorizeProperty(rule.Declarations[0].Property)
}

// CategoryCount is the number of generated classes in one category.
type CategoryCount struct {
	Category PropertyCategory
	Classes  int
}

// countCategories counts distinct classes per category, largest first.
func countCategories(rules []Rule) []CategoryCount {
	seen := make(map[string]bool)
	counts := make(map[PropertyCategory]int)
	for _, rule := range rules {
		if rule.Class == "" || seen[rule.Class] {
			continue
		}
		seen[rule.Class] = true
		counts[categorizeRule(rule)]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for cat, n := range counts {
		out = append(out, CategoryCount{Category: cat, Classes: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Classes != out[j].Classes {
			return out[i].Classes > out[j].Classes
		}
		return out[i].Category < out[j].Category
	})
	return out
}
