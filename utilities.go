package tailgen

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Declaration is a single CSS property: value pair.
type Declaration struct {
	Property string
	Value    string
}

// Layer is the cascade layer a rule is emitted into.
type Layer int

// Output layers, in emission order.
const (
	LayerBase Layer = iota
	LayerComponents
	LayerUtilities
)

func (l Layer) String() string {
	switch l {
	case LayerBase:
		return "base"
	case LayerComponents:
		return "components"
	default:
		return "utilities"
	}
}

// Utility is a class definition contributed by the core set or by a plugin.
type Utility struct {
	Name         string
	Layer        Layer
	Suffix       string // appended to the selector, e.g. "::before"
	Declarations []Declaration
	// Screens adds one rule per breakpoint, keyed by the breakpoint's min-width.
	Screens func(minWidth string) []Declaration

	order int
}

// Rule is a resolved, ready to render CSS rule.
type Rule struct {
	Class        string
	Selector     string
	Media        string
	Layer        Layer
	Declarations []Declaration

	mediaRank   int
	variantRank int
	order       int
}

// Emission order of utility groups within a layer.
const (
	orderContainer = iota
	orderPosition
	orderZIndex
	orderMargin
	orderDisplay
	orderSizing
	orderFlex
	orderGap
	orderGrid
	orderOverflow
	orderRadius
	orderBorderWidth
	orderBorderColor
	orderBackground
	orderPadding
	orderTextAlign
	orderFontSize
	orderFontWeight
	orderFontStyle
	orderTextColor
	orderDecoration
	orderOpacity
	orderEffects
	orderInteractivity
	orderPlugins
)

// family is a prefix whose values come from a theme category or a keyword table.
type family struct {
	prefix   string
	category string
	extra    map[string]string
	negative bool
	color    bool
	accepts  func(value string) bool
	build    func(value string) []Declaration
	order    int
}

func decl(property string) func(string) []Declaration {
	return func(v string) []Declaration {
		return []Declaration{{property, v}}
	}
}

func decls(properties ...string) func(string) []Declaration {
	return func(v string) []Declaration {
		out := make([]Declaration, len(properties))
		for i, p := range properties {
			out[i] = Declaration{p, v}
		}
		return out
	}
}

func static(order int, name string, pairs ...string) Utility {
	u := Utility{Name: name, Layer: LayerUtilities, order: order}
	for i := 0; i+1 < len(pairs); i += 2 {
		u.Declarations = append(u.Declarations, Declaration{pairs[i], pairs[i+1]})
	}
	return u
}

// fractions maps "1/2" style keys to percentages.
func fractions() map[string]string {
	out := map[string]string{}
	for _, d := range []int{2, 3, 4, 5, 6, 12} {
		for n := 1; n < d; n++ {
			out[fmt.Sprintf("%d/%d", n, d)] = formatRatio(float64(n)/float64(d)*100) + "%"
		}
	}
	return out
}

func withEntries(base map[string]string, pairs ...string) map[string]string {
	out := make(map[string]string, len(base)+len(pairs)/2)
	for k, v := range base {
		out[k] = v
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		out[pairs[i]] = pairs[i+1]
	}
	return out
}

func coreStatics() []Utility {
	return []Utility{
		{
			Name:         "container",
			Layer:        LayerComponents,
			Declarations: []Declaration{{"width", "100%"}},
			Screens: func(minWidth string) []Declaration {
				return []Declaration{{"max-width", minWidth}}
			},
			order: orderContainer,
		},

		static(orderPosition, "sr-only",
			"position", "absolute", "width", "1px", "height", "1px", "padding", "0",
			"margin", "-1px", "overflow", "hidden", "clip", "rect(0, 0, 0, 0)",
			"white-space", "nowrap", "border-width", "0"),
		static(orderPosition, "static", "position", "static"),
		static(orderPosition, "fixed", "position", "fixed"),
		static(orderPosition, "absolute", "position", "absolute"),
		static(orderPosition, "relative", "position", "relative"),
		static(orderPosition, "sticky", "position", "sticky"),

		static(orderDisplay, "block", "display", "block"),
		static(orderDisplay, "inline-block", "display", "inline-block"),
		static(orderDisplay, "inline", "display", "inline"),
		static(orderDisplay, "flex", "display", "flex"),
		static(orderDisplay, "inline-flex", "display", "inline-flex"),
		static(orderDisplay, "grid", "display", "grid"),
		static(orderDisplay, "inline-grid", "display", "inline-grid"),
		static(orderDisplay, "table", "display", "table"),
		static(orderDisplay, "contents", "display", "contents"),
		static(orderDisplay, "hidden", "display", "none"),

		static(orderFlex, "flex-1", "flex", "1 1 0%"),
		static(orderFlex, "flex-auto", "flex", "1 1 auto"),
		static(orderFlex, "flex-none", "flex", "none"),
		static(orderFlex, "grow", "flex-grow", "1"),
		static(orderFlex, "shrink-0", "flex-shrink", "0"),
		static(orderFlex, "flex-row", "flex-direction", "row"),
		static(orderFlex, "flex-row-reverse", "flex-direction", "row-reverse"),
		static(orderFlex, "flex-col", "flex-direction", "column"),
		static(orderFlex, "flex-col-reverse", "flex-direction", "column-reverse"),
		static(orderFlex, "flex-wrap", "flex-wrap", "wrap"),
		static(orderFlex, "flex-nowrap", "flex-wrap", "nowrap"),
		static(orderFlex, "items-start", "align-items", "flex-start"),
		static(orderFlex, "items-end", "align-items", "flex-end"),
		static(orderFlex, "items-center", "align-items", "center"),
		static(orderFlex, "items-baseline", "align-items", "baseline"),
		static(orderFlex, "items-stretch", "align-items", "stretch"),
		static(orderFlex, "justify-start", "justify-content", "flex-start"),
		static(orderFlex, "justify-end", "justify-content", "flex-end"),
		static(orderFlex, "justify-center", "justify-content", "center"),
		static(orderFlex, "justify-between", "justify-content", "space-between"),
		static(orderFlex, "justify-around", "justify-content", "space-around"),
		static(orderFlex, "justify-evenly", "justify-content", "space-evenly"),
		static(orderFlex, "self-auto", "align-self", "auto"),
		static(orderFlex, "self-start", "align-self", "flex-start"),
		static(orderFlex, "self-center", "align-self", "center"),
		static(orderFlex, "self-end", "align-self", "flex-end"),

		static(orderOverflow, "overflow-auto", "overflow", "auto"),
		static(orderOverflow, "overflow-hidden", "overflow", "hidden"),
		static(orderOverflow, "overflow-visible", "overflow", "visible"),
		static(orderOverflow, "overflow-scroll", "overflow", "scroll"),
		static(orderOverflow, "overflow-x-auto", "overflow-x", "auto"),
		static(orderOverflow, "overflow-y-auto", "overflow-y", "auto"),
		static(orderOverflow, "truncate", "overflow", "hidden", "text-overflow", "ellipsis", "white-space", "nowrap"),

		static(orderBorderWidth, "border-solid", "border-style", "solid"),
		static(orderBorderWidth, "border-dashed", "border-style", "dashed"),
		static(orderBorderWidth, "border-dotted", "border-style", "dotted"),
		static(orderBorderWidth, "border-none", "border-style", "none"),

		static(orderTextAlign, "text-left", "text-align", "left"),
		static(orderTextAlign, "text-center", "text-align", "center"),
		static(orderTextAlign, "text-right", "text-align", "right"),
		static(orderTextAlign, "text-justify", "text-align", "justify"),

		static(orderFontStyle, "italic", "font-style", "italic"),
		static(orderFontStyle, "not-italic", "font-style", "normal"),
		static(orderFontStyle, "uppercase", "text-transform", "uppercase"),
		static(orderFontStyle, "lowercase", "text-transform", "lowercase"),
		static(orderFontStyle, "capitalize", "text-transform", "capitalize"),
		static(orderFontStyle, "normal-case", "text-transform", "none"),
		static(orderFontStyle, "whitespace-normal", "white-space", "normal"),
		static(orderFontStyle, "whitespace-nowrap", "white-space", "nowrap"),
		static(orderFontStyle, "break-words", "overflow-wrap", "break-word"),

		static(orderDecoration, "underline", "text-decoration-line", "underline"),
		static(orderDecoration, "line-through", "text-decoration-line", "line-through"),
		static(orderDecoration, "no-underline", "text-decoration-line", "none"),

		static(orderEffects, "shadow-sm", "box-shadow", "0 1px 2px 0 rgb(0 0 0 / 0.05)"),
		static(orderEffects, "shadow", "box-shadow", "0 1px 3px 0 rgb(0 0 0 / 0.1), 0 1px 2px -1px rgb(0 0 0 / 0.1)"),
		static(orderEffects, "shadow-md", "box-shadow", "0 4px 6px -1px rgb(0 0 0 / 0.1), 0 2px 4px -2px rgb(0 0 0 / 0.1)"),
		static(orderEffects, "shadow-lg", "box-shadow", "0 10px 15px -3px rgb(0 0 0 / 0.1), 0 4px 6px -4px rgb(0 0 0 / 0.1)"),
		static(orderEffects, "shadow-none", "box-shadow", "0 0 #0000"),
		static(orderEffects, "transition",
			"transition-property", "color, background-color, border-color, text-decoration-color, fill, stroke, opacity, box-shadow, transform, filter, backdrop-filter",
			"transition-timing-function", "cubic-bezier(0.4, 0, 0.2, 1)",
			"transition-duration", "150ms"),

		static(orderInteractivity, "cursor-pointer", "cursor", "pointer"),
		static(orderInteractivity, "cursor-default", "cursor", "default"),
		static(orderInteractivity, "cursor-not-allowed", "cursor", "not-allowed"),
		static(orderInteractivity, "select-none", "user-select", "none"),
		static(orderInteractivity, "pointer-events-none", "pointer-events", "none"),
	}
}

func coreFamilies() []family {
	insetExtra := withEntries(fractions(), "auto", "auto", "full", "100%")
	sizeExtra := withEntries(fractions(), "auto", "auto", "full", "100%", "min", "min-content", "max", "max-content", "fit", "fit-content")
	colSpan := map[string]string{"full": "1 / -1"}
	for i := 1; i <= 12; i++ {
		colSpan[strconv.Itoa(i)] = fmt.Sprintf("span %d / span %d", i, i)
	}

	return []family{
		{prefix: "inset", category: CategorySpacing, extra: insetExtra, negative: true, build: decl("inset"), order: orderPosition},
		{prefix: "top", category: CategorySpacing, extra: insetExtra, negative: true, build: decl("top"), order: orderPosition},
		{prefix: "right", category: CategorySpacing, extra: insetExtra, negative: true, build: decl("right"), order: orderPosition},
		{prefix: "bottom", category: CategorySpacing, extra: insetExtra, negative: true, build: decl("bottom"), order: orderPosition},
		{prefix: "left", category: CategorySpacing, extra: insetExtra, negative: true, build: decl("left"), order: orderPosition},

		{prefix: "z", category: CategoryZIndex, negative: true, build: decl("z-index"), order: orderZIndex},

		{prefix: "m", category: CategorySpacing, extra: map[string]string{"auto": "auto"}, negative: true, build: decl("margin"), order: orderMargin},
		{prefix: "mx", category: CategorySpacing, extra: map[string]string{"auto": "auto"}, negative: true, build: decls("margin-left", "margin-right"), order: orderMargin},
		{prefix: "my", category: CategorySpacing, extra: map[string]string{"auto": "auto"}, negative: true, build: decls("margin-top", "margin-bottom"), order: orderMargin},
		{prefix: "mt", category: CategorySpacing, extra: map[string]string{"auto": "auto"}, negative: true, build: decl("margin-top"), order: orderMargin},
		{prefix: "mr", category: CategorySpacing, extra: map[string]string{"auto": "auto"}, negative: true, build: decl("margin-right"), order: orderMargin},
		{prefix: "mb", category: CategorySpacing, extra: map[string]string{"auto": "auto"}, negative: true, build: decl("margin-bottom"), order: orderMargin},
		{prefix: "ml", category: CategorySpacing, extra: map[string]string{"auto": "auto"}, negative: true, build: decl("margin-left"), order: orderMargin},

		{prefix: "w", category: CategorySpacing, extra: withEntries(sizeExtra, "screen", "100vw"), build: decl("width"), order: orderSizing},
		{prefix: "min-w", extra: map[string]string{"0": "0px", "full": "100%", "min": "min-content", "max": "max-content", "fit": "fit-content"}, build: decl("min-width"), order: orderSizing},
		{prefix: "max-w", extra: map[string]string{
			"none": "none", "xs": "20rem", "sm": "24rem", "md": "28rem", "lg": "32rem", "xl": "36rem",
			"2xl": "42rem", "3xl": "48rem", "4xl": "56rem", "5xl": "64rem", "6xl": "72rem", "7xl": "80rem",
			"full": "100%", "prose": "65ch",
		}, build: decl("max-width"), order: orderSizing},
		{prefix: "h", category: CategorySpacing, extra: withEntries(sizeExtra, "screen", "100vh"), build: decl("height"), order: orderSizing},
		{prefix: "min-h", extra: map[string]string{"0": "0px", "full": "100%", "screen": "100vh"}, build: decl("min-height"), order: orderSizing},

		{prefix: "gap", category: CategorySpacing, build: decl("gap"), order: orderGap},
		{prefix: "gap-x", category: CategorySpacing, build: decl("column-gap"), order: orderGap},
		{prefix: "gap-y", category: CategorySpacing, build: decl("row-gap"), order: orderGap},

		{prefix: "grid-cols", category: CategoryGridTemplateColumns, build: decl("grid-template-columns"), order: orderGrid},
		{prefix: "col-span", extra: colSpan, build: decl("grid-column"), order: orderGrid},

		{prefix: "rounded", category: CategoryBorderRadius, build: decl("border-radius"), order: orderRadius},
		{prefix: "rounded-t", category: CategoryBorderRadius, build: decls("border-top-left-radius", "border-top-right-radius"), order: orderRadius},
		{prefix: "rounded-r", category: CategoryBorderRadius, build: decls("border-top-right-radius", "border-bottom-right-radius"), order: orderRadius},
		{prefix: "rounded-b", category: CategoryBorderRadius, build: decls("border-bottom-right-radius", "border-bottom-left-radius"), order: orderRadius},
		{prefix: "rounded-l", category: CategoryBorderRadius, build: decls("border-top-left-radius", "border-bottom-left-radius"), order: orderRadius},

		{prefix: "border", category: CategoryBorderWidth, accepts: isLength, build: decl("border-width"), order: orderBorderWidth},
		{prefix: "border-t", category: CategoryBorderWidth, accepts: isLength, build: decl("border-top-width"), order: orderBorderWidth},
		{prefix: "border-r", category: CategoryBorderWidth, accepts: isLength, build: decl("border-right-width"), order: orderBorderWidth},
		{prefix: "border-b", category: CategoryBorderWidth, accepts: isLength, build: decl("border-bottom-width"), order: orderBorderWidth},
		{prefix: "border-l", category: CategoryBorderWidth, accepts: isLength, build: decl("border-left-width"), order: orderBorderWidth},
		{prefix: "border", category: CategoryColors, color: true, accepts: isColor, build: decl("border-color"), order: orderBorderColor},

		{prefix: "bg", category: CategoryColors, color: true, build: decl("background-color"), order: orderBackground},

		{prefix: "p", category: CategorySpacing, build: decl("padding"), order: orderPadding},
		{prefix: "px", category: CategorySpacing, build: decls("padding-left", "padding-right"), order: orderPadding},
		{prefix: "py", category: CategorySpacing, build: decls("padding-top", "padding-bottom"), order: orderPadding},
		{prefix: "pt", category: CategorySpacing, build: decl("padding-top"), order: orderPadding},
		{prefix: "pr", category: CategorySpacing, build: decl("padding-right"), order: orderPadding},
		{prefix: "pb", category: CategorySpacing, build: decl("padding-bottom"), order: orderPadding},
		{prefix: "pl", category: CategorySpacing, build: decl("padding-left"), order: orderPadding},

		{prefix: "text", category: CategoryFontSize, accepts: isLength, order: orderFontSize},
		{prefix: "font", category: CategoryFontWeight, build: decl("font-weight"), order: orderFontWeight},
		{prefix: "text", category: CategoryColors, color: true, accepts: isColor, build: decl("color"), order: orderTextColor},

		{prefix: "opacity", category: CategoryOpacity, build: decl("opacity"), order: orderOpacity},
	}
}

// variantKind says how a variant changes the emitted rule.
type variantKind int

const (
	variantPseudo variantKind = iota
	variantParent
	variantMedia
)

type variant struct {
	kind   variantKind
	value  string // pseudo-class suffix, parent selector, or media query
	rank   int
	screen int // 1-based breakpoint index for screen variants
}

var pseudoVariants = []struct{ name, selector string }{
	{"first", ":first-child"},
	{"last", ":last-child"},
	{"odd", ":nth-child(odd)"},
	{"even", ":nth-child(even)"},
	{"visited", ":visited"},
	{"focus-within", ":focus-within"},
	{"hover", ":hover"},
	{"focus", ":focus"},
	{"focus-visible", ":focus-visible"},
	{"active", ":active"},
	{"disabled", ":disabled"},
}

// Registry resolves class names to rules against a theme and a plugin set.
type Registry struct {
	theme    *Theme
	statics  map[string]Utility
	families []family
	variants map[string]variant
	screens  []string
	prefixes map[string]bool
}

// NewRegistry builds the utility set for a theme. Plugin utilities are added after the core set.
func NewRegistry(theme *Theme, plugins []Plugin) *Registry {
	r := &Registry{
		theme:    theme,
		statics:  make(map[string]Utility),
		families: coreFamilies(),
		variants: make(map[string]variant),
		prefixes: make(map[string]bool),
	}

	for _, u := range coreStatics() {
		r.statics[u.Name] = u
	}
	for _, p := range plugins {
		for _, u := range p.Utilities(theme) {
			if u.order == 0 {
				u.order = orderPlugins
			}
			r.statics[u.Name] = u
		}
	}

	for i, pv := range pseudoVariants {
		r.variants[pv.name] = variant{kind: variantPseudo, value: pv.selector, rank: i + 1}
	}
	r.variants["group-hover"] = variant{kind: variantParent, value: ".group:hover ", rank: len(pseudoVariants) + 1}
	r.variants["dark"] = variant{kind: variantMedia, value: "(prefers-color-scheme: dark)", rank: 1}

	r.screens = theme.Screens()
	for i, name := range r.screens {
		minWidth, _ := theme.Lookup(CategoryScreens, name)
		r.variants[name] = variant{kind: variantMedia, value: "(min-width: " + minWidth + ")", rank: (i + 1) * 2, screen: i + 1}
	}

	for name := range r.statics {
		r.prefixes[firstSegment(name)] = true
	}
	for _, f := range r.families {
		r.prefixes[firstSegment(f.prefix)] = true
	}

	return r
}

// fontSize pairs a font size with the line height configured for the same key.
func (r *Registry) fontSize(key, v string) []Declaration {
	out := []Declaration{{"font-size", v}}
	if lh, ok := r.theme.Lookup(categoryLineHeight, key); ok {
		out = append(out, Declaration{"line-height", lh})
	}
	return out
}

func firstSegment(name string) string {
	if i := strings.Index(name, "-"); i > 0 {
		return name[:i]
	}
	return name
}

// splitVariants splits "md:hover:bg-[a:b]" into its variants and base, ignoring colons inside brackets.
func splitVariants(class string) ([]string, string) {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(class); i++ {
		switch class[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 {
				parts = append(parts, class[start:i])
				start = i + 1
			}
		}
	}
	return parts, class[start:]
}

// Resolve returns the rules a class produces, or false when it is not a utility.
func (r *Registry) Resolve(class string) ([]Rule, bool) {
	if class == "" {
		return nil, false
	}

	variantNames, base := splitVariants(class)
	util, ok := r.resolveBase(base)
	if !ok {
		return nil, false
	}

	var (
		parent      string
		pseudo      string
		media       []string
		mediaRank   int
		variantRank int
		screen      int
	)
	for _, name := range variantNames {
		v, ok := r.variants[name]
		if !ok {
			return nil, false
		}
		switch v.kind {
		case variantPseudo:
			pseudo += v.value
			variantRank = max(variantRank, v.rank)
		case variantParent:
			parent = v.value + parent
			variantRank = max(variantRank, v.rank)
		case variantMedia:
			media = append(media, v.value)
			mediaRank += v.rank
			screen = max(screen, v.screen)
		}
	}

	selector := parent + "." + escapeClass(class) + pseudo + util.Suffix
	rules := []Rule{{
		Class:        class,
		Selector:     selector,
		Media:        strings.Join(media, " and "),
		Layer:        util.Layer,
		Declarations: util.Declarations,
		mediaRank:    mediaRank,
		variantRank:  variantRank,
		order:        util.order,
	}}

	// Breakpoint steps start at the largest screen variant, so sm:container steps from sm up.
	if util.Screens != nil {
		for i, name := range r.screens {
			if i+1 < screen {
				continue
			}
			minWidth, _ := r.theme.Lookup(CategoryScreens, name)
			query := "(min-width: " + minWidth + ")"
			stepMedia := media
			if !slices.Contains(media, query) {
				stepMedia = append(slices.Clone(media), query)
			}
			rules = append(rules, Rule{
				Class:        class,
				Selector:     selector,
				Media:        strings.Join(stepMedia, " and "),
				Layer:        util.Layer,
				Declarations: util.Screens(minWidth),
				mediaRank:    mediaRank + (i+1)*2,
				variantRank:  variantRank,
				order:        util.order,
			})
		}
	}

	return rules, true
}

// resolveBase resolves a class without variants.
func (r *Registry) resolveBase(name string) (Utility, bool) {
	important := strings.HasPrefix(name, "!")
	body := strings.TrimPrefix(name, "!")

	util, ok := r.lookupUtility(body)
	if !ok {
		return Utility{}, false
	}

	if important {
		marked := make([]Declaration, len(util.Declarations))
		for i, d := range util.Declarations {
			marked[i] = Declaration{d.Property, d.Value + " !important"}
		}
		util.Declarations = marked
	}
	return util, true
}

func (r *Registry) lookupUtility(name string) (Utility, bool) {
	if u, ok := r.statics[name]; ok {
		return u, true
	}

	negative := strings.HasPrefix(name, "-")
	body := strings.TrimPrefix(name, "-")

	for _, f := range r.families {
		var key string
		switch {
		case body == f.prefix:
			key = "DEFAULT"
		case strings.HasPrefix(body, f.prefix+"-"):
			key = body[len(f.prefix)+1:]
		default:
			continue
		}
		if negative && !f.negative {
			continue
		}

		value, ok := r.familyValue(f, key, negative)
		if !ok {
			continue
		}

		var declarations []Declaration
		if f.category == CategoryFontSize {
			declarations = r.fontSize(key, value)
		} else {
			declarations = f.build(value)
		}
		return Utility{
			Name:         name,
			Layer:        LayerUtilities,
			Declarations: declarations,
			order:        f.order,
		}, true
	}

	return Utility{}, false
}

func (r *Registry) familyValue(f family, key string, negative bool) (string, bool) {
	if v, ok := arbitraryValue(key); ok {
		if f.accepts != nil && !f.accepts(v) {
			return "", false
		}
		if negative {
			return negate(v), true
		}
		return v, true
	}

	if f.category != "" {
		if v, ok := r.theme.Lookup(f.category, key); ok {
			if negative {
				return negate(v), true
			}
			return v, true
		}
	}

	if f.color && !negative {
		if i := strings.LastIndex(key, "/"); i > 0 {
			if v, ok := r.colorWithAlpha(f, key[:i], key[i+1:]); ok {
				return v, true
			}
		}
	}

	if v, ok := f.extra[key]; ok && !negative {
		return v, true
	}

	return "", false
}

func (r *Registry) colorWithAlpha(f family, colorKey, alphaKey string) (string, bool) {
	color, ok := arbitraryValue(colorKey)
	if !ok {
		color, ok = r.theme.Lookup(f.category, colorKey)
		if !ok {
			return "", false
		}
	}

	alpha, ok := arbitraryValue(alphaKey)
	if !ok {
		alpha, ok = r.theme.Lookup(CategoryOpacity, alphaKey)
		if !ok {
			return "", false
		}
	}

	red, green, blue, ok := parseHexColor(color)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("rgb(%d %d %d / %s)", red, green, blue, alpha), true
}

// arbitraryValue unwraps "[...]" values; underscores stand for spaces.
func arbitraryValue(key string) (string, bool) {
	if len(key) < 3 || key[0] != '[' || key[len(key)-1] != ']' {
		return "", false
	}
	return strings.ReplaceAll(key[1:len(key)-1], "_", " "), true
}

func negate(v string) string {
	if strings.HasPrefix(v, "-") {
		return v[1:]
	}
	return "-" + v
}

func isColor(v string) bool {
	switch {
	case strings.HasPrefix(v, "#"),
		strings.HasPrefix(v, "rgb"),
		strings.HasPrefix(v, "hsl"),
		strings.HasPrefix(v, "color-mix("),
		strings.HasPrefix(v, "var(--color"):
		return true
	}
	return false
}

func isLength(v string) bool {
	return !isColor(v)
}

func parseHexColor(s string) (int, int, int, bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(n >> 16 & 0xff), int(n >> 8 & 0xff), int(n & 0xff), true
}

// escapeClass escapes a class name for use in a selector.
func escapeClass(class string) string {
	var b strings.Builder
	for i, c := range class {
		switch {
		case i == 0 && c >= '0' && c <= '9':
			fmt.Fprintf(&b, "\\%x ", c)
		case c == '-' || c == '_' || c >= 0x80,
			c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteRune(c)
		default:
			b.WriteByte('\\')
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Known reports whether the class resolves.
func (r *Registry) Known(class string) bool {
	_, ok := r.Resolve(class)
	return ok
}

// LooksLikeUtility reports whether the class starts like a utility family, i.e. an
// unresolved class is probably a misspelt utility rather than a custom class.
func (r *Registry) LooksLikeUtility(class string) bool {
	_, base := splitVariants(class)
	base = strings.TrimPrefix(strings.TrimPrefix(base, "!"), "-")
	return r.prefixes[firstSegment(base)]
}

// Declarations returns the declarations of a plain utility, as used by @apply.
func (r *Registry) Declarations(class string) ([]Declaration, error) {
	variants, _ := splitVariants(class)
	if len(variants) > 0 {
		return nil, fmt.Errorf("cannot apply %q: variants are not supported", class)
	}
	rules, ok := r.Resolve(class)
	if !ok {
		return nil, fmt.Errorf("cannot apply %q: unknown utility", class)
	}
	return rules[0].Declarations, nil
}

// Universe lists every non-arbitrary class without variants that the registry can produce.
func (r *Registry) Universe() []string {
	seen := make(map[string]bool)
	for name := range r.statics {
		seen[name] = true
	}

	for _, f := range r.families {
		if f.category != "" {
			for _, key := range r.theme.Keys(f.category) {
				name := f.prefix
				if key != "DEFAULT" {
					name += "-" + key
				}
				seen[name] = true
				if f.negative {
					seen["-"+name] = true
				}
			}
		}
		for key := range f.extra {
			seen[f.prefix+"-"+key] = true
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SortRules orders rules by layer, media, variant, utility group and class name.
func SortRules(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if a.Layer != b.Layer {
			return a.Layer < b.Layer
		}
		if a.mediaRank != b.mediaRank {
			return a.mediaRank < b.mediaRank
		}
		if a.variantRank != b.variantRank {
			return a.variantRank < b.variantRank
		}
		if a.order != b.order {
			return a.order < b.order
		}
		return a.Class < b.Class
	})
}
