package tailgen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Plugin contributes utilities to the registry.
type Plugin interface {
	Name() string
	Utilities(theme *Theme) []Utility
}

var (
	pluginsMu sync.RWMutex
	plugins   = map[string]Plugin{}
)

func init() {
	RegisterPlugin(fontAwesomePlugin{})
	RegisterPlugin(lineClampPlugin{})
}

// RegisterPlugin makes a plugin available under its name. A later registration replaces an earlier one.
func RegisterPlugin(p Plugin) {
	pluginsMu.Lock()
	defer pluginsMu.Unlock()
	plugins[normalizePluginName(p.Name())] = p
}

// LookupPlugin resolves a plugin identifier. Scoped package names
// ("@tailwindcss/line-clamp") resolve by their last path segment.
func LookupPlugin(name string) (Plugin, error) {
	pluginsMu.RLock()
	defer pluginsMu.RUnlock()

	p, ok := plugins[normalizePluginName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlugin, name)
	}
	return p, nil
}

// RegisteredPlugins returns the sorted names of all registered plugins.
func RegisteredPlugins() []string {
	pluginsMu.RLock()
	defer pluginsMu.RUnlock()

	names := make([]string, 0, len(plugins))
	for name := range plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizePluginName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// fontAwesomeGlyphs maps icon names to Font Awesome 6 code points.
var fontAwesomeGlyphs = map[string]string{
	"bicycle":              "f206",
	"calendar":             "f133",
	"chart-line":           "f201",
	"check":                "f00c",
	"circle-info":          "f05a",
	"clock":                "f017",
	"download":             "f019",
	"gear":                 "f013",
	"heart":                "f004",
	"house":                "f015",
	"magnifying-glass":     "f002",
	"map":                  "f279",
	"minus":                "f068",
	"pen":                  "f304",
	"person-biking":        "f84a",
	"person-hiking":        "f6ec",
	"person-running":       "f70c",
	"person-skiing":        "f7c9",
	"person-swimming":      "f5c4",
	"person-walking":       "f554",
	"plus":                 "f067",
	"right-from-bracket":   "f2f5",
	"route":                "f4d7",
	"star":                 "f005",
	"trash":                "f1f8",
	"triangle-exclamation": "f071",
	"upload":               "f093",
	"user":                 "f007",
	"xmark":                "f00d",
}

// fontAwesomePlugin emits icon-<name> classes rendering the glyph in a ::before pseudo-element.
type fontAwesomePlugin struct{}

func (fontAwesomePlugin) Name() string { return "tailwind-fontawesome" }

func (fontAwesomePlugin) Utilities(_ *Theme) []Utility {
	out := make([]Utility, 0, len(fontAwesomeGlyphs))
	for name, code := range fontAwesomeGlyphs {
		out = append(out, Utility{
			Name:   "icon-" + name,
			Layer:  LayerUtilities,
			Suffix: "::before",
			Declarations: []Declaration{
				{"content", `"\` + code + `"`},
				{"font-family", `"Font Awesome 6 Free"`},
				{"font-weight", "900"},
				{"font-style", "normal"},
				{"display", "inline-block"},
			},
		})
	}
	return out
}

// lineClampPlugin emits line-clamp-1 through line-clamp-6 and line-clamp-none.
type lineClampPlugin struct{}

func (lineClampPlugin) Name() string { return "line-clamp" }

func (lineClampPlugin) Utilities(_ *Theme) []Utility {
	out := make([]Utility, 0, 7)
	for i := 1; i <= 6; i++ {
		out = append(out, Utility{
			Name:  "line-clamp-" + strconv.Itoa(i),
			Layer: LayerUtilities,
			Declarations: []Declaration{
				{"overflow", "hidden"},
				{"display", "-webkit-box"},
				{"-webkit-box-orient", "vertical"},
				{"-webkit-line-clamp", strconv.Itoa(i)},
			},
		})
	}
	out = append(out, Utility{
		Name:  "line-clamp-none",
		Layer: LayerUtilities,
		Declarations: []Declaration{
			{"overflow", "visible"},
			{"display", "block"},
			{"-webkit-box-orient", "horizontal"},
			{"-webkit-line-clamp", "none"},
		},
	})
	return out
}
