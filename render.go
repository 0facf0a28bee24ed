package tailgen

import (
	"strings"
)

// RenderRules writes rules as CSS. Consecutive rules sharing a media query share one @media block.
func RenderRules(rules []Rule, minify bool) string {
	var b strings.Builder

	for i := 0; i < len(rules); {
		media := rules[i].Media
		j := i
		for j < len(rules) && rules[j].Media == media {
			j++
		}

		if media == "" {
			for _, rule := range rules[i:j] {
				writeRule(&b, rule, "", minify)
			}
		} else {
			if minify {
				b.WriteString("@media " + media + "{")
			} else {
				b.WriteString("@media " + media + " {\n")
			}
			for _, rule := range rules[i:j] {
				writeRule(&b, rule, "  ", minify)
			}
			if minify {
				b.WriteString("}")
			} else {
				b.WriteString("}\n")
			}
		}

		i = j
	}

	return b.String()
}

func writeRule(b *strings.Builder, rule Rule, indent string, minify bool) {
	if minify {
		b.WriteString(rule.Selector + "{")
		for i, d := range rule.Declarations {
			if i > 0 {
				b.WriteByte(';')
			}
			b.WriteString(d.Property + ":" + d.Value)
		}
		b.WriteString("}")
		return
	}

	b.WriteString(indent + rule.Selector + " {\n")
	for _, d := range rule.Declarations {
		b.WriteString(indent + "  " + d.Property + ": " + d.Value + ";\n")
	}
	b.WriteString(indent + "}\n")
}

// preflight is the base layer: a small reset applied before components and utilities.
var preflight = []Rule{
	{Selector: "*, ::before, ::after", Declarations: []Declaration{
		{"box-sizing", "border-box"},
		{"border-width", "0"},
		{"border-style", "solid"},
		{"border-color", "#e5e7eb"},
	}},
	{Selector: "html", Declarations: []Declaration{
		{"line-height", "1.5"},
		{"-webkit-text-size-adjust", "100%"},
		{"tab-size", "4"},
		{"font-family", "ui-sans-serif, system-ui, sans-serif"},
	}},
	{Selector: "body", Declarations: []Declaration{
		{"margin", "0"},
		{"line-height", "inherit"},
	}},
	{Selector: "h1, h2, h3, h4, h5, h6", Declarations: []Declaration{
		{"font-size", "inherit"},
		{"font-weight", "inherit"},
	}},
	{Selector: "a", Declarations: []Declaration{
		{"color", "inherit"},
		{"text-decoration", "inherit"},
	}},
	{Selector: "blockquote, dl, dd, h1, h2, h3, h4, h5, h6, hr, figure, p, pre", Declarations: []Declaration{
		{"margin", "0"},
	}},
	{Selector: "ol, ul, menu", Declarations: []Declaration{
		{"list-style", "none"},
		{"margin", "0"},
		{"padding", "0"},
	}},
	{Selector: "img, svg, video, canvas, audio, iframe, embed, object", Declarations: []Declaration{
		{"display", "block"},
		{"vertical-align", "middle"},
	}},
	{Selector: "img, video", Declarations: []Declaration{
		{"max-width", "100%"},
		{"height", "auto"},
	}},
	{Selector: "button, input, optgroup, select, textarea", Declarations: []Declaration{
		{"font-family", "inherit"},
		{"font-size", "100%"},
		{"color", "inherit"},
		{"margin", "0"},
		{"padding", "0"},
	}},
	{Selector: "button, [role=\"button\"]", Declarations: []Declaration{
		{"cursor", "pointer"},
	}},
	{Selector: "[hidden]", Declarations: []Declaration{
		{"display", "none"},
	}},
}
