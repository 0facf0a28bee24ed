// Package tailgen generates utility-class stylesheets from a declarative configuration.
//
// A configuration record names the content files to scan for class names, a
// theme extension merged into the base design tokens, the plugins to load, and
// a safelist of patterns whose matching classes are always emitted:
//
//	content:
//	  - "./{assets,views}/**/*.{html,js}"
//	theme:
//	  extend: {}
//	plugins:
//	  - tailwind-fontawesome
//	safelist:
//	  - pattern: "icon-(person-running)"
//	  - pattern: "text-(green|rose)-500"
//
// # Building
//
//	cfg, err := tailgen.LoadConfig(".tailgen.yaml")
//	result, err := tailgen.Build(ctx, tailgen.BuildOptions{
//		Config: cfg,
//		Input:  "assets/tailwind.css",
//		Output: "assets/output.css",
//	})
//
// # Linting
//
//	result, err := tailgen.Lint(ctx, tailgen.LintConfig{Config: cfg})
//
// # CLI Tool
//
//	go install github.com/yacobolo/tailgen/cmd/tailgen@latest
package tailgen
