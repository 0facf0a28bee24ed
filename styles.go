package tailgen

import "github.com/charmbracelet/lipgloss"

// Terminal styles shared by the reporters and the CLI. Lipgloss degrades colors to what the terminal supports.
var (
	StyleCyan   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // locations, section headers
	StyleRed    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")) // errors, failed builds
	StyleYellow = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")) // warnings, markers
	StyleGreen  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")) // finished builds, most used classes
	StyleGray   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // linter names, hints, fixes
)

// RenderStyle renders text with style, or returns it unchanged when colors are off.
func RenderStyle(style lipgloss.Style, text string, useColors bool) string {
	if !useColors {
		return text
	}
	return style.Render(text)
}
