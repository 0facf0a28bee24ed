package tailgen

import (
	"fmt"
	"io"
	"sort"
)

// VerboseReporter handles detailed statistics
type VerboseReporter struct {
	w         io.Writer
	useColors bool
}

// NewVerboseReporter creates a verbose reporter
func NewVerboseReporter(w io.Writer, useColors bool) *VerboseReporter {
	return &VerboseReporter{
		w:         w,
		useColors: useColors,
	}
}

// PrintStatistics outputs detailed linting statistics
func (r *VerboseReporter) PrintStatistics(result LintResult) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Class Usage Statistics", r.useColors))
	fmt.Fprintln(r.w, "----------------------")

	fmt.Fprintf(r.w, "Files Scanned:     %d\n", result.FilesScanned)
	fmt.Fprintf(r.w, "Class References:  %d\n", result.ClassesFound)
	fmt.Fprintf(r.w, "Utilities:         %d\n", result.UtilityRefs)
	fmt.Fprintf(r.w, "Custom Classes:    %d\n", result.CustomRefs)
	layers := make([]string, 0, len(result.CustomByLayer))
	for layer := range result.CustomByLayer {
		layers = append(layers, layer)
	}
	sort.Strings(layers)
	for _, layer := range layers {
		name := "unlayered"
		if layer != "" {
			name = "@layer " + layer
		}
		fmt.Fprintf(r.w, "  %-16s %d\n", name+":", result.CustomByLayer[layer])
	}
	fmt.Fprintf(r.w, "Safelisted:        %d\n", result.SafelistedRefs)
	fmt.Fprintf(r.w, "Unknown:           %d\n", result.UnknownRefs)
}

// PrintCoverage shows the share of references that resolve as a progress bar
func (r *VerboseReporter) PrintCoverage(result LintResult) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Coverage", r.useColors))
	fmt.Fprintln(r.w, "--------")
	printProgressBar(r.w, result.CoverPercentage)
}

// PrintTopClasses lists the most frequently written classes
func (r *VerboseReporter) PrintTopClasses(result LintResult) {
	if len(result.TopClasses) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleGreen, "Most Used Classes", r.useColors))
	fmt.Fprintln(r.w, "-----------------")

	for i, u := range result.TopClasses {
		if i >= maxTopClasses {
			break
		}
		fmt.Fprintf(r.w, "%d. %q - %s (%s)\n",
			i+1, u.ClassName, pluralizeCount(u.Occurrences, "occurrence", "occurrences"), u.Kind)
	}
}

// PrintWarnings shows linter warnings
func (r *VerboseReporter) PrintWarnings(result LintResult) {
	if len(result.Warnings) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleYellow, "Warnings", r.useColors))
	fmt.Fprintln(r.w, "--------")

	for _, warning := range result.Warnings {
		fmt.Fprintf(r.w, "• %s\n", warning)
	}
}

// printProgressBar prints a visual progress bar
func printProgressBar(w io.Writer, percentage float64) {
	barWidth := 20
	filled := int(percentage / 100 * float64(barWidth))

	fmt.Fprint(w, "[")
	for i := 0; i < barWidth; i++ {
		if i < filled {
			fmt.Fprint(w, "█")
		} else {
			fmt.Fprint(w, "░")
		}
	}
	fmt.Fprintf(w, "] %.1f%%\n", percentage)
}
