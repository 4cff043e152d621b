package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/scipopt/stairheur/pkg/detection"
	"github.com/scipopt/stairheur/pkg/model"
)

// Color palette.
var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleTableHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printStats prints matrix dimensions and cache status on a single line.
func printStats(nConss, nVars int, cached bool) {
	var parts []string
	if nConss > 0 {
		parts = append(parts, fmt.Sprintf("%d conss", nConss))
	}
	if nVars > 0 {
		parts = append(parts, fmt.Sprintf("%d vars", nVars))
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}
	parts = append(parts, statusStyle.Render(status))

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line)
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}

// printDetectionSummary prints the outcome of a detection run: status line,
// search statistics, and a per-block table for the primary decomposition.
func printDetectionSummary(p *model.Problem, res *detection.Result) {
	switch res.Status {
	case detection.StatusSuccess:
		printSuccess("Staircase structure found")
	case detection.StatusDidNotFind:
		printWarning("No staircase structure found")
		printDetail("converged=%v iterations=%d tau=%d", res.Converged, res.Iterations, res.Tau)
		return
	default:
		printWarning("Detection did not run (no strategy enabled)")
		return
	}

	printDetail("%d iterations · converged=%v · tau=%d · %d decomposition(s)",
		res.Iterations, res.Converged, res.Tau, len(res.Decompositions))

	if len(res.Decompositions) == 0 {
		return
	}
	printNewline()
	printDecomposition(p, res.Decompositions[0])
}

// printDecomposition prints one decomposition as a block table plus the
// linking variable list.
func printDecomposition(p *model.Problem, dec *detection.Decomposition) {
	fmt.Println(StyleTitle.Render(fmt.Sprintf("Decomposition %s (%s, %d blocks)",
		shortID(dec.ID), dec.Strategy, dec.NBlocks)))

	header := fmt.Sprintf("  %-7s %8s %8s", "block", "conss", "vars")
	fmt.Println(styleTableHeader.Render(header))
	for k, b := range dec.Blocks {
		fmt.Printf("  %-7d %8d %8d\n", k+1, len(b.Conss), len(b.Vars))
	}

	if len(dec.LinkingVars) == 0 {
		printDetail("no linking variables")
		return
	}
	names := make([]string, 0, len(dec.LinkingVars))
	for _, v := range dec.LinkingVars {
		if name, err := p.VarName(v); err == nil {
			names = append(names, name)
		}
	}
	printDetail("linking: %s", strings.Join(names, ", "))
}

// shortID abbreviates a UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
