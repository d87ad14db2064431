package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/spoolworks/labelpress/layout"
)

var (
	colorCyan   = lipgloss.Color("36")  // primary actions
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // advisory findings
	colorRed    = lipgloss.Color("167") // blocking findings, errors
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // secondary text
	colorDim    = lipgloss.Color("240") // muted text
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleSuccess  = lipgloss.NewStyle().Foreground(colorGreen)
	styleAdvisory = lipgloss.NewStyle().Foreground(colorYellow)
	styleBlocking = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	styleValue    = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber   = lipgloss.NewStyle().Foreground(colorCyan)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleLabel    = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess  = "✓"
	iconAdvisory = "!"
	iconBlocking = "✗"
	iconPrompt   = "▸"
)

// formatFinding renders one checker finding as a single styled line.
func formatFinding(f layout.Finding) string {
	icon := styleAdvisory.Render(iconAdvisory)
	if f.Severity == layout.SeverityBlocking {
		icon = styleBlocking.Render(iconBlocking)
	}
	where := f.ElementID
	if where == "" {
		where = "layout"
	}
	if f.Field != "" {
		where += "." + f.Field
	}
	return fmt.Sprintf("%s %s %s %s",
		icon,
		styleValue.Render(where),
		styleDim.Render(f.Code),
		f.Message)
}

// formatMm renders a millimeter value with the unit dimmed.
func formatMm(v float64) string {
	return styleNumber.Render(fmt.Sprintf("%.3g", v)) + styleDim.Render(" mm")
}
