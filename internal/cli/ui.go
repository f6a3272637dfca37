package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan  = lipgloss.Color("36")  // Teal - headings
	colorGreen = lipgloss.Color("35")  // Green - pass
	colorRed   = lipgloss.Color("167") // Soft red - fail
	colorWhite = lipgloss.Color("255") // Bright white - values
	colorGray  = lipgloss.Color("245") // Gray - labels
	colorDim   = lipgloss.Color("240") // Dim gray - borders
)

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for passing results.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleError for failing results.
	StyleError = lipgloss.NewStyle().Foreground(colorRed)

	styleLabel = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
)

// printKeyValue prints a formatted key-value pair.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintf(w, "  %s %s\n", styleLabel.Render(key+":"), StyleValue.Render(value))
}

// verdict renders a pass/fail marker.
func verdict(ok bool) string {
	if ok {
		return StyleSuccess.Render(iconSuccess + " pass")
	}
	return StyleError.Render(iconError + " fail")
}
