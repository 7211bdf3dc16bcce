package ui

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

func PrintL1Title(format string, a ...interface{}) {
	style := pterm.NewStyle(pterm.BgCyan, pterm.FgBlack, pterm.Bold)

	text := fmt.Sprintf(format, a...)

	paddedText := fmt.Sprintf(" %s   ", text)

	style.Println(paddedText)
}

func PrintL2Title(format string, a ...interface{}) {
	style := pterm.NewStyle(pterm.FgCyan, pterm.Bold)

	text := fmt.Sprintf(format, a...)

	paddedText := fmt.Sprintf("# %s   ", text)

	style.Println(paddedText)
}

// Swatch renders a colored marker for a "#RRGGBB" color. Anything else
// renders as a blank of the same width.
func Swatch(hex string) string {
	var r, g, b uint8
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return " "
	}
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return " "
	}
	return pterm.NewRGB(r, g, b).Sprint("●")
}

// PrintDivider closes a finished action.
func PrintDivider() {
	pterm.Println(pterm.Green(strings.Repeat("-", 40)))
}
