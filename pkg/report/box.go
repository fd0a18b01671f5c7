// Package report renders run results for terminals and for markdown files.
package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Box builds a box containing the provided lines and returns it as a string.
// Lines are left-aligned with single-space padding on each side. Multi-width
// runes (emoji, CJK, etc.) are accounted for so the borders stay aligned.
func Box(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	trimmed := make([]string, len(lines))
	maxWidth := 0
	for i, line := range lines {
		trimmed[i] = strings.TrimRight(line, " ")
		if w := runewidth.StringWidth(trimmed[i]); w > maxWidth {
			maxWidth = w
		}
	}

	innerWidth := maxWidth + 2
	border := strings.Repeat("─", innerWidth)

	var sb strings.Builder
	sb.WriteString("┌" + border + "┐\n")
	for _, line := range trimmed {
		fill := maxWidth - runewidth.StringWidth(line)
		if fill < 0 {
			fill = 0
		}
		sb.WriteString("│ " + line + strings.Repeat(" ", fill) + " │\n")
	}
	sb.WriteString("└" + border + "┘\n")
	return sb.String()
}

// Truncate shortens value to a display width, appending "..." when cut.
func Truncate(value string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

// padRight pads s with spaces to a display width.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}
