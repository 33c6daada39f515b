package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// glyphs are 5 rows tall; every row of a glyph has the same width
var glyphs = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"   ", " █ ", "   ", " █ ", "   "},
}

// renderBigClock draws text (digits and colons) as block glyphs
func renderBigClock(text, color string) string {
	var rows [5]strings.Builder
	for _, char := range text {
		glyph, ok := glyphs[char]
		if !ok {
			continue
		}
		for i := range rows {
			rows[i].WriteString(glyph[i])
			rows[i].WriteString(" ")
		}
	}

	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Bold(true)

	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = clockStyle.Render(strings.TrimRight(rows[i].String(), " "))
	}
	return strings.Join(lines, "\n")
}
