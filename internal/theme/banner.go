package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"
)

// Banner renders text as ascii art with a vertical gradient.
func Banner(text string) string {
	lines := figure.NewFigure(text, "small", true).Slicify()
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}

	colors := Gradient(ColorPrimary, ColorSecondary, len(lines))
	var b strings.Builder
	for i, line := range lines {
		style := SelectedStyle.Foreground(lipgloss.Color(colors[i]))
		b.WriteString(style.Render(line))
		if i < len(lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
