package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Gradient interpolates steps colors from start to end in HCL space, which
// keeps the perceived lightness even across the ramp. Invalid hex input
// falls back to the default primary and secondary colors.
func Gradient(start, end string, steps int) []string {
	if steps < 2 {
		steps = 2
	}

	from, err := colorful.Hex(start)
	if err != nil {
		from, _ = colorful.Hex(ColorPrimary)
	}
	to, err := colorful.Hex(end)
	if err != nil {
		to, _ = colorful.Hex(ColorSecondary)
	}

	out := make([]string, steps)
	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps-1)
		out[i] = strings.ToUpper(from.BlendHcl(to, t).Clamped().Hex())
	}
	// exact endpoints, the hcl round trip can be off by one
	out[0] = strings.ToUpper(from.Hex())
	out[steps-1] = strings.ToUpper(to.Hex())
	return out
}

// Lightness returns the L component of the color in the 0..1 range.
func Lightness(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	l, _, _ := c.Hcl()
	return l
}

// GradientText colors each rune of text along gradient.
func GradientText(text string, gradient []string, bold bool) string {
	runes := []rune(text)
	if len(runes) == 0 || len(gradient) == 0 {
		return text
	}

	var b strings.Builder
	for i, r := range runes {
		idx := 0
		if len(runes) > 1 {
			idx = i * (len(gradient) - 1) / (len(runes) - 1)
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradient[idx])).Bold(bold)
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}
