// Package theme holds the console look: message styles, headers, boxes and
// gradients shared by the commands and the track browser.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	ColorPrimary   = "#8BA4E8"
	ColorSecondary = "#E8A4C8"
	ColorAccent    = "#B8A8E8"
	ColorDim       = "#6272A4"
	ColorSuccess   = "#50FA7B"
	ColorError     = "#FF5555"
	ColorWarning   = "#F1FA8C"
	ColorInfo      = "#8BE9FD"
	ColorText      = "#F8F8F2"
)

var (
	SuccessStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	ErrorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Bold(true)
	WarningStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
	InfoStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorInfo))
	PlayingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondary)).Bold(true)
	DownloadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent))
	DimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDim))
	TextStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorText))
	NumberStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
	SelectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimary)).Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorPrimary)).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color(ColorDim))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorAccent)).
			Padding(0, 1)
)

func Success(msg string) string     { return SuccessStyle.Render("✓ " + msg) }
func Error(msg string) string       { return ErrorStyle.Render("✗ " + msg) }
func Warning(msg string) string     { return WarningStyle.Render("! " + msg) }
func Info(msg string) string        { return InfoStyle.Render("ℹ " + msg) }
func Playing(msg string) string     { return PlayingStyle.Render("▶ " + msg) }
func Downloading(msg string) string { return DownloadingStyle.Render("↓ " + msg) }

func Header(title string) string {
	return HeaderStyle.Render(strings.ToUpper(title))
}

func Box(content string) string {
	return BoxStyle.Render(content)
}

// KeyValue renders an aligned "label: value" line for detail views.
func KeyValue(label, value string, width int) string {
	if pad := width - lipgloss.Width(label); pad > 0 {
		label += strings.Repeat(" ", pad)
	}
	return DimStyle.Render(label) + "  " + TextStyle.Render(value)
}
