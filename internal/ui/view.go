package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"karolbroda.com/moosic/internal/theme"
	"karolbroda.com/moosic/internal/track"
)

// rows taken by the header, status and help lines
const chromeHeight = 6

var pulseColors = theme.Gradient(theme.ColorSecondary, "#FFFFFF", 10)

func (m Model) listHeight() int {
	return max(1, m.height-chromeHeight)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if len(m.tracks) == 0 {
		b.WriteString(theme.Info("no tracks"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(len(m.tracks), m.offset+m.listHeight())
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteByte('\n')
	}
	for i := end - m.offset; i < m.listHeight(); i++ {
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(theme.DimStyle.Render("↑/↓ move · enter play · d download · r random · q quit"))
	return b.String()
}

func (m Model) renderHeader() string {
	total := track.FormatDuration(track.TotalDuration(m.tracks))
	stats := theme.DimStyle.Render(fmt.Sprintf("%d tracks · %s", len(m.tracks), total))
	title := theme.GradientText(m.title, theme.Gradient(theme.ColorPrimary, theme.ColorSecondary, 12), true)
	return title + "  " + stats
}

// FormatRow renders "  n. Artist - Title (m:ss)" truncated to width.
func FormatRow(n int, t *track.Track, width int) string {
	line := fmt.Sprintf("%3d. %s (%s)", n, t.DisplayName(), track.FormatDuration(t.Duration))
	if width > 4 && lipgloss.Width(line) > width-2 {
		runes := []rune(line)
		line = string(runes[:min(len(runes), max(0, width-3))]) + "…"
	}
	return line
}

func (m Model) renderRow(i int) string {
	t := &m.tracks[i]
	line := FormatRow(i+1, t, m.width)

	marker := "  "
	style := theme.TextStyle
	if i%2 == 1 {
		style = theme.DimStyle.Foreground(lipgloss.Color(theme.ColorText)).Faint(true)
	}
	if !t.Playable() {
		style = theme.DimStyle
	}
	if i == m.playing {
		marker = "♪ "
		idx := int(m.pulse.Level() * float64(len(pulseColors)-1))
		style = theme.PlayingStyle.Foreground(lipgloss.Color(pulseColors[idx]))
	}
	if i == m.cursor {
		marker = "> "
		style = theme.SelectedStyle
	}
	return style.Render(marker + line)
}

func (m Model) renderStatus() string {
	text := m.status
	if m.busy > 0 && m.statusKind != StatusInfo {
		text = fmt.Sprintf("%s (%d pending)", text, m.busy)
	}
	switch m.statusKind {
	case StatusSuccess:
		return theme.Success(text)
	case StatusError:
		return theme.Error(text)
	case StatusInfo:
		return theme.Info(text)
	case StatusPlaying:
		return theme.Playing(text)
	default:
		return ""
	}
}
