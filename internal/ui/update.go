package ui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"karolbroda.com/moosic/internal/download"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case PlayedMsg:
		return m.handlePlayed(msg)

	case DownloadedMsg:
		return m.handleDownloaded(msg)

	case TickMsg:
		m.pulse.Update()
		return m, tickCmd()
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "pgup":
		m.move(-m.listHeight())
	case "pgdown":
		m.move(m.listHeight())
	case "home", "g":
		m.move(-len(m.tracks))
	case "end", "G":
		m.move(len(m.tracks))

	case "enter", " ":
		return m.play(m.cursor)

	case "r", "p":
		if len(m.tracks) == 0 {
			return m, nil
		}
		idx := m.pick(len(m.tracks))
		m.cursor = idx
		m.clampOffset()
		return m.play(idx)

	case "d":
		return m.download(m.cursor)
	}

	return m, nil
}

func (m *Model) move(delta int) {
	if len(m.tracks) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.tracks)-1, m.cursor+delta))
	m.clampOffset()
}

// clampOffset keeps the cursor inside the visible window.
func (m *Model) clampOffset() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(0, min(m.offset, max(0, len(m.tracks)-h)))
}

func (m *Model) setStatus(kind StatusKind, text string) {
	m.statusKind = kind
	m.status = text
}

func (m Model) play(idx int) (tea.Model, tea.Cmd) {
	if idx < 0 || idx >= len(m.tracks) || m.actions.Play == nil {
		return m, nil
	}
	t := m.tracks[idx]
	if !t.Playable() {
		m.setStatus(StatusError, download.ErrNoURL.Error())
		return m, nil
	}

	m.busy++
	m.setStatus(StatusInfo, "loading "+t.DisplayName()+"...")

	ctx, play := m.ctx, m.actions.Play
	return m, func() tea.Msg {
		return PlayedMsg{Index: idx, Err: play(ctx, t)}
	}
}

func (m Model) download(idx int) (tea.Model, tea.Cmd) {
	if idx < 0 || idx >= len(m.tracks) || m.actions.Download == nil {
		return m, nil
	}
	t := m.tracks[idx]
	if !t.Playable() {
		m.setStatus(StatusError, download.ErrNoURL.Error())
		return m, nil
	}

	m.busy++
	m.setStatus(StatusInfo, "downloading "+t.DisplayName()+"...")

	ctx, fetch := m.ctx, m.actions.Download
	return m, func() tea.Msg {
		path, err := fetch(ctx, t)
		return DownloadedMsg{Index: idx, Path: path, Err: err}
	}
}

func (m Model) handlePlayed(msg PlayedMsg) (tea.Model, tea.Cmd) {
	m.busy = max(0, m.busy-1)
	name := m.tracks[msg.Index].DisplayName()
	if msg.Err != nil {
		m.setStatus(StatusError, "failed to play "+name+": "+msg.Err.Error())
		return m, nil
	}
	m.playing = msg.Index
	m.pulse.Start()
	m.setStatus(StatusPlaying, "playing "+name)
	return m, nil
}

func (m Model) handleDownloaded(msg DownloadedMsg) (tea.Model, tea.Cmd) {
	m.busy = max(0, m.busy-1)
	name := m.tracks[msg.Index].DisplayName()
	switch {
	case errors.Is(msg.Err, download.ErrNoURL):
		m.setStatus(StatusError, msg.Err.Error())
	case msg.Err != nil:
		m.setStatus(StatusError, "failed to download "+name+": "+msg.Err.Error())
	default:
		m.setStatus(StatusSuccess, "saved "+msg.Path)
	}
	return m, nil
}
