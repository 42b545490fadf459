// Package ui is the interactive track browser.
package ui

import (
	"context"
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"karolbroda.com/moosic/internal/track"
)

type StatusKind int

const (
	StatusNone StatusKind = iota
	StatusInfo
	StatusSuccess
	StatusError
	StatusPlaying
)

const tickInterval = 80 * time.Millisecond

// Actions are the side effects the browser triggers. Either may be nil, in
// which case the key is ignored.
type Actions struct {
	Play     func(ctx context.Context, t track.Track) error
	Download func(ctx context.Context, t track.Track) (string, error)
}

type TickMsg time.Time

type PlayedMsg struct {
	Index int
	Err   error
}

type DownloadedMsg struct {
	Index int
	Path  string
	Err   error
}

type Model struct {
	title   string
	tracks  []track.Track
	actions Actions
	ctx     context.Context
	pick    func(n int) int

	cursor  int
	offset  int
	width   int
	height  int
	playing int
	busy    int
	pulse   Pulse

	status     string
	statusKind StatusKind
	quitting   bool
}

type ModelConfig struct {
	Title   string
	Tracks  []track.Track
	Actions Actions
	Context context.Context
	// Pick returns a random index in [0, n). Defaults to math/rand.
	Pick func(n int) int
}

func NewModel(cfg ModelConfig) Model {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pick := cfg.Pick
	if pick == nil {
		pick = rand.Intn
	}
	return Model{
		title:   cfg.Title,
		tracks:  cfg.Tracks,
		actions: cfg.Actions,
		ctx:     ctx,
		pick:    pick,
		playing: -1,
		width:   80,
		height:  24,
	}
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Cursor() int {
	return m.cursor
}

func (m Model) Status() (string, StatusKind) {
	return m.status, m.statusKind
}

func (m Model) Quitting() bool {
	return m.quitting
}

// Run shows the browser full screen until the user quits.
func Run(cfg ModelConfig) error {
	if len(cfg.Tracks) == 0 {
		return nil
	}
	_, err := tea.NewProgram(NewModel(cfg), tea.WithAltScreen()).Run()
	return err
}
