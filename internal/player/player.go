// Package player hands tracks to an external media player.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"karolbroda.com/moosic/internal/download"
	"karolbroda.com/moosic/internal/track"
)

const placeholder = "{}"

// Launcher starts a program without waiting for it to exit.
type Launcher func(name string, args ...string) error

// Player downloads a track into a temporary file and opens it with Command,
// or with the platform opener when Command is empty. Command may contain
// "{}" where the file path goes; otherwise the path is appended.
type Player struct {
	Fetcher  *download.Fetcher
	Command  string
	TempDir  string
	Notifier *Notifier
	Launch   Launcher

	mu    sync.Mutex
	files []string
}

// Play returns the path of the temporary file handed to the player.
func (p *Player) Play(ctx context.Context, t track.Track) (string, error) {
	if !t.Playable() {
		return "", download.ErrNoURL
	}

	tmp, err := os.CreateTemp(p.TempDir, "moosic-*.mp3")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmp.Name()
	tmp.Close()

	if _, err := p.Fetcher.Fetch(ctx, t.URL, path, nil); err != nil {
		_ = os.Remove(path)
		return "", err
	}

	name, args := Command(p.Command, path, runtime.GOOS)
	launch := p.Launch
	if launch == nil {
		launch = Start
	}
	if err := launch(name, args...); err != nil {
		return path, fmt.Errorf("failed to open player, audio saved as %s: %w", path, err)
	}

	slog.Debug("started player", "command", name, "path", path)
	p.remember(path)

	if p.Notifier != nil {
		if err := p.Notifier.NowPlaying(t); err != nil {
			slog.Debug("notification failed", "error", err)
		}
	}
	return path, nil
}

func (p *Player) remember(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.files = append(p.files, path)
}

// Cleanup removes the temporary files of tracks handed to the player. Files
// kept after a failed launch are left alone.
func (p *Player) Cleanup() error {
	p.mu.Lock()
	files := p.files
	p.files = nil
	p.mu.Unlock()

	var errs []error
	for _, path := range files {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Command builds the argv that opens path.
func Command(custom, path, goos string) (string, []string) {
	if fields := strings.Fields(custom); len(fields) > 0 {
		args := make([]string, 0, len(fields))
		substituted := false
		for _, f := range fields[1:] {
			if strings.Contains(f, placeholder) {
				f = strings.ReplaceAll(f, placeholder, path)
				substituted = true
			}
			args = append(args, f)
		}
		if !substituted {
			args = append(args, path)
		}
		return fields[0], args
	}

	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "cmd", []string{"/c", "start", "", path}
	default:
		return "xdg-open", []string{path}
	}
}

// Start runs the program in the background and reaps it when it exits.
func Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
