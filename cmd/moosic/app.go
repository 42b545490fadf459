package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh/spinner"

	"karolbroda.com/moosic/internal/auth"
	"karolbroda.com/moosic/internal/catalog"
	"karolbroda.com/moosic/internal/config"
	"karolbroda.com/moosic/internal/download"
	"karolbroda.com/moosic/internal/library"
	"karolbroda.com/moosic/internal/player"
	"karolbroda.com/moosic/internal/playlist"
	"karolbroda.com/moosic/internal/track"
	"karolbroda.com/moosic/internal/ui"
)

// app is the state shared by every command, built once in setup.
type app struct {
	cfg         *config.Config
	client      *catalog.Client
	interactive bool

	session     catalog.Session
	user        *track.User
	index       *library.Index
	notifier    *player.Notifier
	notifyTried bool
	play        *player.Player
}

var state *app

func (a *app) close() {
	if a.play != nil {
		if err := a.play.Cleanup(); err != nil {
			slog.Warn("failed to remove temporary audio", "error", err)
		}
	}
	if a.notifier != nil {
		_ = a.notifier.Close()
	}
}

// useToken validates token and makes it the current session.
func (a *app) useToken(ctx context.Context, token string) error {
	s, user, err := auth.Validate(ctx, a.client, auth.ParseToken(token))
	if err != nil {
		return err
	}
	a.session = s
	a.user = user
	slog.Info("authenticated", "user_id", s.UserID, "name", user.FullName())
	return nil
}

// requireSession returns a validated session, reading the token from
// MOOSIC_TOKEN or the token file on first use.
func (a *app) requireSession(ctx context.Context) (catalog.Session, error) {
	if a.session.HasToken() && a.user != nil {
		return a.session, nil
	}

	token := a.cfg.Token
	if token == "" {
		var err error
		token, err = auth.LoadToken(a.cfg.TokenFile)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return catalog.Session{}, fmt.Errorf("no token found at %s, run 'moosic auth login' first: %w", a.cfg.TokenFile, catalog.ErrNoToken)
			}
			return catalog.Session{}, err
		}
	}

	if err := a.useToken(ctx, token); err != nil {
		return catalog.Session{}, err
	}
	return a.session, nil
}

func (a *app) resolver() *playlist.Resolver {
	return playlist.NewResolver(a.client)
}

func (a *app) library() *library.Index {
	if a.index != nil {
		return a.index
	}
	idx, err := library.OpenDefault()
	if err != nil {
		slog.Warn("library index unavailable, downloads will not be remembered", "error", err)
	}
	a.index = idx
	return idx
}

func (a *app) fetcher() *download.Fetcher {
	client := *a.client.HTTPClient()
	client.Timeout = config.DownloadTimeout
	return &download.Fetcher{Client: &client, UserAgent: a.client.UserAgent()}
}

func (a *app) downloader(dir string) *download.Downloader {
	if dir == "" {
		dir = a.cfg.DownloadDir
	}
	return &download.Downloader{
		Fetcher: a.fetcher(),
		Dir:     dir,
		Index:   a.library(),
	}
}

func (a *app) player() *player.Player {
	if a.play != nil {
		return a.play
	}
	if a.cfg.Notify && !a.notifyTried && a.notifier == nil {
		a.notifyTried = true
		n, err := player.ConnectNotifier()
		if err != nil {
			slog.Debug("desktop notifications disabled", "error", err)
		} else {
			a.notifier = n
		}
	}
	a.play = &player.Player{
		Fetcher:  a.fetcher(),
		Command:  a.cfg.Player,
		Notifier: a.notifier,
	}
	return a.play
}

// browse shows tracks in the interactive browser, or prints them when the
// output is not a terminal.
func (a *app) browse(ctx context.Context, title string, tracks []track.Track) error {
	if len(tracks) == 0 {
		printInfo("no tracks found")
		return nil
	}
	if !a.interactive {
		printTracks(os.Stdout, tracks)
		return nil
	}

	p := a.player()
	d := a.downloader("")
	return ui.Run(ui.ModelConfig{
		Title:   title,
		Tracks:  tracks,
		Context: ctx,
		Actions: ui.Actions{
			Play: func(ctx context.Context, t track.Track) error {
				_, err := p.Play(ctx, t)
				return err
			},
			Download: func(ctx context.Context, t track.Track) (string, error) {
				res := d.Track(ctx, t, nil)
				return res.Path, res.Err
			},
		},
	})
}

// withSpinner runs fn under a spinner on a terminal, or directly otherwise.
func (a *app) withSpinner(ctx context.Context, title string, fn func(ctx context.Context) error) error {
	if !a.interactive {
		return fn(ctx)
	}
	return spinner.New().Title(title).Context(ctx).ActionWithErr(fn).Run()
}

// downloadAll runs a batch download and prints a per-track report.
func (a *app) downloadAll(ctx context.Context, name string, tracks []track.Track, workers int) error {
	if workers <= 0 {
		workers = a.cfg.Workers
	}
	dir := a.cfg.DownloadDir
	if name != "" {
		dir = filepath.Join(dir, download.SanitizeName(name))
	}

	printDownloading(fmt.Sprintf("downloading %d tracks to %s with %d workers", len(tracks), dir, workers))

	total := len(tracks)
	finished := 0
	results, err := a.downloader(dir).All(ctx, tracks, workers, func(r download.Result) {
		finished++
		printResult(finished, total, r)
	})

	done, skipped, failed := download.Summary(results)
	fmt.Printf("\n%s\n", strings.Join([]string{
		fmt.Sprintf("downloaded: %d", done),
		fmt.Sprintf("skipped: %d", skipped),
		fmt.Sprintf("failed: %d", failed),
	}, "  "))
	return err
}
