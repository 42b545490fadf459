package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"karolbroda.com/moosic/internal/auth"
	"karolbroda.com/moosic/internal/catalog"
	"karolbroda.com/moosic/internal/playlist"
	"karolbroda.com/moosic/internal/terminal"
	"karolbroda.com/moosic/internal/track"
)

type menuAction string

const (
	actionLoadToken       menuAction = "load-token"
	actionEnterToken      menuAction = "enter-token"
	actionAuthHelp        menuAction = "auth-help"
	actionMyMusic         menuAction = "my-music"
	actionFriends         menuAction = "friends"
	actionPlaylists       menuAction = "playlists"
	actionRecommendations menuAction = "recommendations"
	actionSearch          menuAction = "search"
	actionCheckAPI        menuAction = "check-api"
	actionAbout           menuAction = "about"
	actionExit            menuAction = "exit"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "open the interactive menu",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

func menuOptions() []huh.Option[menuAction] {
	return []huh.Option[menuAction]{
		huh.NewOption("load token from "+state.cfg.TokenFile, actionLoadToken),
		huh.NewOption("enter token manually", actionEnterToken),
		huh.NewOption("how to get a token", actionAuthHelp),
		huh.NewOption("my music", actionMyMusic),
		huh.NewOption("friends' music", actionFriends),
		huh.NewOption("my playlists", actionPlaylists),
		huh.NewOption("recommendations", actionRecommendations),
		huh.NewOption("search", actionSearch),
		huh.NewOption("check token and api access", actionCheckAPI),
		huh.NewOption("about", actionAbout),
		huh.NewOption("exit", actionExit),
	}
}

func runMenu(ctx context.Context) error {
	if !terminal.IsInteractive() {
		return errors.New("the menu needs a terminal, use a subcommand instead (see 'moosic --help')")
	}
	state.interactive = true

	// a saved token is picked up silently so the music entries work at once
	if _, err := state.requireSession(ctx); err != nil && !errors.Is(err, catalog.ErrNoToken) {
		printWarning("saved token rejected: " + err.Error())
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		title := "moosic"
		if state.user != nil {
			title += " · " + state.user.FullName()
		}

		var choice menuAction
		err := huh.NewSelect[menuAction]().
			Title(title).
			Options(menuOptions()...).
			Height(14).
			Value(&choice).
			Run()
		if errors.Is(err, huh.ErrUserAborted) || choice == actionExit {
			return nil
		}
		if err != nil {
			return err
		}

		if err := runMenuAction(ctx, choice); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				continue
			}
			printError(err)
		}
		fmt.Println()
	}
}

func runMenuAction(ctx context.Context, choice menuAction) error {
	switch choice {
	case actionLoadToken:
		token, err := auth.LoadToken(state.cfg.TokenFile)
		if err != nil {
			return err
		}
		if err := state.useToken(ctx, token); err != nil {
			return err
		}
		printSuccess("logged in as " + state.user.FullName())
		return nil

	case actionEnterToken:
		return menuEnterToken(ctx)

	case actionAuthHelp:
		printAuthHelp()
		open := false
		if err := huh.NewConfirm().Title("open the url in a browser?").Value(&open).Run(); err != nil {
			return err
		}
		if open {
			if err := auth.OpenBrowser(auth.AuthorizeURL); err != nil {
				return err
			}
			printSuccess("browser opened")
		}
		return nil

	case actionAbout:
		printAbout()
		return nil
	}

	s, err := state.requireSession(ctx)
	if err != nil {
		return err
	}

	switch choice {
	case actionMyMusic:
		tracks, err := state.ownerTracks(ctx, s, 0, 0)
		if err != nil {
			return err
		}
		return state.browse(ctx, "my music", tracks)
	case actionFriends:
		return menuFriends(ctx, s)
	case actionPlaylists:
		return menuPlaylists(ctx, s)
	case actionRecommendations:
		return state.recommendations(ctx, s)
	case actionCheckAPI:
		return state.checkMethods(ctx, s)
	case actionSearch:
		var query string
		err := huh.NewInput().
			Title("search").
			Placeholder("artist or title").
			Value(&query).
			Run()
		if err != nil {
			return err
		}
		if strings.TrimSpace(query) == "" {
			return nil
		}
		return state.search(ctx, s, query, false)
	}
	return nil
}

func menuEnterToken(ctx context.Context) error {
	var input string
	err := huh.NewInput().
		Title("token or redirect url").
		EchoMode(huh.EchoModePassword).
		Value(&input).
		Run()
	if err != nil {
		return err
	}

	token, err := auth.ExtractToken(input)
	if err != nil {
		return err
	}

	if err := state.useToken(ctx, token); err != nil {
		return err
	}
	printSuccess("logged in as " + state.user.FullName())

	save := true
	if err := huh.NewConfirm().Title("save token to " + state.cfg.TokenFile + "?").Value(&save).Run(); err != nil {
		return err
	}
	if save {
		if err := auth.SaveToken(state.cfg.TokenFile, token); err != nil {
			return err
		}
		printSuccess("token saved")
	}
	return nil
}

func menuFriends(ctx context.Context, s catalog.Session) error {
	friends, err := state.friends(ctx, s)
	if err != nil {
		return err
	}
	if len(friends) == 0 {
		printInfo("no friends found")
		return nil
	}

	options := make([]huh.Option[int64], len(friends))
	for i, f := range friends {
		options[i] = huh.NewOption(f.FullName(), f.ID)
	}

	var id int64
	err = huh.NewSelect[int64]().
		Title("choose a friend").
		Options(options...).
		Height(15).
		Value(&id).
		Run()
	if err != nil {
		return err
	}

	tracks, err := state.ownerTracks(ctx, s, id, 0)
	if err != nil {
		return err
	}
	return state.browse(ctx, "music of "+friendName(friends, id), tracks)
}

func friendName(friends []track.User, id int64) string {
	for i := range friends {
		if friends[i].ID == id {
			return friends[i].FullName()
		}
	}
	return strconv.FormatInt(id, 10)
}

func menuPlaylists(ctx context.Context, s catalog.Session) error {
	playlists, err := state.playlists(ctx, s, 0)
	if err != nil {
		return err
	}
	if len(playlists) == 0 {
		printInfo("no playlists found")
		return nil
	}

	options := make([]huh.Option[int], len(playlists))
	for i, p := range playlists {
		options[i] = huh.NewOption(fmt.Sprintf("%s (%d)", p.DisplayTitle(), p.Count), i)
	}

	var idx int
	err = huh.NewSelect[int]().
		Title("choose a playlist").
		Options(options...).
		Height(15).
		Value(&idx).
		Run()
	if err != nil {
		return err
	}

	p := playlists[idx]
	req := playlist.Request{
		PlaylistID: strconv.FormatInt(p.ID, 10),
		OwnerID:    p.OwnerID,
		AccessKey:  p.AccessKey,
	}
	tracks, err := state.resolve(ctx, s, req)
	if err != nil {
		printError(err)
		return resolveFallback(ctx, req)
	}
	return state.browse(ctx, p.DisplayTitle(), tracks)
}

type fallbackAction string

const (
	fallbackBrowser fallbackAction = "browser"
	fallbackRecheck fallbackAction = "recheck"
	fallbackBack    fallbackAction = "back"
)

// resolveFallback offers the manual ways out when a playlist cannot be
// listed through the api.
func resolveFallback(ctx context.Context, req playlist.Request) error {
	choice := fallbackBack
	err := huh.NewSelect[fallbackAction]().
		Title("the playlist could not be loaded").
		Options(
			huh.NewOption("open playlist in browser", fallbackBrowser),
			huh.NewOption("re-check token and api access", fallbackRecheck),
			huh.NewOption("back", fallbackBack),
		).
		Value(&choice).
		Run()
	if err != nil {
		return err
	}

	switch choice {
	case fallbackBrowser:
		u := playlistURL(req)
		if err := auth.OpenBrowser(u); err != nil {
			printWarning(err.Error() + ", open " + u + " manually")
			return nil
		}
		printSuccess("browser opened")
	case fallbackRecheck:
		if err := state.useToken(ctx, state.session.Token); err != nil {
			return err
		}
		printSuccess("token is valid, logged in as " + state.user.FullName())
		return state.checkMethods(ctx, state.session)
	}
	return nil
}
